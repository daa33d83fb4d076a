package batch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_DerivativePath(t *testing.T) {
	in := filepath.Join(string(filepath.Separator), "photos", "in")
	out := filepath.Join(string(filepath.Separator), "photos", "out")
	fm := NewFileManager(in, out)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{
			name: "Top level",
			path: filepath.Join(in, "a.jpg"),
			want: filepath.Join(out, "a.jpg"),
		},
		{
			name: "Sub directory",
			path: filepath.Join(in, "trip", "b.png"),
			want: filepath.Join(out, "trip"+DerivativeDirSuffix, "b.png"),
		},
		{
			name: "Nested sub directory",
			path: filepath.Join(in, "trip", "day1", "c.jpg"),
			want: filepath.Join(out, "trip", "day1"+DerivativeDirSuffix, "c.jpg"),
		},
		{
			name:    "Outside input",
			path:    filepath.Join(in, "..", "elsewhere", "d.jpg"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fm.DerivativePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileManager_NestedOutput(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data")

	assert.True(t, NewFileManager(root, filepath.Join(root, "out")).NestedOutput())
	assert.False(t, NewFileManager(filepath.Join(root, "in"), filepath.Join(root, "out")).NestedOutput())
	assert.False(t, NewFileManager(root, root).NestedOutput())
}

func TestFileManager_EnsureDir(t *testing.T) {
	base := t.TempDir()
	fm := NewFileManager(base, base)

	dir := filepath.Join(base, "x"+DerivativeDirSuffix, "y")
	require.NoError(t, fm.EnsureDir(dir))
	assert.DirExists(t, dir)
}

func TestFileManager_OutputIsInput(t *testing.T) {
	dir := filepath.Join(string(filepath.Separator), "photos")
	fm := NewFileManager(dir, dir+string(filepath.Separator))

	assert.ErrorIs(t, fm.Validate(), ErrOutputIsInput)

	_, err := fm.DerivativePath(filepath.Join(dir, "a.jpg"))
	assert.ErrorIs(t, err, ErrOutputIsInput)

	// Sub directories get the suffix, so they never collide.
	got, err := fm.DerivativePath(filepath.Join(dir, "trip", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trip"+DerivativeDirSuffix, "b.jpg"), got)

	assert.NoError(t, NewFileManager(dir, filepath.Join(dir, "out")).Validate())
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dixieflatline76/Cornermark/pkg/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

const validConfig = `
[cloudinary]
cloud_name = "demo"
api_key = "123456789"
api_secret = "s3cr3t"

[script]
input_folder = "images"
output_folder = "/tmp/watermarked"
black_watermark_transformation = "logo_black"
white_watermark_transformation = "logo_white"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cornermark.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
	assert.Equal(t, "123456789", cfg.Cloudinary.APIKey)
	assert.Equal(t, "s3cr3t", cfg.Cloudinary.APISecret)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "images"), cfg.Script.InputFolder)
	assert.Equal(t, filepath.Clean("/tmp/watermarked"), cfg.Script.OutputFolder)
	assert.Equal(t, runtime.NumCPU(), cfg.Script.Workers)
	assert.Equal(t, path, cfg.Path())
	assert.Empty(t, cfg.UnknownKeys())

	assert.Equal(t, "logo_black", cfg.Transformation(analyzer.Black))
	assert.Equal(t, "logo_white", cfg.Transformation(analyzer.White))
}

func TestLoad_OptionalSettings(t *testing.T) {
	path := writeConfig(t, validConfig+"workers = 3\nstrategy = \"kmeans\"\ncolour = \"teal\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Script.Workers)
	assert.Equal(t, "kmeans", cfg.Script.Strategy)
	assert.Equal(t, []string{"script.colour"}, cfg.UnknownKeys())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file was not found")
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[cloudinary\ncloud_name = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing configuration file")
}

func TestLoad_MissingOptions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		section string
		option  string
		message string
	}{
		{
			name:    "Missing cloudinary section",
			content: "[script]\ninput_folder = \"in\"\n",
			section: SectionCloudinary,
			message: "cloudinary section [cloudinary] is missing from configuration file. Please look at README.md",
		},
		{
			name:    "Missing cloud_name",
			content: "[cloudinary]\napi_key = \"k\"\n",
			section: SectionCloudinary,
			option:  OptCloudName,
			message: "cloud_name option is missing from configuration file. Please look at README.md",
		},
		{
			name:    "Missing api_key",
			content: "[cloudinary]\ncloud_name = \"demo\"\n",
			section: SectionCloudinary,
			option:  OptAPIKey,
		},
		{
			name:    "Missing script section",
			content: "[cloudinary]\ncloud_name = \"demo\"\napi_key = \"k\"\napi_secret = \"s\"\n",
			section: SectionScript,
		},
		{
			name: "Missing white transformation",
			content: "[cloudinary]\ncloud_name = \"demo\"\napi_key = \"k\"\napi_secret = \"s\"\n" +
				"[script]\ninput_folder = \"in\"\noutput_folder = \"out\"\nblack_watermark_transformation = \"b\"\n",
			section: SectionScript,
			option:  OptWhiteWatermarkTransformation,
		},
		{
			name: "Blank output folder",
			content: "[cloudinary]\ncloud_name = \"demo\"\napi_key = \"k\"\napi_secret = \"s\"\n" +
				"[script]\ninput_folder = \"in\"\noutput_folder = \"  \"\n",
			section: SectionScript,
			option:  OptOutputFolder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)

			var missing *MissingOptionError
			require.True(t, errors.As(err, &missing), "unexpected error: %v", err)
			assert.Equal(t, tt.section, missing.Section)
			assert.Equal(t, tt.option, missing.Option)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestLoad_InvalidOptionalSettings(t *testing.T) {
	_, err := Load(writeConfig(t, validConfig+"workers = -2\n"))
	assert.ErrorContains(t, err, "workers must not be negative")

	_, err = Load(writeConfig(t, validConfig+"strategy = \"median\"\n"))
	assert.ErrorContains(t, err, "invalid strategy")
}

func TestLoad_SecretFromKeyring(t *testing.T) {
	keyring.MockInit()

	content := `
[cloudinary]
cloud_name = "keyed"
api_key = "k"

[script]
input_folder = "in"
output_folder = "out"
black_watermark_transformation = "b"
white_watermark_transformation = "w"
`
	path := writeConfig(t, content)

	_, err := Load(path)
	var missing *MissingOptionError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, OptAPISecret, missing.Option)

	require.NoError(t, StoreSecret("keyed", "from-keyring"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", cfg.Cloudinary.APISecret)
}

func TestLoad_WithoutSecret(t *testing.T) {
	keyring.MockInit()

	content := `
[cloudinary]
cloud_name = "nosecret"
api_key = "k"

[script]
input_folder = "in"
output_folder = "out"
black_watermark_transformation = "b"
white_watermark_transformation = "w"
`
	path := writeConfig(t, content)

	_, err := Load(path)
	var missing *MissingOptionError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, OptAPISecret, missing.Option)

	cfg, err := Load(path, WithoutSecret())
	require.NoError(t, err)
	assert.Empty(t, cfg.Cloudinary.APISecret)
	assert.Equal(t, "b", cfg.Script.BlackWatermarkTransformation)
}

func TestStoreSecret_RequiresValues(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, StoreSecret("", "secret"))
	assert.Error(t, StoreSecret("demo", ""))
}

func TestReadCloudName(t *testing.T) {
	name, err := ReadCloudName(writeConfig(t, "[cloudinary]\ncloud_name = \"demo\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	_, err = ReadCloudName(writeConfig(t, "[script]\n"))
	var missing *MissingOptionError
	assert.True(t, errors.As(err, &missing))
}

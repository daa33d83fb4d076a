package batch

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dixieflatline76/Cornermark/pkg/cloud"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCloudClient is a mock implementation of the CloudClient interface.
type MockCloudClient struct {
	mock.Mock
}

func (m *MockCloudClient) Upload(ctx context.Context, path, transformation string) (*cloud.UploadResult, error) {
	args := m.Called(ctx, path, transformation)
	res, _ := args.Get(0).(*cloud.UploadResult)
	return res, args.Error(1)
}

func (m *MockCloudClient) Download(ctx context.Context, url, dst string) error {
	args := m.Called(ctx, url, dst)
	return args.Error(0)
}

// writeImage writes a solid width x height image to path, encoded by extension.
func writeImage(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".png") {
		require.NoError(t, png.Encode(f, img))
	} else {
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
	}
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func rgb(c [3]uint8) color.RGBA {
	return color.RGBA{c[0], c[1], c[2], 255}
}

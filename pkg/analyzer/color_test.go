package analyzer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyWatermarkColor(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  WatermarkColor
	}{
		{"black", Color{0, 0, 0}, White},
		{"white", Color{255, 255, 255}, Black},
		{"threshold gray", Color{128, 128, 128}, Black},
		{"just below threshold", Color{127, 127, 127}, White},
		{"pure red", Color{255, 0, 0}, White},
		{"pure green", Color{0, 255, 0}, Black},
		{"pure blue", Color{0, 0, 255}, White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWatermarkColor(tt.color))
		})
	}
}

func TestColor_Luminance(t *testing.T) {
	assert.Equal(t, 0.0, Color{0, 0, 0}.Luminance())
	assert.Equal(t, 128.0, Color{128, 128, 128}.Luminance())
	assert.InDelta(t, 255.0, Color{255, 255, 255}.Luminance(), 1e-9)
	assert.InDelta(t, 0.2126*255, Color{255, 0, 0}.Luminance(), 1e-9)
}

func TestColor_Formatting(t *testing.T) {
	c := Color{R: 255, G: 128, B: 0}
	assert.Equal(t, "#ff8000", c.Hex())
	assert.Equal(t, "rgb(255, 128, 0)", c.String())
}

func TestColorFrom_DropsAlpha(t *testing.T) {
	assert.Equal(t, Color{10, 20, 30}, ColorFrom(color.RGBA{10, 20, 30, 255}))
	assert.Equal(t, Color{10, 20, 30}, ColorFrom(color.NRGBA{10, 20, 30, 128}))
}

func TestWatermarkColor_String(t *testing.T) {
	assert.Equal(t, "black", Black.String())
	assert.Equal(t, "white", White.String())
	assert.Equal(t, "WatermarkColor(7)", WatermarkColor(7).String())
}

func TestParseWatermarkColor(t *testing.T) {
	w, err := ParseWatermarkColor(" White ")
	require.NoError(t, err)
	assert.Equal(t, White, w)

	w, err = ParseWatermarkColor("BLACK")
	require.NoError(t, err)
	assert.Equal(t, Black, w)

	_, err = ParseWatermarkColor("grey")
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyHistogram, s)

	s, err = ParseStrategy("kmeans")
	require.NoError(t, err)
	assert.Equal(t, StrategyKMeans, s)

	_, err = ParseStrategy("median")
	assert.Error(t, err)
}

package analyzer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple. Alpha is not considered.
type Color struct {
	R, G, B uint8
}

// ColorFrom converts any color.Color to an 8-bit RGB Color, dropping alpha.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	col, _ := colorful.MakeColor(c)
	return col.Hex()
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Luminance returns the BT.709 relative luminance of the color, treating the
// channels as linear 0-255 values (no gamma correction).
func (c Color) Luminance() float64 {
	// Explicit conversions keep each product rounded, so no fused multiply-add
	// shifts values sitting on the threshold.
	r := float64(LumaRed * float64(c.R))
	g := float64(LumaGreen * float64(c.G))
	b := float64(LumaBlue * float64(c.B))
	return r + g + b
}

// WatermarkColor is the color of the watermark overlay applied to an image.
type WatermarkColor int

const (
	// Black is used on light corners.
	Black WatermarkColor = iota
	// White is used on dark corners.
	White
)

func (w WatermarkColor) String() string {
	switch w {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("WatermarkColor(%d)", int(w))
	}
}

// ParseWatermarkColor parses "black" or "white", ignoring case.
func ParseWatermarkColor(s string) (WatermarkColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	default:
		return 0, fmt.Errorf("unknown watermark color %q", s)
	}
}

// ClassifyWatermarkColor picks the watermark color that contrasts with c.
// Dark colors (luminance below LuminanceThreshold) get a white watermark,
// everything else gets a black one.
func ClassifyWatermarkColor(c Color) WatermarkColor {
	if c.Luminance() < LuminanceThreshold {
		return White
	}
	return Black
}

package analyzer

import (
	"image"

	"github.com/disintegration/imaging"
)

// Region is the rectangle of an image that gets sampled.
type Region struct {
	image.Rectangle
}

// CornerRegion returns the width x height window anchored at the bottom-right
// corner of bounds. When the image is smaller than the window in a dimension,
// the window origin is clamped to the image origin on that axis, so the region
// covers the full extent of that dimension instead of going negative.
func CornerRegion(bounds image.Rectangle, width, height int) Region {
	x0 := max(bounds.Max.X-width, bounds.Min.X)
	y0 := max(bounds.Max.Y-height, bounds.Min.Y)
	return Region{image.Rect(x0, y0, bounds.Max.X, bounds.Max.Y)}
}

// HistogramEntry is one color and the number of pixels that carry it.
type HistogramEntry struct {
	Color Color
	Count int
}

// Histogram counts pixel colors and remembers the order in which each color
// was first seen.
type Histogram struct {
	entries []HistogramEntry
	index   map[Color]int
	total   int
}

// NewHistogram creates an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{index: make(map[Color]int)}
}

// Add records one pixel of color c.
func (h *Histogram) Add(c Color) {
	h.total++
	if i, ok := h.index[c]; ok {
		h.entries[i].Count++
		return
	}
	h.index[c] = len(h.entries)
	h.entries = append(h.entries, HistogramEntry{Color: c, Count: 1})
}

// Len returns the number of distinct colors.
func (h *Histogram) Len() int {
	return len(h.entries)
}

// Total returns the number of pixels counted.
func (h *Histogram) Total() int {
	return h.total
}

// Count returns how many pixels carry c.
func (h *Histogram) Count(c Color) int {
	if i, ok := h.index[c]; ok {
		return h.entries[i].Count
	}
	return 0
}

// Entries returns a copy of the entries in first-seen order.
func (h *Histogram) Entries() []HistogramEntry {
	out := make([]HistogramEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Dominant returns the most frequent color and its count. Only a strictly
// greater count replaces the current winner, so ties go to the color seen first.
// ok is false for an empty histogram.
func (h *Histogram) Dominant() (c Color, count int, ok bool) {
	for _, e := range h.entries {
		if e.Count > count {
			c, count = e.Color, e.Count
		}
	}
	return c, count, count > 0
}

// BuildHistogram counts every pixel of region in row-major order. It fails with
// ErrTooManyColors as soon as more than maxColors distinct colors are seen.
// A maxColors of zero or less means no limit.
func BuildHistogram(img image.Image, region Region, maxColors int) (*Histogram, error) {
	crop := imaging.Crop(img, region.Rectangle)
	if crop.Rect.Empty() {
		return nil, &AnalysisError{Reason: ErrEmptyRegion, Region: region}
	}

	h := NewHistogram()
	w, ht := crop.Rect.Dx(), crop.Rect.Dy()
	for y := 0; y < ht; y++ {
		row := crop.Pix[y*crop.Stride : y*crop.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			h.Add(Color{R: row[x], G: row[x+1], B: row[x+2]})
			if maxColors > 0 && h.Len() > maxColors {
				return nil, &AnalysisError{Reason: ErrTooManyColors, Region: region, Limit: maxColors}
			}
		}
	}
	return h, nil
}

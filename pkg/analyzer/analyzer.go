// Package analyzer decides whether a black or a white watermark reads better
// on an image by sampling the color of its bottom-right corner.
package analyzer

import (
	"fmt"
	"image"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
)

// Options configures an Analyzer.
type Options struct {
	RegionWidth  int      // Sampled window width, anchored at the right edge
	RegionHeight int      // Sampled window height, anchored at the bottom edge
	MaxColors    int      // Distinct color capacity of the histogram, <= 0 for unlimited
	Strategy     Strategy // How the dominant color is computed
}

// DefaultOptions returns the 200x150 histogram sampling used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		RegionWidth:  DefaultRegionWidth,
		RegionHeight: DefaultRegionHeight,
		MaxColors:    DefaultMaxColors,
		Strategy:     StrategyHistogram,
	}
}

// Analyzer samples image corners. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates an Analyzer. Zero region dimensions and an empty
// strategy fall back to the defaults.
func NewAnalyzer(opts Options) *Analyzer {
	if opts.RegionWidth <= 0 {
		opts.RegionWidth = DefaultRegionWidth
	}
	if opts.RegionHeight <= 0 {
		opts.RegionHeight = DefaultRegionHeight
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyHistogram
	}
	return &Analyzer{opts: opts}
}

// Options returns the effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Region returns the sampling region for an image with the given bounds.
func (a *Analyzer) Region(bounds image.Rectangle) Region {
	return CornerRegion(bounds, a.opts.RegionWidth, a.opts.RegionHeight)
}

// Histogram builds the color histogram of the corner region of img.
func (a *Analyzer) Histogram(img image.Image) (*Histogram, error) {
	return BuildHistogram(img, a.Region(img.Bounds()), a.opts.MaxColors)
}

// DominantCornerColor returns the dominant color of the corner region of img.
func (a *Analyzer) DominantCornerColor(img image.Image) (Color, error) {
	switch a.opts.Strategy {
	case StrategyKMeans:
		return a.clusterColor(img)
	case StrategyHistogram:
		h, err := a.Histogram(img)
		if err != nil {
			return Color{}, err
		}
		c, _, ok := h.Dominant()
		if !ok {
			return Color{}, &AnalysisError{Reason: ErrEmptyRegion, Region: a.Region(img.Bounds())}
		}
		return c, nil
	default:
		return Color{}, fmt.Errorf("unknown strategy %q", a.opts.Strategy)
	}
}

// clusterColor returns the center of the largest k-means cluster of the region.
func (a *Analyzer) clusterColor(img image.Image) (Color, error) {
	region := a.Region(img.Bounds())
	crop := imaging.Crop(img, region.Rectangle)
	if crop.Rect.Empty() {
		return Color{}, &AnalysisError{Reason: ErrEmptyRegion, Region: region}
	}
	return ColorFrom(dominantcolor.Find(crop)), nil
}

// DecideWatermark samples img and returns the watermark color that contrasts
// with its corner. AnalysisError is returned unchanged.
func (a *Analyzer) DecideWatermark(img image.Image) (WatermarkColor, Color, error) {
	c, err := a.DominantCornerColor(img)
	if err != nil {
		return 0, Color{}, err
	}
	return ClassifyWatermarkColor(c), c, nil
}

var defaultAnalyzer = NewAnalyzer(DefaultOptions())

// DominantCornerColor returns the most frequent color of the bottom-right
// 200x150 window of img.
func DominantCornerColor(img image.Image) (Color, error) {
	return defaultAnalyzer.DominantCornerColor(img)
}

// DecideWatermark returns the watermark color for img using the default options.
func DecideWatermark(img image.Image) (WatermarkColor, error) {
	w, _, err := defaultAnalyzer.DecideWatermark(img)
	return w, err
}

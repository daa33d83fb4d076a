package analyzer

import "fmt"

// Corner sampling defaults.
const (
	DefaultRegionWidth  = 200     // Width of the sampled bottom-right window
	DefaultRegionHeight = 150     // Height of the sampled bottom-right window
	DefaultMaxColors    = 1024000 // Distinct colors a region may hold before analysis fails
)

// BT.709 luma coefficients and the light/dark cut-off on the 0-255 scale.
const (
	LumaRed            = 0.2126
	LumaGreen          = 0.7152
	LumaBlue           = 0.0722
	LuminanceThreshold = 128.0
)

// Strategy selects how the dominant corner color is computed.
type Strategy string

// Supported strategies
const (
	StrategyHistogram Strategy = "histogram" // Exact most frequent color, first-seen wins ties
	StrategyKMeans    Strategy = "kmeans"    // Largest k-means cluster of the region
)

// ParseStrategy validates a strategy name. The empty string selects StrategyHistogram.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyHistogram:
		return StrategyHistogram, nil
	case StrategyKMeans:
		return StrategyKMeans, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %s or %s)", s, StrategyHistogram, StrategyKMeans)
	}
}

package analyzer

import (
	"errors"
	"fmt"
)

// Reasons an analysis can fail. Match them with errors.Is.
var (
	ErrTooManyColors = errors.New("too many distinct colors")
	ErrEmptyRegion   = errors.New("sampling region is empty")
)

// AnalysisError reports why the dominant corner color of an image could not be determined.
type AnalysisError struct {
	Reason error
	Region Region
	Limit  int // distinct color capacity, set for ErrTooManyColors
}

func (e *AnalysisError) Error() string {
	if errors.Is(e.Reason, ErrTooManyColors) {
		return fmt.Sprintf("analysis failed: %v in region %v (limit %d)", e.Reason, e.Region.Rectangle, e.Limit)
	}
	return fmt.Sprintf("analysis failed: %v (region %v)", e.Reason, e.Region.Rectangle)
}

func (e *AnalysisError) Unwrap() error {
	return e.Reason
}

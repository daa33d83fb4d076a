package batch

import (
	"fmt"
	"io"
	"time"

	"github.com/dixieflatline76/Cornermark/pkg/analyzer"
)

// Report summarizes one batch run.
type Report struct {
	RunID    string
	Root     string
	Started  time.Time
	Finished time.Time
	Results  []Result // sorted by path
}

// Summary holds the per-category totals of a report.
type Summary struct {
	Total      int
	Black      int
	White      int
	Uploaded   int
	Downloaded int
	Failed     int
}

// Summary counts the results.
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Failed() {
			s.Failed++
			if res.Stage == StageDecode || res.Stage == StageAnalyze {
				continue
			}
		}
		switch res.Watermark {
		case analyzer.Black:
			s.Black++
		case analyzer.White:
			s.White++
		}
		if res.Upload != nil {
			s.Uploaded++
		}
		if res.DownloadedTo != "" {
			s.Downloaded++
		}
	}
	return s
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Write prints a human readable summary to w.
func (r *Report) Write(w io.Writer) {
	s := r.Summary()
	fmt.Fprintf(w, "Processed %d images in %s\n", s.Total, r.Finished.Sub(r.Started).Round(time.Millisecond))
	fmt.Fprintf(w, "  black watermark: %d\n", s.Black)
	fmt.Fprintf(w, "  white watermark: %d\n", s.White)
	fmt.Fprintf(w, "  uploaded:        %d\n", s.Uploaded)
	fmt.Fprintf(w, "  downloaded:      %d\n", s.Downloaded)
	fmt.Fprintf(w, "  failed:          %d\n", s.Failed)
	for _, f := range r.Failures() {
		fmt.Fprintf(w, "  ! %s (%s): %v\n", f.Path, f.Stage, f.Err)
	}
}

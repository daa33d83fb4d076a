package batch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Cornermark/pkg/analyzer"
	"github.com/dixieflatline76/Cornermark/pkg/cloud"
	"github.com/dixieflatline76/Cornermark/util/log"
)

// CloudClient uploads images and fetches the transformed results.
type CloudClient interface {
	Upload(ctx context.Context, path, transformation string) (*cloud.UploadResult, error)
	Download(ctx context.Context, url, dst string) error
}

// Transformations maps each watermark color to the transformation that applies it.
type Transformations struct {
	Black string
	White string
}

// For returns the transformation for w.
func (t Transformations) For(w analyzer.WatermarkColor) string {
	switch w {
	case analyzer.White:
		return t.White
	default:
		return t.Black
	}
}

// Job is a single image to process.
type Job struct {
	Path string
}

// Result is the outcome of processing one image. Err is set when any stage
// failed; Stage names the stage.
type Result struct {
	Path           string
	Watermark      analyzer.WatermarkColor
	Corner         analyzer.Color
	Transformation string
	Upload         *cloud.UploadResult
	DownloadedTo   string
	Stage          string
	Err            error
}

// Failed reports whether processing stopped early.
func (r Result) Failed() bool {
	return r.Err != nil
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	Download bool // fetch the transformed image into the output tree
	DryRun   bool // analyze only, never contact the cloud
}

// Processor runs decode, analysis, upload and download for one image.
type Processor struct {
	analyzer        *analyzer.Analyzer
	client          CloudClient
	fm              *FileManager
	transformations Transformations
	opts            ProcessorOptions
}

// NewProcessor creates a Processor. client may be nil when opts.DryRun is set.
func NewProcessor(a *analyzer.Analyzer, client CloudClient, fm *FileManager, t Transformations, opts ProcessorOptions) *Processor {
	return &Processor{
		analyzer:        a,
		client:          client,
		fm:              fm,
		transformations: t,
		opts:            opts,
	}
}

// Process handles job. Failures are reported in the Result rather than
// returned so one bad file never stops the batch.
func (p *Processor) Process(ctx context.Context, job Job) Result {
	res := Result{Path: job.Path}
	fail := func(stage string, err error) Result {
		res.Stage = stage
		res.Err = err
		return res
	}

	img, err := decodeImage(ctx, job.Path)
	if err != nil {
		return fail(StageDecode, err)
	}

	log.Printf("Analyzing south east watermark color for image: %s", job.Path)
	watermark, corner, err := p.analyzer.DecideWatermark(img)
	if err != nil {
		return fail(StageAnalyze, err)
	}
	res.Watermark = watermark
	res.Corner = corner
	res.Transformation = p.transformations.For(watermark)
	log.Printf("Watermark color: %s (corner %s)", watermark, corner.Hex())

	if p.opts.DryRun {
		return res
	}

	if err := checkContext(ctx); err != nil {
		return fail(StageUpload, err)
	}
	log.Printf("Upload to cloudinary with transformation: %s", res.Transformation)
	upload, err := p.client.Upload(ctx, job.Path, res.Transformation)
	if err != nil {
		return fail(StageUpload, err)
	}
	res.Upload = upload

	if !p.opts.Download {
		return res
	}

	dst, err := p.fm.DerivativePath(job.Path)
	if err != nil {
		return fail(StageDownload, err)
	}
	if err := p.fm.EnsureDir(filepath.Dir(dst)); err != nil {
		return fail(StageDownload, err)
	}
	url := upload.SecureURL
	if url == "" {
		url = upload.URL
	}
	if url == "" {
		return fail(StageDownload, fmt.Errorf("upload response for %s has no url", job.Path))
	}
	log.Printf("Downloading transformed image to: %s", dst)
	if err := p.client.Download(ctx, url, dst); err != nil {
		return fail(StageDownload, err)
	}
	res.DownloadedTo = dst
	return res
}

// decodeImage reads and decodes the image at path with context awareness.
func decodeImage(ctx context.Context, path string) (image.Image, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return img, nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

package batch

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dixieflatline76/Cornermark/util/log"
	"golang.org/x/sync/errgroup"
)

// ProcessFunc is the function signature for processing a job.
type ProcessFunc func(ctx context.Context, job Job) Result

// Pipeline fans the images found under a folder out to a pool of workers and
// collects their results.
type Pipeline struct {
	jobChan    chan Job
	resultChan chan Result
	workerWg   sync.WaitGroup
	workers    int
	processor  ProcessFunc
	skipDirs   []string
	submitted  atomic.Int64
}

// NewPipeline creates a pipeline running processor on workers goroutines.
// Directories in skipDirs are never walked.
func NewPipeline(workers int, processor ProcessFunc, skipDirs ...string) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		jobChan:    make(chan Job, jobBufferSize),
		resultChan: make(chan Result, resultBufferSize),
		workers:    workers,
		processor:  processor,
		skipDirs:   skipDirs,
	}
}

// Run walks root, processes every supported image and returns the report.
// Per-image failures are part of the report; only a walk failure or a
// canceled context make Run return an error. A Pipeline runs once.
func (p *Pipeline) Run(ctx context.Context, root string) (*Report, error) {
	report := &Report{Root: root, Started: time.Now()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(p.jobChan)
		return Walk(gctx, root, p.skipDirs, func(path string) error {
			return p.submit(gctx, Job{Path: path})
		})
	})

	log.Printf("Starting Pipeline with %d workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.workerWg.Add(1)
		go p.workerLoop(gctx, i)
	}
	go func() {
		p.workerWg.Wait()
		close(p.resultChan)
	}()

	for res := range p.resultChan {
		report.Results = append(report.Results, res)
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Path < report.Results[j].Path
	})
	report.Finished = time.Now()
	log.Printf("Pipeline finished: %d of %d images processed", len(report.Results), p.submitted.Load())
	return report, err
}

// submit hands a job to the workers. It fails only when ctx is done.
func (p *Pipeline) submit(ctx context.Context, job Job) error {
	select {
	case p.jobChan <- job:
		p.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// workerLoop is the main loop for a worker goroutine.
func (p *Pipeline) workerLoop(ctx context.Context, id int) {
	defer p.workerWg.Done()
	log.Debugf("Worker %d started", id)

	for {
		select {
		case <-ctx.Done():
			log.Debugf("Worker %d stopping", id)
			return
		case job, ok := <-p.jobChan:
			if !ok {
				log.Debugf("Worker %d finished", id)
				return
			}
			res := p.processor(ctx, job)
			if res.Err != nil {
				log.Printf("Pipeline Error: %s failed at %s: %v", res.Path, res.Stage, res.Err)
			}
			p.resultChan <- res
		}
	}
}

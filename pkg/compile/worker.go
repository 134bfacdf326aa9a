// File: pkg/compile/worker.go
package compile

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/drengskapur/projcompile/pkg/detect"
	"github.com/drengskapur/projcompile/pkg/output"
	"github.com/drengskapur/projcompile/pkg/render"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// job renders one file and hands the fragment to the shared writer.
type job struct {
	path string
	rel  string
}

// pool runs jobs on a fixed number of goroutines and tallies the outcome.
type pool struct {
	format   render.Format
	markers  render.Markers
	fields   render.MetadataFields
	writer   *output.Writer
	progress func()
	logger   *zap.Logger

	mu      sync.Mutex
	written int
	failed  int
	errs    error
}

// run dispatches every file to maxWorkers goroutines and returns once all
// of them have finished.
func (p *pool) run(files []string, root string, maxWorkers int) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		p.logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}

	jobs := make(chan job, len(files))
	var wg sync.WaitGroup

	p.logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go p.worker(jobs, &wg, p.logger.With(zap.Int("workerID", w)))
	}

	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			rel = file
		}
		jobs <- job{path: file, rel: filepath.ToSlash(rel)}
	}
	close(jobs)

	wg.Wait()
	p.logger.Debug("All files processed", zap.Int("written", p.written), zap.Int("failed", p.failed))
}

func (p *pool) worker(jobs <-chan job, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()
	for j := range jobs {
		err := p.process(j, logger)
		p.mu.Lock()
		if err != nil {
			p.failed++
		} else {
			p.written++
		}
		p.mu.Unlock()
		if p.progress != nil {
			p.progress()
		}
	}
}

// process handles a single job. A panic is turned into a run-level error.
func (p *pool) process(j job, logger *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic while processing file",
				zap.String("path", j.rel),
				zap.Any("panic", r),
				zap.Stack("stack"))
			err = fmt.Errorf("panic processing %s: %v", j.rel, r)
			p.mu.Lock()
			p.errs = multierr.Append(p.errs, err)
			p.mu.Unlock()
		}
	}()

	meta, err := render.Stat(j.path)
	if err != nil {
		logger.Warn("Failed to read file metadata", zap.String("path", j.rel), zap.Error(err))
	}
	file := render.File{
		RelPath: j.rel,
		Content: detect.ReadText(j.path, logger),
		Meta:    meta,
	}

	fragment, err := p.format.Fragment(file, p.markers, p.fields)
	if err != nil {
		logger.Error("Failed to render file", zap.String("path", j.rel), zap.Error(err))
		return err
	}
	if err := p.writer.Write(fragment); err != nil {
		p.mu.Lock()
		p.errs = multierr.Append(p.errs, err)
		p.mu.Unlock()
		return err
	}
	logger.Debug("Worker successfully processed file", zap.String("path", j.rel))
	return nil
}

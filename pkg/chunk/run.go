// File: pkg/chunk/run.go

package chunk

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Options configures a chunking run.
type Options struct {
	Codebase    string   // Directory to analyze.
	OutputDir   string   // Destination of the summary and chunk documents.
	Limit       int      // Token budget per chunk.
	Extensions  []string // File kinds to include; empty uses DefaultExtensions.
	ExcludeDirs []string // Directory names to prune; empty uses the filter defaults.
	Workers     int      // Analysis goroutines; <= 0 uses runtime.NumCPU().
}

// Report describes what a run produced.
type Report struct {
	Files   int
	Summary string
	Chunks  []string
}

// Run analyzes the codebase, writes the summary, splits the files into
// chunks and writes one document per chunk.
func Run(opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("token limit must be positive, got %d", opts.Limit)
	}
	startTime := time.Now()

	if err := os.MkdirAll(opts.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	a := NewAnalyzer(opts.Codebase, opts.Extensions, opts.ExcludeDirs, opts.Workers, logger)
	records, err := a.Analyze()
	if err != nil {
		return nil, err
	}

	summary, err := WriteSummary(opts.OutputDir, records)
	if err != nil {
		return nil, err
	}
	logger.Info("Analysis summary saved", zap.String("file", summary))

	chunks := Split(records, opts.Limit, logger)
	paths, err := WriteChunks(opts.OutputDir, chunks, records, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Processing completed",
		zap.Int("files", len(records)),
		zap.Int("chunks", len(paths)),
		zap.Duration("elapsed", time.Since(startTime)))
	return &Report{Files: len(records), Summary: summary, Chunks: paths}, nil
}

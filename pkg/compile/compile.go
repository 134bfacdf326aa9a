// File: pkg/compile/compile.go

// Package compile drives a full compilation run: it builds the directory
// tree, selects the files, renders them on a worker pool into size-bounded
// output files and reports what was produced.
package compile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/drengskapur/projcompile/pkg/filter"
	"github.com/drengskapur/projcompile/pkg/output"
	"github.com/drengskapur/projcompile/pkg/render"
	"github.com/drengskapur/projcompile/pkg/tree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrRootNotFound is returned when the root is missing or not a directory.
var ErrRootNotFound = errors.New("root directory does not exist")

// Compile runs a compilation with opts. The returned Result is non-nil
// whenever output was produced, even if err reports per-file or writer
// failures.
func Compile(opts Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logger.Error("Root directory not found", zap.String("root", root))
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, opts.Root)
	}

	format := render.Lookup(opts.Format)
	if format.Name() != strings.ToLower(strings.TrimSpace(opts.Format)) {
		logger.Debug("Falling back to default format", zap.String("requested", opts.Format), zap.String("format", format.Name()))
	}

	base, err := outputBase(opts.Output)
	if err != nil {
		return nil, err
	}
	if err := ensureDirectory(filepath.Dir(base), logger); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := filter.New(root, opts.Filter, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}

	logger.Info("Starting compilation",
		zap.String("root", root),
		zap.String("format", format.Name()),
		zap.String("output", base),
		zap.Int64("limit", opts.Limit))

	lines := tree.Build(root, f, logger)

	collected, err := Collect(root, f, outputMatcher(base, format.Ext()), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	if len(collected.Binary) > 0 {
		logger.Info("Skipped binary files", zap.Int("count", len(collected.Binary)))
	}

	w := output.New(base, format, opts.Markers, lines, opts.Limit, logger)
	p := &pool{
		format:   format,
		markers:  opts.Markers,
		fields:   opts.Metadata,
		writer:   w,
		progress: opts.Progress,
		logger:   logger,
	}
	p.run(collected.Regular, root, opts.Workers)

	runErr := p.errs
	if err := w.Close(); err != nil {
		runErr = multierr.Append(runErr, err)
	}
	if faults := w.Faults(); faults > 0 {
		logger.Warn("Output files may be missing headers or footers", zap.Int("faults", faults))
	}

	res, err := summarize(w.Files(), opts.Tokens, logger)
	if err != nil {
		runErr = multierr.Append(runErr, err)
	}
	res.FilesWritten = p.written
	res.FilesFailed = p.failed
	res.Skipped = len(collected.Binary)

	logger.Info("Compilation completed",
		zap.Int("outputs", len(res.Outputs)),
		zap.Int("filesWritten", res.FilesWritten),
		zap.Int("filesFailed", res.FilesFailed),
		zap.Int64("totalSize", res.TotalSize),
		zap.Int("totalTokens", res.TotalTokens),
		zap.Duration("elapsed", time.Since(startTime)))

	if runErr != nil {
		return res, fmt.Errorf("compilation finished with errors: %w", runErr)
	}
	return res, nil
}

// summarize stats and counts the tokens of every output file.
func summarize(files []string, counter TokenCounter, logger *zap.Logger) (*Result, error) {
	if counter == nil {
		counter = WordCounter{}
	}
	res := &Result{}
	var errs error
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("Failed to read output file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("failed to read %s: %w", path, err))
			continue
		}
		out := OutputFile{
			Path:   path,
			Size:   int64(len(data)),
			Tokens: counter.Count(string(data)),
		}
		res.Outputs = append(res.Outputs, out)
		res.TotalSize += out.Size
		res.TotalTokens += out.Tokens
	}
	return res, errs
}

// outputBase strips the extension from name so that numbered files can be
// derived from it.
func outputBase(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultOutput
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return strings.TrimSuffix(abs, filepath.Ext(abs)), nil
}

// outputMatcher reports whether a path is one of the numbered output files
// of base.
func outputMatcher(base, ext string) func(string) bool {
	re := regexp.MustCompile("^" + regexp.QuoteMeta(base) + `_\d+` + regexp.QuoteMeta(ext) + "$")
	return re.MatchString
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// File: pkg/output/writer.go

// Package output appends rendered fragments to a numbered series of output
// files, starting a new file whenever the next fragment would push the
// current one past the size limit.
package output

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/drengskapur/projcompile/pkg/render"
	"go.uber.org/zap"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("output writer is closed")

// Writer is safe for concurrent use. A single mutex covers the whole
// decide-then-write sequence of Write, so the file index, the on-disk size
// check and the append are never interleaved between callers.
type Writer struct {
	base    string
	format  render.Format
	markers render.Markers
	tree    []string
	limit   int64
	logger  *zap.Logger

	mu          sync.Mutex
	index       int  // current output file, 1-based
	initialized int  // highest index whose header has been written
	treeWritten bool // the tree has been attached to a header
	treeIndex   int  // output file carrying the tree, 0 if none
	fragments   int  // fragments appended to the current file
	closed      bool
	faults      int
}

// New returns a Writer producing {base}_{n}{ext} files. A limit of zero or
// less disables rollover. No file is touched until the first Write or Close.
func New(base string, format render.Format, markers render.Markers, tree []string, limit int64, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if format == nil {
		format = render.Lookup("")
	}
	return &Writer{
		base:    base,
		format:  format,
		markers: markers,
		tree:    tree,
		limit:   limit,
		logger:  logger,
		index:   1,
	}
}

// Path returns the name of the n-th output file.
func (w *Writer) Path(n int) string {
	return fmt.Sprintf("%s_%d%s", w.base, n, w.format.Ext())
}

// Write appends fragment to the current output file, rolling over first if
// it would exceed the limit. A file holding no fragment is only left behind
// when it carries the tree and the fragment fits a fresh file; otherwise an
// oversized fragment is written alone.
func (w *Writer) Write(fragment []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	footer := int64(len(w.format.Footer()))
	fresh := int64(len(w.format.Header(w.markers))) + int64(len(fragment)) + footer
	for {
		target := w.Path(w.index)
		if w.index > w.initialized {
			w.initialize(target)
		}

		size := fileSize(target)
		next := size + int64(len(fragment)) + footer
		if w.limit > 0 && next > w.limit && w.shouldRollover(fresh) {
			w.logger.Debug("Rolling over output file",
				zap.String("file", target),
				zap.Int64("size", size),
				zap.Int("fragment", len(fragment)),
				zap.Int64("limit", w.limit))
			w.seal(target)
			w.index++
			w.fragments = 0
			continue
		}

		if err := appendFile(target, fragment); err != nil {
			w.logger.Error("Failed to append to output file", zap.String("file", target), zap.Error(err))
			return fmt.Errorf("failed to append to %s: %w", target, err)
		}
		w.fragments++
		if w.limit > 0 && next > w.limit {
			w.logger.Warn("Output file exceeds size limit",
				zap.String("file", target),
				zap.Int64("size", next),
				zap.Int64("limit", w.limit))
		}
		return nil
	}
}

// shouldRollover reports whether moving to the next file helps. fresh is the
// size of a tree-less file holding only the pending fragment.
func (w *Writer) shouldRollover(fresh int64) bool {
	if w.fragments > 0 {
		return true
	}
	return w.index == w.treeIndex && fresh <= w.limit
}

// Close seals the current output file. If nothing was written, the first
// file is still created so every run yields at least one document.
// Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	target := w.Path(w.index)
	if w.initialized < w.index {
		w.initialize(target)
	}
	if !w.seal(target) {
		return fmt.Errorf("failed to seal %s", target)
	}
	return nil
}

// Files lists the output files created so far, in index order.
func (w *Writer) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, w.initialized)
	for n := 1; n <= w.initialized; n++ {
		files = append(files, w.Path(n))
	}
	return files
}

// Faults reports how many header, tree or seal writes failed. Such failures
// do not stop the run but leave an incomplete document behind.
func (w *Writer) Faults() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.faults
}

// initialize creates or truncates target and writes the header. The tree is
// attached to the first header only. Failures are logged and counted.
func (w *Writer) initialize(target string) {
	w.initialized = w.index

	header := w.format.Header(w.markers)
	if !w.treeWritten {
		w.treeWritten = true
		withTree, err := w.format.AttachTree(header, w.tree)
		if err != nil {
			w.faults++
			w.logger.Error("Failed to attach tree to output header", zap.String("file", target), zap.Error(err))
		} else {
			header = withTree
			w.treeIndex = w.index
		}
	}

	if err := os.WriteFile(target, header, 0o644); err != nil {
		w.faults++
		w.logger.Error("Failed to write output header", zap.String("file", target), zap.Error(err))
		return
	}
	w.logger.Debug("Created output file", zap.String("file", target), zap.Int("headerBytes", len(header)))
}

// seal appends the footer, if the format has one.
func (w *Writer) seal(target string) bool {
	footer := w.format.Footer()
	if len(footer) == 0 {
		return true
	}
	if err := appendFile(target, footer); err != nil {
		w.faults++
		w.logger.Error("Failed to seal output file", zap.String("file", target), zap.Error(err))
		return false
	}
	return true
}

func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// File: pkg/compile/collect.go
package compile

import (
	"io/fs"
	"path/filepath"

	"github.com/drengskapur/projcompile/pkg/detect"
	"github.com/drengskapur/projcompile/pkg/filter"
	"go.uber.org/zap"
)

// Collect walks root and returns the files that pass f. Files for which
// skip reports true are left out; a run uses it to ignore its own output.
func Collect(root string, f *filter.Filter, skip func(absPath string) bool, logger *zap.Logger) (Candidates, error) {
	var collected Candidates
	logger.Debug("Starting file traversal and collection", zap.String("root", root))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		if d.IsDir() {
			if !f.ShouldInclude(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			logger.Debug("Skipping non-regular file", zap.String("path", relPath))
			return nil
		}
		if skip != nil && skip(path) {
			logger.Debug("Skipping output file", zap.String("path", relPath))
			return nil
		}
		if !f.ShouldInclude(relPath, false) {
			return nil
		}

		if detect.IsBinary(path, logger) {
			collected.Binary = append(collected.Binary, path)
			logger.Debug("Detected binary file during traversal", zap.String("path", relPath))
			return nil
		}

		collected.Regular = append(collected.Regular, path)
		return nil
	})
	if err != nil {
		logger.Error("Error during file traversal", zap.Error(err))
		return collected, err
	}

	logger.Debug("Completed file traversal and collection",
		zap.Int("regularFiles", len(collected.Regular)),
		zap.Int("binaryFiles", len(collected.Binary)))
	return collected, nil
}

// File: pkg/tree/tree.go

// Package tree renders the filtered directory structure as indented lines.
package tree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drengskapur/projcompile/pkg/filter"
	"go.uber.org/zap"
)

// Indent is the indentation unit per depth level.
const Indent = "    "

// Build walks root depth-first and returns one line per directory and file.
// A directory line is followed by its files, then by its subdirectories.
// Directories rejected by f are neither listed nor descended into.
func Build(root string, f *filter.Filter, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	lines := []string{filepath.Base(absRoot) + "/"}
	walk(absRoot, absRoot, f, &lines, logger)
	return lines
}

// walk appends the entries of directory to lines.
func walk(directory, root string, f *filter.Filter, lines *[]string, logger *zap.Logger) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		logger.Warn("Failed to read directory for tree structure", zap.String("directory", directory), zap.Error(err))
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var dirs []string
	for _, entry := range entries {
		entryPath := filepath.Join(directory, entry.Name())
		relPath, _ := filepath.Rel(root, entryPath)

		if entry.IsDir() {
			if f != nil && !f.ShouldInclude(relPath, true) {
				logger.Debug("Skipping ignored directory in tree", zap.String("directory", entryPath))
				continue
			}
			dirs = append(dirs, relPath)
			continue
		}
		if f != nil && !f.ShouldIncludeTreeFile(relPath) {
			continue
		}
		*lines = append(*lines, indentFor(relPath)+entry.Name())
	}

	for _, rel := range dirs {
		*lines = append(*lines, indentFor(rel)+filepath.Base(rel)+"/")
		walk(filepath.Join(root, rel), root, f, lines, logger)
	}
}

// indentFor returns the indentation of an entry at rel. Depth is the number
// of separators in the path relative to the root, plus one for the root line.
func indentFor(rel string) string {
	return strings.Repeat(Indent, strings.Count(rel, string(os.PathSeparator))+1)
}

// String joins tree lines with newlines.
func String(lines []string) string {
	return strings.Join(lines, "\n")
}

// File: pkg/chunk/document.go

package chunk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// SummaryFile is the name of the analysis summary written by WriteSummary.
const SummaryFile = "analysis_summary.json"

// ChunkPath returns the document name of the i-th chunk (1-based).
func ChunkPath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("chunk_%d.md", i))
}

// Render formats chunk i as a standalone markdown document.
func Render(i int, c Chunk, records map[string]FileAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Code Chunk %d\n\n", i)
	for _, e := range c {
		fmt.Fprintf(&b, "## File: %s\n\n", e.RelPath)

		fa, ok := records[e.AbsPath]
		if ok && fa.Analyzed() {
			b.WriteString("### Metadata\n")
			fmt.Fprintf(&b, "- Types: %s\n", strings.Join(fa.Types, ", "))
			fmt.Fprintf(&b, "- Functions: %s\n", strings.Join(fa.Functions, ", "))
			fmt.Fprintf(&b, "- Imports: %s\n\n", strings.Join(fa.Imports, ", "))
		}

		b.WriteString("### Content\n")
		b.WriteString("```" + strings.TrimPrefix(filepath.Ext(e.RelPath), ".") + "\n")
		b.WriteString(e.Content)
		b.WriteString("\n```\n\n")
	}
	return b.String()
}

// WriteChunks writes chunk_{i}.md for every chunk into dir and returns the
// paths in order.
func WriteChunks(dir string, chunks []Chunk, records map[string]FileAnalysis, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(chunks))
	for i, c := range chunks {
		path := ChunkPath(dir, i+1)
		if err := os.WriteFile(path, []byte(Render(i+1, c, records)), 0o644); err != nil {
			logger.Error("Failed to write chunk", zap.String("file", path), zap.Error(err))
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Debug("Generated chunk", zap.String("file", path), zap.Int("files", len(c)), zap.Int("tokens", c.Tokens()))
		paths = append(paths, path)
	}
	return paths, nil
}

// Summary aggregates the analysis of a codebase.
type Summary struct {
	TotalFiles  int            `json:"total_files"`
	FileTypes   map[string]int `json:"file_types"`
	TotalSize   int64          `json:"total_size"`
	SourceStats SourceStats    `json:"source_stats"`
}

// SourceStats counts the structural items of analyzed sources.
type SourceStats struct {
	TotalTypes     int `json:"total_types"`
	TotalFunctions int `json:"total_functions"`
	TotalImports   int `json:"total_imports"`
}

// Summarize aggregates records.
func Summarize(records map[string]FileAnalysis) Summary {
	s := Summary{TotalFiles: len(records), FileTypes: map[string]int{}}
	for _, fa := range records {
		s.FileTypes[fa.Ext]++
		s.TotalSize += fa.Size
		if fa.Analyzed() {
			s.SourceStats.TotalTypes += len(fa.Types)
			s.SourceStats.TotalFunctions += len(fa.Functions)
			s.SourceStats.TotalImports += len(fa.Imports)
		}
	}
	return s
}

// WriteSummary writes the indented summary of records to dir and returns
// its path.
func WriteSummary(dir string, records map[string]FileAnalysis) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(Summarize(records), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}
	path := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}

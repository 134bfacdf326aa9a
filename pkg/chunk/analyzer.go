// File: pkg/chunk/analyzer.go

// Package chunk partitions a codebase into token-bounded chunks for a
// consumer with a fixed input budget. Go sources are annotated with their
// imports, declared types and functions.
package chunk

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/drengskapur/projcompile/pkg/filter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"
)

// SourceExt is the extension of files that get structural analysis.
const SourceExt = ".go"

// DefaultExtensions are the file kinds picked up by the analyzer.
var DefaultExtensions = []string{".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".css", ".html", ".md"}

// ErrCodebaseNotFound is returned when the codebase root is not a directory.
var ErrCodebaseNotFound = errors.New("codebase directory does not exist")

// FileAnalysis is the structural summary of one file.
type FileAnalysis struct {
	RelPath   string   `json:"relative_path"`
	Ext       string   `json:"extension"`
	Size      int64    `json:"size"`
	Imports   []string `json:"imports"`
	Types     []string `json:"types"`
	Functions []string `json:"functions"`
}

// Analyzed reports whether the file kind takes part in structural analysis.
func (fa FileAnalysis) Analyzed() bool {
	return fa.Ext == SourceExt
}

// AnalyzeFile returns the size and extension of the file at path. Go sources
// also get their import paths, declared type names and function names.
// A parse error is returned together with the partial record.
func AnalyzeFile(path string) (FileAnalysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileAnalysis{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	fa := FileAnalysis{
		Ext:       filepath.Ext(path),
		Size:      info.Size(),
		Imports:   []string{},
		Types:     []string{},
		Functions: []string{},
	}
	if !fa.Analyzed() {
		return fa, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return fa, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	seen := make(map[string]struct{})
	insp := inspector.New([]*ast.File{file})
	nodes := []ast.Node{(*ast.ImportSpec)(nil), (*ast.TypeSpec)(nil), (*ast.FuncDecl)(nil), (*ast.FuncLit)(nil)}
	// Function bodies are not descended into: only package-level names count.
	insp.Nodes(nodes, func(n ast.Node, push bool) bool {
		if !push {
			return true
		}
		switch n := n.(type) {
		case *ast.ImportSpec:
			p, err := strconv.Unquote(n.Path.Value)
			if err != nil {
				p = n.Path.Value
			}
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				fa.Imports = append(fa.Imports, p)
			}
		case *ast.TypeSpec:
			fa.Types = append(fa.Types, n.Name.Name)
		case *ast.FuncDecl:
			fa.Functions = append(fa.Functions, n.Name.Name)
			return false
		case *ast.FuncLit:
			return false
		}
		return true
	})
	return fa, nil
}

// Analyzer discovers and analyzes the files of a codebase.
type Analyzer struct {
	root        string
	extensions  []string
	excludeDirs []string
	workers     int
	logger      *zap.Logger
}

// NewAnalyzer returns an Analyzer for root. Empty extensions or excludeDirs
// select the defaults; workers <= 0 uses runtime.NumCPU().
func NewAnalyzer(root string, extensions, excludeDirs []string, workers int, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if len(excludeDirs) == 0 {
		excludeDirs = filter.DefaultExcludeDirs
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Analyzer{root: root, extensions: extensions, excludeDirs: excludeDirs, workers: workers, logger: logger}
}

// Analyze returns one record per discovered file, keyed by absolute path.
// Files are analyzed in parallel; every goroutine writes only its own slot
// and the records are merged afterwards.
func (a *Analyzer) Analyze() (map[string]FileAnalysis, error) {
	root, err := filepath.Abs(a.root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCodebaseNotFound, a.root)
	}

	files, err := a.discover(root)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Starting codebase analysis", zap.String("root", root), zap.Int("files", len(files)))

	slots := make([]*FileAnalysis, len(files))
	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			fa, err := AnalyzeFile(path)
			if err != nil && fa.Ext == "" {
				a.logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
				return nil
			}
			if err != nil {
				a.logger.Error("Error analyzing file", zap.String("path", path), zap.Error(err))
			}
			fa.RelPath, _ = filepath.Rel(root, path)
			fa.RelPath = filepath.ToSlash(fa.RelPath)
			slots[i] = &fa
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make(map[string]FileAnalysis, len(files))
	for i, fa := range slots {
		if fa != nil {
			records[files[i]] = *fa
		}
	}
	return records, nil
}

func (a *Analyzer) discover(root string) ([]string, error) {
	f, err := filter.New(root, filter.Config{
		IncludeExtensions: a.extensions,
		ExcludeDirs:       a.excludeDirs,
	}, a.logger)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.logger.Warn("Error accessing path during discovery", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			if !f.ShouldInclude(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && f.ShouldInclude(rel, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	return files, nil
}

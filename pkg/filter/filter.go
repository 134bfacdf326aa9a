// File: pkg/filter/filter.go

// Package filter decides which entries of a scanned directory take part in a
// compilation run.
package filter

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// DefaultExcludeDirs are pruned when no explicit directory list is configured.
var DefaultExcludeDirs = []string{".git", "__pycache__", "node_modules"}

// Config holds every filtering axis. A nil or empty list places no
// constraint on its axis. Exclusion always wins over inclusion.
type Config struct {
	IncludeExtensions []string // Name suffixes a file must end with (any of).
	ExcludeExtensions []string // Name suffixes that drop a file.
	IncludePatterns   []string // Base-name globs a file must match (any of).
	ExcludePatterns   []string // Base-name globs that drop a file.
	ExcludeDirs       []string // Directory base names pruned from traversal.
	ExcludeFiles      []string // File base names dropped from selection.
	IgnorePatterns    []string // Globs matched against the path relative to the root.
	UseGitignore      bool     // Also honour the root .gitignore.
}

// Filter is an immutable, compiled Config bound to a scan root.
type Filter struct {
	root         string
	cfg          Config
	ignore       []*globPattern
	excludeDirs  map[string]struct{}
	excludeFiles map[string]struct{}
	gitignore    gitignore.IgnoreMatcher
	logger       *zap.Logger
}

// New compiles cfg for the given root. Malformed patterns are reported here
// so that matching itself never fails.
func New(root string, cfg Config, logger *zap.Logger) (*Filter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	f := &Filter{
		root:         absRoot,
		cfg:          cfg,
		excludeDirs:  toSet(cfg.ExcludeDirs),
		excludeFiles: toSet(cfg.ExcludeFiles),
		logger:       logger,
	}

	for _, line := range cfg.IgnorePatterns {
		p, err := compileGlob(line)
		if err != nil {
			return nil, err
		}
		if p != nil {
			f.ignore = append(f.ignore, p)
			logger.Debug("Compiled ignore pattern", zap.String("pattern", p.line), zap.Bool("dirOnly", p.dirOnly))
		}
	}

	for _, list := range [][]string{cfg.IncludePatterns, cfg.ExcludePatterns} {
		for _, pattern := range list {
			if _, err := path.Match(pattern, ""); err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
			}
		}
	}

	if cfg.UseGitignore {
		gitIgnorePath := filepath.Join(absRoot, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				logger.Warn("Could not parse .gitignore", zap.String("file", gitIgnorePath), zap.Error(err))
			} else {
				f.gitignore = matcher
				logger.Debug("Loaded .gitignore", zap.String("file", gitIgnorePath))
			}
		}
	}

	return f, nil
}

// Root returns the absolute scan root.
func (f *Filter) Root() string {
	return f.root
}

// ShouldInclude reports whether the entry at relPath (relative to the root)
// is kept. Directories answer whether traversal should descend into them.
func (f *Filter) ShouldInclude(relPath string, isDir bool) bool {
	rel := filepath.ToSlash(relPath)
	name := path.Base(rel)

	if isDir {
		if f.ignored(rel, true) {
			f.logger.Debug("Pruning ignored directory", zap.String("path", rel))
			return false
		}
		if _, ok := f.excludeDirs[name]; ok {
			f.logger.Debug("Pruning excluded directory", zap.String("path", rel))
			return false
		}
		return true
	}

	if !f.ShouldIncludeTreeFile(rel) {
		return false
	}

	if len(f.cfg.IncludeExtensions) > 0 && !hasAnySuffix(name, f.cfg.IncludeExtensions) {
		return false
	}
	if len(f.cfg.ExcludeExtensions) > 0 && hasAnySuffix(name, f.cfg.ExcludeExtensions) {
		return false
	}
	if len(f.cfg.IncludePatterns) > 0 && !matchesAnyPattern(name, f.cfg.IncludePatterns) {
		return false
	}
	if len(f.cfg.ExcludePatterns) > 0 && matchesAnyPattern(name, f.cfg.ExcludePatterns) {
		return false
	}
	return true
}

// ShouldIncludeTreeFile applies only the path-level axes (excluded names,
// ignore-globs, .gitignore). The tree lists every file that passes them.
func (f *Filter) ShouldIncludeTreeFile(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	if _, ok := f.excludeFiles[path.Base(rel)]; ok {
		f.logger.Debug("Skipping excluded file", zap.String("path", rel))
		return false
	}
	if f.ignored(rel, false) {
		f.logger.Debug("Skipping ignored file", zap.String("path", rel))
		return false
	}
	return true
}

func (f *Filter) ignored(rel string, isDir bool) bool {
	for _, p := range f.ignore {
		if p.match(rel, isDir) {
			return true
		}
	}
	if f.gitignore != nil {
		return f.gitignore.Match(filepath.Join(f.root, filepath.FromSlash(rel)), isDir)
	}
	return false
}

// matchesAnyPattern checks if name matches any of the glob patterns.
// Patterns were validated by New.
func matchesAnyPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := path.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			s[item] = struct{}{}
		}
	}
	return s
}

// File: pkg/filter/patterns.go
package filter

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Placeholders for '**' forms. They survive single-star conversion and are
// expanded last.
const (
	doubleStarMiddle   = "\x00m"
	doubleStarTrailing = "\x00t"
	doubleStarLeading  = "\x00l"
	doubleStarAny      = "\x00a"
)

// Precompiled regular expressions used in pattern translation.
var (
	DoubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	DoubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	DoubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
	DirectoryEndPattern       = regexp.MustCompile(`/$`)
	RootRelativePattern       = regexp.MustCompile(`^/`)
)

// globPattern is a compiled ignore-glob.
type globPattern struct {
	re      *regexp.Regexp // matches the entry or anything beneath it
	dirOnly bool           // pattern had a trailing '/'
	line    string         // pattern as written
}

// match reports whether rel (slash separated, relative to the scan root)
// is covered by the pattern. Directory-only patterns match files through
// their parent directory.
func (p *globPattern) match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return p.re.MatchString(path.Dir(rel))
	}
	return p.re.MatchString(rel)
}

// compileGlob translates a shell-style ignore pattern into an anchored
// regular expression. Returns nil for blank lines and comments.
func compileGlob(line string) (*globPattern, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	dirOnly := DirectoryEndPattern.MatchString(trimmed)
	rooted := RootRelativePattern.MatchString(trimmed)
	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, "/"), "/")
	if body == "" {
		return nil, fmt.Errorf("invalid ignore pattern %q", line)
	}

	expr := escapeSpecialChars(body)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = expandDoubleStars(expr)
	expr = anchorPattern(expr, rooted)

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern %q: %w", line, err)
	}
	return &globPattern{re: re, dirOnly: dirOnly, line: trimmed}, nil
}

// escapeSpecialChars escapes regex special characters except for '*', '?',
// '/' and the bracket pair used by character classes.
func escapeSpecialChars(pattern string) string {
	var specialChars = `\.+()|^${}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns swaps '**' forms for placeholders.
func handleDoubleStarPatterns(pattern string) string {
	pattern = DoubleStarMiddlePattern.ReplaceAllString(pattern, doubleStarMiddle)
	pattern = DoubleStarTrailingPattern.ReplaceAllString(pattern, doubleStarTrailing)
	pattern = DoubleStarLeadingPattern.ReplaceAllString(pattern, doubleStarLeading)
	return strings.ReplaceAll(pattern, "**", doubleStarAny)
}

// wildcardToRegex converts '*', '?' and '[!...]' to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "*", `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", `[^/]`)
	return strings.ReplaceAll(pattern, "[!", "[^")
}

func expandDoubleStars(pattern string) string {
	return strings.NewReplacer(
		doubleStarMiddle, `(/|/.+/)`,
		doubleStarTrailing, `(/.*)?`,
		doubleStarLeading, `(.*/)?`,
		doubleStarAny, `.*`,
	).Replace(pattern)
}

// anchorPattern anchors the regex to the whole relative path. Unrooted
// patterns may match at any depth; every pattern also covers descendants.
func anchorPattern(pattern string, rooted bool) string {
	pattern += "(/.*)?$"
	if rooted {
		return "^" + pattern
	}
	return "^(|.*/)" + pattern
}

package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCompileGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"extension at root", "*.log", "debug.log", false, true},
		{"extension nested", "*.log", "a/b/debug.log", false, true},
		{"extension no match", "*.log", "a/b/debug.txt", false, false},
		{"name any depth", "build", "x/build", true, true},
		{"child of named dir", "build", "x/build/out.bin", false, true},
		{"prefix is not a match", "build", "rebuild", true, false},
		{"folder star", "folder/*", "folder/a.txt", false, true},
		{"question mark", "file?.txt", "file1.txt", false, true},
		{"question mark stays in segment", "a?b", "a/b", false, false},
		{"character class", "data[0-9].csv", "data7.csv", false, true},
		{"negated class", "data[!0-9].csv", "data7.csv", false, false},
		{"double star middle", "src/**/gen.go", "src/a/b/gen.go", false, true},
		{"double star middle direct", "src/**/gen.go", "src/gen.go", false, true},
		{"double star trailing", "dist/**", "dist/x/y.js", false, true},
		{"rooted", "/vendor", "vendor/x.go", false, true},
		{"rooted not nested", "/vendor", "a/vendor/x.go", false, false},
		{"dir only matches dir", "tmp/", "tmp", true, true},
		{"dir only skips file", "tmp/", "tmp", false, false},
		{"dir only matches child file", "tmp/", "a/tmp/x.txt", false, true},
		{"dots are literal", "a.b", "axb", false, false},
		{"multi segment direct child", "src/*.py", "src/a.py", false, true},
		{"multi segment star stays in segment", "src/*.py", "src/sub/x.py", false, false},
		{"multi segment unrooted at depth", "src/*.py", "vendor/src/a.py", false, true},
		{"multi segment rooted not nested", "/src/*.py", "vendor/src/a.py", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := compileGlob(tt.pattern)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.match(tt.path, tt.isDir), "regex=%s", p.re)
		})
	}
}

func TestCompileGlobSkipsCommentsAndBlank(t *testing.T) {
	for _, line := range []string{"", "   ", "# comment"} {
		p, err := compileGlob(line)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func TestShouldIncludeAxes(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name  string
		cfg   Config
		path  string
		isDir bool
		want  bool
	}{
		{"no constraints", Config{}, "a/b.txt", false, true},
		{"include ext hit", Config{IncludeExtensions: []string{".go"}}, "main.go", false, true},
		{"include ext miss", Config{IncludeExtensions: []string{".go"}}, "main.py", false, false},
		{"exclude ext", Config{ExcludeExtensions: []string{".exe"}}, "bin/tool.exe", false, false},
		{"exclusion dominates inclusion", Config{IncludeExtensions: []string{".go"}, ExcludeExtensions: []string{"_test.go"}}, "x_test.go", false, false},
		{"include pattern hit", Config{IncludePatterns: []string{"test_*.txt"}}, "d/test_a.txt", false, true},
		{"include pattern miss", Config{IncludePatterns: []string{"test_*.txt"}}, "d/a.txt", false, false},
		{"exclude pattern", Config{ExcludePatterns: []string{"temp_*"}}, "temp_1.md", false, false},
		{"pattern beats include", Config{IncludePatterns: []string{"*.md"}, ExcludePatterns: []string{"README*"}}, "README.md", false, false},
		{"excluded file", Config{ExcludeFiles: []string{"secrets.txt"}}, "cfg/secrets.txt", false, false},
		{"excluded dir", Config{ExcludeDirs: []string{"node_modules"}}, "web/node_modules", true, false},
		{"dir unaffected by file axes", Config{IncludeExtensions: []string{".go"}}, "pkg", true, true},
		{"ignore glob dir", Config{IgnorePatterns: []string{"folder/*"}}, "folder/sub", true, false},
		{"ignore glob file", Config{IgnorePatterns: []string{"*.log"}}, "logs/app.log", false, false},
		{"ignore beats include", Config{IncludeExtensions: []string{".log"}, IgnorePatterns: []string{"*.log"}}, "app.log", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(root, tt.cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.ShouldInclude(tt.path, tt.isDir))
		})
	}
}

func TestNewRejectsBadPatterns(t *testing.T) {
	_, err := New(t.TempDir(), Config{IncludePatterns: []string{"[a-"}}, nil)
	assert.Error(t, err)
}

func TestGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.tmp\ncache/\n"), 0o644))

	f, err := New(root, Config{UseGitignore: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, f.ShouldInclude("x.tmp", false))
	assert.False(t, f.ShouldInclude("cache", true))
	assert.True(t, f.ShouldInclude("main.go", false))

	off, err := New(root, Config{}, nil)
	require.NoError(t, err)
	assert.True(t, off.ShouldInclude("x.tmp", false))
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestCompileCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skip.log"), []byte("noise\n"), 0o644))
	output := filepath.Join(t.TempDir(), "bundle.txt")

	out, err := run(t, "compile", root, "-o", output, "--format", "html", "--ignore", "*.log")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated '"+strings.TrimSuffix(output, ".txt")+"_1.html'")
	assert.Contains(t, out, "Total number of tokens in output files:")

	data, err := os.ReadFile(strings.TrimSuffix(output, ".txt") + "_1.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h2>main.go</h2>")
	assert.NotContains(t, string(data), "<h2>skip.log</h2>")
}

func TestCompileMissingRoot(t *testing.T) {
	_, err := run(t, "compile", filepath.Join(t.TempDir(), "nope"), "-o", filepath.Join(t.TempDir(), "x.md"))
	assert.Error(t, err)
}

func TestChunkCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc A() {}\n"), 0o644))
	outDir := filepath.Join(t.TempDir(), "chunks")
	t.Setenv("LLM_TOKEN_LIMIT_TESTLLM", "500")

	out, err := run(t, "chunk", "--llm", "testllm", "--codebase", root, "--output-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 1 files")
	assert.FileExists(t, filepath.Join(outDir, "chunk_1.md"))
	assert.FileExists(t, filepath.Join(outDir, "analysis_summary.json"))
}

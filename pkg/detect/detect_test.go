package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestIsBinary(t *testing.T) {
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"empty", nil, false},
		{"ascii", []byte("package main\n\nfunc main() {}\n"), false},
		{"utf8", []byte("héllo wörld — ünïcode\n"), false},
		{"null bytes", []byte{0x7f, 'E', 'L', 'F', 0, 0, 1, 2}, true},
		{"control soup", []byte{1, 2, 3, 4, 5, 6, 7, 'a', 14, 15, 16, 17}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.name, tt.data)
			assert.Equal(t, tt.want, IsBinary(p, logger))
		})
	}
}

func TestIsBinaryMissingFileIsBinary(t *testing.T) {
	assert.True(t, IsBinary(filepath.Join(t.TempDir(), "nope"), zaptest.NewLogger(t)))
}

func TestIsBinarySampleTruncatedRune(t *testing.T) {
	sample := []byte(strings.Repeat("a", SampleSize-1) + "é")[:SampleSize]
	assert.False(t, IsBinarySample(sample))
}

func TestReadTextUTF8(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.txt", []byte("naïve café\n"))
	assert.Equal(t, "naïve café\n", ReadText(p, zaptest.NewLogger(t)))
}

func TestReadTextLegacyEncoding(t *testing.T) {
	latin1 := []byte("Le caf\xe9 de la gare est ferm\xe9 le dimanche. Cr\xe8me br\xfbl\xe9e au menu.\n")
	p := writeFile(t, t.TempDir(), "latin1.txt", latin1)

	got := ReadText(p, zaptest.NewLogger(t))
	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "Le caf")
	assert.Contains(t, got, "dimanche")
}

func TestReadTextMissingFile(t *testing.T) {
	got := ReadText(filepath.Join(t.TempDir(), "missing.txt"), zaptest.NewLogger(t))
	assert.True(t, strings.HasPrefix(got, "Could not read file: "))
}

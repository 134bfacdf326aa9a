// File: pkg/detect/reader.go
package detect

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ReadText returns the decoded content of a file. On I/O failure it returns
// a placeholder describing the error so that callers can carry on.
func ReadText(path string, logger *zap.Logger) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to read file", zap.String("file", path), zap.Error(err))
		}
		return fmt.Sprintf("Could not read file: %v", err)
	}
	return Decode(data)
}

// Decode converts raw bytes to UTF-8 text. The charset is inferred from the
// whole byte stream; invalid sequences become U+FFFD.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	if enc := detectEncoding(data); enc != nil {
		if out, err := enc.NewDecoder().Bytes(data); err == nil {
			return strings.ToValidUTF8(string(out), "\uFFFD")
		}
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// detectEncoding maps the best charset guess to a decoder, or nil.
func detectEncoding(data []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return nil
	}
	for _, name := range []string{result.Charset, strings.ReplaceAll(result.Charset, "-", "")} {
		if enc, err := htmlindex.Get(name); err == nil {
			return enc
		}
	}
	return nil
}

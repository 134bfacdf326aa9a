// File: pkg/detect/binary.go

// Package detect classifies files as text or binary and decodes text files
// of unknown encoding.
package detect

import (
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"
)

const (
	// SampleSize is the number of leading bytes inspected by Sniff.
	SampleSize = 1024
	// MinConfidence is the lowest charset confidence accepted as text.
	MinConfidence = 10
)

// IsBinary reports whether the file at path should be treated as binary.
// It never fails: unreadable files and undetectable encodings count as binary.
func IsBinary(path string, logger *zap.Logger) bool {
	binary, err := Sniff(path)
	if err != nil {
		if logger != nil {
			logger.Debug("Treating unreadable file as binary", zap.String("file", path), zap.Error(err))
		}
		return true
	}
	return binary
}

// Sniff reads up to SampleSize leading bytes of a file and decides whether
// it is binary.
func Sniff(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, SampleSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return IsBinarySample(buffer[:n]), nil
}

// IsBinarySample classifies a leading sample of a file.
func IsBinarySample(sample []byte) bool {
	if len(sample) == 0 {
		return false // Empty files are considered text
	}

	// Check for null bytes (common in binary files)
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	if utf8.Valid(trimPartialRune(sample)) {
		return controlRatio(sample) > 0.3
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result == nil || result.Confidence < MinConfidence {
		return true
	}
	return controlRatio(sample) > 0.3
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off by sampling.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

// controlRatio returns the share of C0 control bytes that rarely occur in text.
func controlRatio(b []byte) float64 {
	control := 0
	for _, c := range b {
		if isControl(c) {
			control++
		}
	}
	return float64(control) / float64(len(b))
}

func isControl(b byte) bool {
	if b >= 32 || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b == '\b' || b == 0x1b {
		return false
	}
	return true
}

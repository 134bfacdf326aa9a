// File: pkg/chunk/chunker.go

package chunk

import (
	"sort"
	"strings"
	"unicode"

	"github.com/drengskapur/projcompile/pkg/detect"
	"go.uber.org/zap"
)

// Entry is one file placed in a chunk.
type Entry struct {
	RelPath string
	AbsPath string
	Content string
	Tokens  int
}

// Chunk is an ordered group of files whose estimated tokens fit the limit.
type Chunk []Entry

// Tokens returns the summed estimate of the chunk.
func (c Chunk) Tokens() int {
	total := 0
	for _, e := range c {
		total += e.Tokens
	}
	return total
}

// EstimateTokens approximates a token count as the number of words plus half
// the number of punctuation and symbol characters.
func EstimateTokens(text string) int {
	special := 0
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	return len(strings.Fields(text)) + special/2
}

// Split groups the files in records into chunks of at most limit estimated
// tokens. Files are taken smallest first. A file whose estimate alone is
// over the limit is left out.
func Split(records map[string]FileAnalysis, limit int, logger *zap.Logger) []Chunk {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths := make([]string, 0, len(records))
	for p := range records {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		si, sj := records[paths[i]].Size, records[paths[j]].Size
		if si != sj {
			return si < sj
		}
		return paths[i] < paths[j]
	})

	var chunks []Chunk
	var current Chunk
	currentTokens := 0
	for _, p := range paths {
		content := detect.ReadText(p, logger)
		tokens := EstimateTokens(content)

		if tokens > limit {
			logger.Warn("File exceeds token limit, skipping",
				zap.String("path", records[p].RelPath),
				zap.Int("tokens", tokens),
				zap.Int("limit", limit))
			continue
		}
		if currentTokens+tokens > limit && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, Entry{RelPath: records[p].RelPath, AbsPath: p, Content: content, Tokens: tokens})
		currentTokens += tokens
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	logger.Info("Created chunks", zap.Int("chunks", len(chunks)))
	return chunks
}

// File: pkg/compile/tokens.go
package compile

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultTiktokenModel is used when no model is given to NewTiktokenCounter.
const DefaultTiktokenModel = "gpt-4o"

// TokenCounter counts the tokens of a text.
type TokenCounter interface {
	Count(text string) int
}

// WordCounter counts whitespace-separated words. It is the default proxy for
// tokens in the run report.
type WordCounter struct{}

func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// TiktokenCounter counts BPE tokens for an OpenAI model.
type TiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding for model. Unknown models fall back
// to the cl100k_base encoding.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	if model == "" {
		model = DefaultTiktokenModel
	}
	ttk, err := tiktoken.EncodingForModel(model)
	if err != nil {
		ttk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding for %q: %w", model, err)
		}
	}
	return &TiktokenCounter{ttk: ttk}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	if c == nil || c.ttk == nil {
		return 0
	}
	return len(c.ttk.EncodeOrdinary(text))
}

// NewTokenCounter returns the counter registered under name: "words"
// (or empty) or "tiktoken".
func NewTokenCounter(name, model string) (TokenCounter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "words":
		return WordCounter{}, nil
	case "tiktoken":
		return NewTiktokenCounter(model)
	default:
		return nil, fmt.Errorf("unsupported tokenizer %q, use 'words' or 'tiktoken'", name)
	}
}

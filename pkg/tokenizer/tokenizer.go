package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts the token cost of a text for budget accounting.
// The count is a design approximation, not an exact per-model number.
type TokenCounter interface {
	Count(text string) int
}

// CounterFunc adapts a plain function to the TokenCounter interface
type CounterFunc func(text string) int

func (f CounterFunc) Count(text string) int {
	return f(text)
}

// TiktokenCounter counts tokens with a tiktoken BPE encoding
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the given encoding (e.g. "cl100k_base")
func NewTiktokenCounter(encodingName string) (*TiktokenCounter, error) {
	if encodingName == "" {
		encodingName = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: enc}, nil
}

func (t *TiktokenCounter) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// heuristicCounter estimates roughly 4 characters per token. Used when the
// tiktoken encoding cannot be loaded (e.g. offline first run).
type heuristicCounter struct{}

func (heuristicCounter) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// NewDefaultCounter returns a tiktoken counter, falling back to the
// character heuristic if the encoding is unavailable.
func NewDefaultCounter() TokenCounter {
	tc, err := NewTiktokenCounter("cl100k_base")
	if err != nil {
		return heuristicCounter{}
	}
	return tc
}

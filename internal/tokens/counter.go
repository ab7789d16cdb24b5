// Package tokens estimates LLM token costs for text blobs.
package tokens

import (
	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the cl100k_base subword encoding, a good
// approximation across current model families.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens under a fixed tiktoken encoding. When the
// encoding cannot be loaded the counter degrades to a bytes/4 heuristic;
// Count never fails.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// New returns a Counter for the named encoding. An unknown encoding is
// not an error: the counter falls back to the heuristic estimate.
func New(encoding string) *Counter {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// NewDefault returns a Counter using DefaultEncoding.
func NewDefault() *Counter {
	return New(DefaultEncoding)
}

// Count returns the token cost of text. Deterministic for identical
// input and monotonic non-decreasing in text length.
func (c *Counter) Count(text string) int {
	if c.enc == nil {
		return len(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

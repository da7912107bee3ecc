// Package tokenizer provides token counting for context-size accounting.
//
// Counting uses the tiktoken cl100k_base encoding when its BPE data is
// available, and falls back to a character-based estimate otherwise, so
// callers can rely on a count in offline environments. Counts are used for
// logging and context accounting, not billing, so the estimate is acceptable.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/parleyhq/parley/pkg/types"
)

const encodingName = "cl100k_base"

// Rough average of characters per token for English text; used only when
// the real encoding cannot be loaded.
const estimateCharsPerToken = 4

// perMessageOverhead approximates the framing tokens each chat message adds.
const perMessageOverhead = 4

// Tokenizer counts tokens in text and message lists.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken // nil when running in estimate mode
}

// New creates a tokenizer. It never fails: when the tiktoken encoding cannot
// be loaded the tokenizer runs in estimate mode.
func New() *Tokenizer {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return &Tokenizer{}
	}
	return &Tokenizer{encoding: enc}
}

// CountText returns the token count of a single string.
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.encoding == nil {
		return estimateTokens(text)
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessages returns the token count of a message list including
// per-message framing overhead.
func (t *Tokenizer) CountMessages(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += t.CountText(msg.Content) + perMessageOverhead
	}
	return total
}

// IsEstimating reports whether the tokenizer is running in estimate mode.
func (t *Tokenizer) IsEstimating() bool {
	return t.encoding == nil
}

func estimateTokens(text string) int {
	n := (len(text) + estimateCharsPerToken - 1) / estimateCharsPerToken
	if n < 1 {
		n = 1
	}
	return n
}

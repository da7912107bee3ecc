// Package summarize condenses chat history into short natural-language
// summaries via the completion capability.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/pkg/llm"
	"github.com/parleyhq/parley/pkg/types"
)

const summarizerInstructions = "You condense chat conversations. " +
	"Produce a 2-4 sentence summary of the transcript focused on topics discussed, " +
	"decisions made, and pending items. Do not add commentary or preamble."

// Summarizer turns a list of turns into a short textual summary. It performs
// no post-processing of the model's output — summary quality is the
// completion capability's responsibility.
type Summarizer struct {
	provider llm.Provider
}

// NewSummarizer creates a summarizer backed by the given provider.
func NewSummarizer(provider llm.Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// Summarize formats turns into a transcript and asks the provider for a
// condensed summary, returned verbatim.
//
// An empty turn list returns "" without calling the provider; there is
// nothing to condense and an LLM round trip would only produce noise.
func (s *Summarizer) Summarize(ctx context.Context, turns []*types.ChatTurn) (string, error) {
	if len(turns) == 0 {
		return "", nil
	}

	completion, err := s.provider.Complete(ctx, &llm.Request{
		Instructions: summarizerInstructions,
		Messages: []*types.Message{
			types.NewUserMessage(buildTranscript(turns)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarization call failed: %w", err)
	}

	return completion.Content, nil
}

// buildTranscript renders turns as a role-labelled transcript.
func buildTranscript(turns []*types.ChatTurn) string {
	var b strings.Builder
	b.WriteString("Conversation to summarize:\n\n")
	for _, turn := range turns {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

package thread

import (
	"fmt"
	"strings"

	"github.com/parleyhq/parley/pkg/types"
)

// BoundedContext builds the message list actually sent to the completion
// capability for a request: one synthetic system message concatenating all
// summary texts (omitted entirely when there are no summaries), followed by
// the last maxRecentTurns turns verbatim. Roles and content are preserved;
// widget descriptors are dropped — this view feeds the model, not a UI.
//
// maxRecentTurns must be >= 1 and summaries must be non-nil; violations fail
// with InvalidArgument rather than silently clamping. A nil summaries slice
// usually means the caller skipped the Summaries lookup, which deserves a
// loud failure; pass an empty slice to mean "no summaries".
func BoundedContext(history []*types.ChatTurn, maxRecentTurns int, summaries []types.ChatSummary) ([]*types.Message, error) {
	if maxRecentTurns < 1 {
		return nil, types.NewInvalidArgument(fmt.Sprintf("maxRecentTurns must be >= 1, got %d", maxRecentTurns))
	}
	if summaries == nil {
		return nil, types.NewInvalidArgument("summaries must not be nil")
	}

	recent := history
	if len(recent) > maxRecentTurns {
		recent = recent[len(recent)-maxRecentTurns:]
	}

	messages := make([]*types.Message, 0, len(recent)+1)

	if len(summaries) > 0 {
		var b strings.Builder
		b.WriteString("Summary of the earlier conversation:\n")
		for _, summary := range summaries {
			b.WriteString(summary.Text)
			b.WriteString("\n")
		}
		messages = append(messages, types.NewSystemMessage(strings.TrimRight(b.String(), "\n")))
	}

	for _, turn := range recent {
		messages = append(messages, &types.Message{Role: turn.Role, Content: turn.Content})
	}

	return messages, nil
}

package chat

import (
	"context"

	"github.com/parleyhq/parley/pkg/types"
)

// applySummarizationPolicy decides whether the thread has accumulated enough
// uncovered turns to summarize, and if so condenses exactly the newly
// eligible range: everything past the turns existing summaries already
// cover, up to but excluding the last recentTurnsToKeep turns. Each call
// covers only ground no previous summary covered, so ranges never overlap.
//
// The whole operation is best-effort. Any failure — the summarization call,
// the summary store, even cancellation — is logged and swallowed; the
// user-facing response has already been produced and must not be failed
// retroactively.
func (s *Service) applySummarizationPolicy(ctx context.Context, threadID string) {
	if !s.autoSummarize {
		return
	}

	history, err := s.threads.History(threadID)
	if err != nil {
		s.log.Warnf("summarization skipped, history unavailable: %v", err)
		return
	}

	total := len(history)
	if total <= s.summarizationThreshold {
		return
	}

	summaries, err := s.threads.Summaries(threadID)
	if err != nil {
		s.log.Warnf("summarization skipped, summaries unavailable: %v", err)
		return
	}

	// First turn index not yet covered by any stored summary.
	start := 0
	for _, summary := range summaries {
		if summary.EndTurnIndex+1 > start {
			start = summary.EndTurnIndex + 1
		}
	}

	// Last eligible index: keep the trailing recentTurnsToKeep turns raw.
	end := total - s.recentTurnsToKeep - 1
	if end < start {
		return
	}

	text, err := s.summarizer.Summarize(ctx, history[start:end+1])
	if err != nil {
		if types.IsCancellation(err) {
			s.log.Debugf("thread %s: summarization cancelled", threadID)
			return
		}
		s.log.Warnf("thread %s: summarization failed: %v", threadID, err)
		return
	}

	summary := types.ChatSummary{Text: text, StartTurnIndex: start, EndTurnIndex: end}
	if err := s.threads.StoreSummary(threadID, summary); err != nil {
		s.log.Warnf("thread %s: storing summary failed: %v", threadID, err)
		return
	}

	s.log.Debugf("thread %s: summarized turns [%d,%d]", threadID, start, end)
}

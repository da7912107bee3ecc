package types

// ChatSummary is a condensed representation of a contiguous turn range within
// a thread. Summaries are created by the summarization policy, never mutated,
// and live for the life of the thread.
//
// StartTurnIndex and EndTurnIndex are inclusive indexes into the thread's turn
// list. The policy that produces summaries guarantees start <= end and that
// ranges for one thread never overlap; the thread store does not re-check this.
type ChatSummary struct {
	// Text is the generated summary.
	Text string `json:"text"`

	// StartTurnIndex is the first turn covered (inclusive).
	StartTurnIndex int `json:"start_turn_index"`

	// EndTurnIndex is the last turn covered (inclusive).
	EndTurnIndex int `json:"end_turn_index"`
}

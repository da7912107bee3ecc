package types

// RequestMeta carries the per-request state agents pass to each other during
// a triage pipeline run. It replaces the string-keyed metadata map the same
// pattern is often built on: fields are typed, sets overwrite, and missing
// values read as their zero value. The context is advisory — readers must
// tolerate absent fields.
type RequestMeta struct {
	// UserMessage is the original user text the pipeline is handling.
	UserMessage string

	// Classification is the category produced by the triage classifier.
	// Its concrete type is the category type the triage agent was built
	// with; readers assert it via agent.ClassificationFrom.
	Classification any

	// RoutedAgent is the registry name of the agent ultimately chosen by
	// triage, recorded before delegation.
	RoutedAgent string

	// PreviousResult is an open slot for agent-chaining scenarios: an agent
	// may leave an arbitrary value here for the next agent in a chain.
	PreviousResult any
}

// ChatRequest is the unit of work passed through the agent pipeline. One is
// constructed per triage invocation and discarded when the call returns.
type ChatRequest struct {
	// ThreadID is the conversation thread this request belongs to. Empty
	// means no thread yet; the triage agent may create one.
	ThreadID string

	// Meta accumulates inter-agent state as the pipeline runs.
	Meta RequestMeta
}

// NewChatRequest creates a request for the given user message and thread.
// threadID may be empty.
func NewChatRequest(threadID, userMessage string) *ChatRequest {
	return &ChatRequest{
		ThreadID: threadID,
		Meta:     RequestMeta{UserMessage: userMessage},
	}
}

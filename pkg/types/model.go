package types

// ModelInfo describes the model behind a completion provider: identity,
// capabilities, and limits. Metadata holds provider-specific extras.
type ModelInfo struct {
	// Provider names the backing service (e.g. "openai").
	Provider string

	// Name is the model identifier.
	Name string

	// MaxTokens is the model's context window size, when known.
	MaxTokens int

	// SupportsStreaming reports whether the provider can stream responses.
	SupportsStreaming bool

	// Metadata holds additional provider-specific fields.
	Metadata map[string]any
}

// TokenUsage contains token statistics from a completion call.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the input.
	PromptTokens int

	// CompletionTokens is the number of tokens generated.
	CompletionTokens int

	// TotalTokens is prompt plus completion.
	TotalTokens int
}

// Package llm defines the completion-capability abstraction the Parley core
// delegates language understanding to.
//
// Providers handle API communication with an LLM service and nothing else:
// they accept role-tagged messages plus optional tool descriptors and
// instruction text, and return response text plus optional tool-invocation
// directives. Thread management, summarization policy, and routing live in
// the layers above, which keeps providers reusable outside the chat
// orchestration (classification, summarization, batch jobs).
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	completion, err := provider.Complete(ctx, &llm.Request{
//	    Messages: []*types.Message{types.NewUserMessage("Hello!")},
//	})
package llm

import (
	"context"

	"github.com/parleyhq/parley/pkg/types"
)

// ToolDescriptor describes one tool the model may ask to invoke. The schema
// is a JSON-schema-shaped map, passed through to the provider untouched.
type ToolDescriptor struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Request is one completion call: the bounded conversation context, optional
// tool descriptors, and optional instruction text sent as a leading system
// message.
type Request struct {
	// Messages is the ordered, role-tagged context for this call.
	Messages []*types.Message

	// Tools lists tool descriptors the model may invoke. May be empty.
	Tools []ToolDescriptor

	// Instructions is system instruction text prepended to Messages when
	// non-empty.
	Instructions string
}

// ToolCall is a tool-invocation directive returned by the model.
type ToolCall struct {
	// Name is the tool the model wants invoked.
	Name string

	// Arguments is the raw JSON argument payload.
	Arguments string
}

// Completion is the full response to a Request.
type Completion struct {
	// Content is the response text.
	Content string

	// ToolCalls holds any tool-invocation directives. May be empty.
	ToolCalls []ToolCall

	// Usage contains token statistics when the provider reports them.
	Usage *types.TokenUsage
}

// StreamChunk is one increment of a streaming response.
type StreamChunk struct {
	// Content is the text delta carried by this chunk.
	Content string

	// Finished is true on the final chunk of a stream.
	Finished bool

	// Err is set on error chunks. The stream closes after an error chunk.
	Err error
}

// IsError reports whether the chunk carries a stream-time error.
func (c *StreamChunk) IsError() bool {
	return c.Err != nil
}

// Provider is the completion capability: the single external collaborator
// the core depends on for language understanding.
//
// Every method that reaches the backing service honors ctx cancellation and
// returns promptly when it fires.
type Provider interface {
	// Complete sends the request and returns the full response.
	Complete(ctx context.Context, req *Request) (*Completion, error)

	// StreamCompletion sends the request and streams back response chunks.
	// The returned channel closes when the stream completes or fails;
	// stream-time errors arrive as chunks with Err set. An error is
	// returned directly only if streaming cannot be initiated.
	StreamCompletion(ctx context.Context, req *Request) (<-chan *StreamChunk, error)

	// GetModel returns the model name in use.
	GetModel() string

	// GetModelInfo returns metadata about the model in use.
	GetModelInfo() *types.ModelInfo
}

// ModelCloner is an optional interface providers can implement to support
// lightweight per-call model overrides without constructing a second
// provider. The clone shares credentials and transport with the original.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/pkg/classify"
	"github.com/parleyhq/parley/pkg/llm"
	"github.com/parleyhq/parley/pkg/thread"
	"github.com/parleyhq/parley/pkg/types"
)

type topic string

const (
	topicUnknown topic = "unknown"
	topicBilling topic = "billing"
	topicSupport topic = "support"
)

// stubProvider backs the classifier with a canned response and a call count.
type stubProvider struct {
	response string
	err      error
	calls    int
}

func (p *stubProvider) Complete(context.Context, *llm.Request) (*llm.Completion, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Completion{Content: p.response}, nil
}

func (p *stubProvider) StreamCompletion(context.Context, *llm.Request) (<-chan *llm.StreamChunk, error) {
	ch := make(chan *llm.StreamChunk)
	close(ch)
	return ch, nil
}

func (p *stubProvider) GetModel() string { return "stub" }

func (p *stubProvider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Provider: "stub", Name: "stub"}
}

// recordingAgent remembers the request it was invoked with.
type recordingAgent struct {
	reply   string
	invoked bool
	lastReq *types.ChatRequest
}

func (a *recordingAgent) Invoke(_ context.Context, req *types.ChatRequest) types.Outcome[*types.ChatTurn] {
	a.invoked = true
	a.lastReq = req
	return types.Success(types.NewAssistantTurn(req.ThreadID, a.reply, nil))
}

func newTestClassifier(provider llm.Provider) *classify.Classifier[topic] {
	return classify.New(provider, topicUnknown,
		classify.Option[topic]{Value: topicBilling, Name: "billing", Description: "payments"},
		classify.Option[topic]{Value: topicSupport, Name: "support", Description: "problems"},
	)
}

func routeByName(category topic) (string, bool) {
	if category == topicUnknown {
		return "", false
	}
	return string(category), true
}

// TestTriageMissingMessage verifies a request without a user message fails
// with NoMessage before the classifier runs.
func TestTriageMissingMessage(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	registry := NewRegistry()
	triage := NewTriage(newTestClassifier(provider), routeByName, registry)

	outcome := triage.Invoke(context.Background(), &types.ChatRequest{})

	require.True(t, outcome.IsFailure())
	assert.Equal(t, types.ErrNoMessage, types.KindOf(outcome.Err()))
	assert.Zero(t, provider.calls, "classifier must not be consulted")
}

// TestTriageRoutesToClassifiedAgent verifies the happy path: classify,
// resolve, delegate, and record metadata.
func TestTriageRoutesToClassifiedAgent(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	billing := &recordingAgent{reply: "billing here"}

	registry := NewRegistry()
	registry.Register("billing", billing)

	triage := NewTriage(newTestClassifier(provider), routeByName, registry)

	req := types.NewChatRequest("thread-1", "my invoice is wrong")
	outcome := triage.Invoke(context.Background(), req)

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, "billing here", outcome.Value().Content)
	assert.True(t, billing.invoked)
	assert.Equal(t, "billing", req.Meta.RoutedAgent)

	category, ok := ClassificationFrom[topic](req)
	assert.True(t, ok)
	assert.Equal(t, topicBilling, category)
}

// TestTriageFallbackOnUnroutedCategory verifies a route miss degrades to the
// configured fallback name and records it as the routed agent.
func TestTriageFallbackOnUnroutedCategory(t *testing.T) {
	provider := &stubProvider{response: "nonsense"} // classifies to unknown
	fallback := &recordingAgent{reply: "fallback here"}

	registry := NewRegistry()
	registry.Register("general", fallback)

	triage := NewTriage(newTestClassifier(provider), routeByName, registry,
		WithFallbackName[topic]("general"),
	)

	req := types.NewChatRequest("thread-1", "hello?")
	outcome := triage.Invoke(context.Background(), req)

	require.True(t, outcome.IsSuccess())
	assert.True(t, fallback.invoked)
	assert.Equal(t, "general", req.Meta.RoutedAgent)

	// Classification is recorded even though routing needed the fallback.
	category, ok := ClassificationFrom[topic](req)
	assert.True(t, ok)
	assert.Equal(t, topicUnknown, category)
}

// TestTriageFallbackOnUnregisteredRoute verifies a mapped name missing from
// the registry degrades to fallback rather than failing.
func TestTriageFallbackOnUnregisteredRoute(t *testing.T) {
	provider := &stubProvider{response: "billing"} // maps to "billing", unregistered
	fallback := &recordingAgent{reply: "fallback here"}

	registry := NewRegistry()
	registry.Register("general", fallback)

	triage := NewTriage(newTestClassifier(provider), routeByName, registry,
		WithFallbackName[topic]("general"),
	)

	outcome := triage.Invoke(context.Background(), types.NewChatRequest("t", "invoice"))

	require.True(t, outcome.IsSuccess())
	assert.True(t, fallback.invoked)
}

// TestTriageFallbackInstance verifies the directly-supplied fallback agent
// is tried after the fallback name fails to resolve.
func TestTriageFallbackInstance(t *testing.T) {
	provider := &stubProvider{response: "nonsense"}
	instance := &recordingAgent{reply: "instance fallback"}

	triage := NewTriage(newTestClassifier(provider), routeByName, NewRegistry(),
		WithFallbackName[topic]("not-registered"),
		WithFallbackAgent[topic](instance),
	)

	req := types.NewChatRequest("t", "hello")
	outcome := triage.Invoke(context.Background(), req)

	require.True(t, outcome.IsSuccess())
	assert.True(t, instance.invoked)
	assert.Equal(t, "not-registered", req.Meta.RoutedAgent)
}

// TestTriageNoAgent verifies an unresolvable route with no fallback at all
// fails with NoAgent, with the classification still recorded.
func TestTriageNoAgent(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	triage := NewTriage(newTestClassifier(provider), routeByName, NewRegistry())

	req := types.NewChatRequest("t", "invoice")
	outcome := triage.Invoke(context.Background(), req)

	require.True(t, outcome.IsFailure())
	assert.Equal(t, types.ErrNoAgent, types.KindOf(outcome.Err()))

	category, ok := ClassificationFrom[topic](req)
	assert.True(t, ok)
	assert.Equal(t, topicBilling, category)
}

// TestTriageDelegatedFailurePropagates verifies a failure from the delegated
// agent is returned unmodified, not wrapped as TriageFailed.
func TestTriageDelegatedFailurePropagates(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	failing := Func(func(_ context.Context, _ *types.ChatRequest) types.Outcome[*types.ChatTurn] {
		return types.Failure[*types.ChatTurn](errors.New("agent exploded"))
	})

	registry := NewRegistry()
	registry.Register("billing", failing)

	triage := NewTriage(newTestClassifier(provider), routeByName, registry)
	outcome := triage.Invoke(context.Background(), types.NewChatRequest("t", "invoice"))

	require.True(t, outcome.IsFailure())
	assert.EqualError(t, outcome.Err(), "agent exploded")
	assert.NotEqual(t, types.ErrTriageFailed, types.KindOf(outcome.Err()))
}

// TestTriagePanicBecomesTriageFailed verifies a panic inside the pipeline
// converts to a TriageFailed failure carrying the cause.
func TestTriagePanicBecomesTriageFailed(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	panicking := Func(func(_ context.Context, _ *types.ChatRequest) types.Outcome[*types.ChatTurn] {
		panic("boom")
	})

	registry := NewRegistry()
	registry.Register("billing", panicking)

	triage := NewTriage(newTestClassifier(provider), routeByName, registry)
	outcome := triage.Invoke(context.Background(), types.NewChatRequest("t", "invoice"))

	require.True(t, outcome.IsFailure())
	assert.Equal(t, types.ErrTriageFailed, types.KindOf(outcome.Err()))
	assert.ErrorContains(t, outcome.Err(), "boom")
}

// TestTriageCancellation verifies an already-cancelled context surfaces as
// Cancelled, never TriageFailed.
func TestTriageCancellation(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	billing := &recordingAgent{reply: "never reached"}

	registry := NewRegistry()
	registry.Register("billing", billing)

	triage := NewTriage(newTestClassifier(provider), routeByName, registry)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := triage.Invoke(ctx, types.NewChatRequest("t", "invoice"))

	require.True(t, outcome.IsFailure())
	assert.Equal(t, types.ErrCancelled, types.KindOf(outcome.Err()))
	assert.True(t, types.IsCancellation(outcome.Err()))
	assert.False(t, billing.invoked)
}

// TestTriageCreatesThreadWhenMissing verifies triage creates a thread for
// requests arriving without one when a thread service was supplied.
func TestTriageCreatesThreadWhenMissing(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	billing := &recordingAgent{reply: "ok"}

	registry := NewRegistry()
	registry.Register("billing", billing)

	threads := thread.NewService()
	triage := NewTriage(newTestClassifier(provider), routeByName, registry,
		WithThreadService[topic](threads),
	)

	req := types.NewChatRequest("", "invoice")
	outcome := triage.Invoke(context.Background(), req)

	require.True(t, outcome.IsSuccess())
	assert.NotEmpty(t, req.ThreadID)
	assert.True(t, threads.ThreadExists(req.ThreadID))
	assert.Equal(t, req.ThreadID, billing.lastReq.ThreadID)
}

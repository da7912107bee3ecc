package agent

import (
	"context"
	"fmt"

	"github.com/parleyhq/parley/pkg/classify"
	"github.com/parleyhq/parley/pkg/logging"
	"github.com/parleyhq/parley/pkg/thread"
	"github.com/parleyhq/parley/pkg/types"
)

// RouteFunc maps a classification category to an agent name. Returning
// ok=false (or an empty name) signals "no specific route; use the fallback".
// The mapping is supplied at configuration time and must be a pure function.
type RouteFunc[T comparable] func(category T) (name string, ok bool)

// Triage classifies a request's user message and routes it to a specialized
// agent. Conceptually a four-step pipeline per invocation — extract message,
// classify, resolve, delegate — ending in either a delegated ChatTurn or a
// structured failure. Triage holds no state across invocations; per-request
// state lives on the ChatRequest.
type Triage[T comparable] struct {
	classifier   *classify.Classifier[T]
	route        RouteFunc[T]
	registry     *Registry
	fallbackName string
	fallback     Agent
	threads      *thread.Service
	log          *logging.Logger
}

// TriageOption configures a Triage agent.
type TriageOption[T comparable] func(*Triage[T])

// WithFallbackName sets the registry name tried when routing cannot resolve
// a specific agent.
func WithFallbackName[T comparable](name string) TriageOption[T] {
	return func(t *Triage[T]) {
		t.fallbackName = name
	}
}

// WithFallbackAgent sets a directly-supplied fallback agent, tried after the
// fallback name fails to resolve.
func WithFallbackAgent[T comparable](a Agent) TriageOption[T] {
	return func(t *Triage[T]) {
		t.fallback = a
	}
}

// WithThreadService lets triage create a thread for requests arriving
// without a thread ID, so callers need not pre-create threads.
func WithThreadService[T comparable](threads *thread.Service) TriageOption[T] {
	return func(t *Triage[T]) {
		t.threads = threads
	}
}

// NewTriage creates a triage agent over the given classifier, routing
// mapping, and registry.
func NewTriage[T comparable](classifier *classify.Classifier[T], route RouteFunc[T], registry *Registry, opts ...TriageOption[T]) *Triage[T] {
	log, _ := logging.NewLogger("triage")
	t := &Triage[T]{
		classifier: classifier,
		route:      route,
		registry:   registry,
		log:        log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Invoke runs the triage pipeline for req.
//
// A request without a user message fails with NoMessage before the
// classifier is consulted. The classification is recorded on the request
// unconditionally — even when routing subsequently fails — so callers can
// always inspect what was classified. Route misses and route names absent
// from the registry both degrade through the fallback sequence (name, then
// instance) before failing with NoAgent. The delegated agent's outcome is
// returned unmodified.
//
// Panics during classification, resolution, or delegation convert to a
// TriageFailed failure carrying the cause. Cancellation is the exception:
// it always surfaces as a Cancelled failure, never TriageFailed.
func (t *Triage[T]) Invoke(ctx context.Context, req *types.ChatRequest) (outcome types.Outcome[*types.ChatTurn]) {
	// Step 1: extract the user message. Hard stop when absent — classifying
	// an empty message would route on noise.
	if req == nil || req.Meta.UserMessage == "" {
		return types.Failure[*types.ChatTurn](types.NewNoMessage())
	}

	defer func() {
		if r := recover(); r != nil {
			t.log.Errorf("triage pipeline panicked: %v", r)
			outcome = types.Failure[*types.ChatTurn](types.NewTriageFailed(fmt.Errorf("panic: %v", r)))
		}
	}()

	// Step 2: classify, and record the result before anything can fail.
	category := t.classifier.Classify(ctx, req.Meta.UserMessage)
	req.Meta.Classification = category

	if err := ctx.Err(); err != nil {
		return types.Failure[*types.ChatTurn](types.NewCancelled(err))
	}

	// Step 3: resolve an agent for the category.
	chosen, chosenName, err := t.resolve(category)
	if err != nil {
		return types.Failure[*types.ChatTurn](err)
	}
	req.Meta.RoutedAgent = chosenName

	// Requests without a thread get one here when a thread service was
	// supplied, so the delegated agent always sees a usable thread ID.
	if req.ThreadID == "" && t.threads != nil {
		req.ThreadID = t.threads.CreateThread()
	}

	t.log.Debugf("routing message to agent %q (category %v)", chosenName, category)

	// Step 4: delegate. Errors from the delegated agent propagate as-is.
	return chosen.Invoke(ctx, req)
}

// resolve applies the routing mapping and the fallback sequence.
func (t *Triage[T]) resolve(category T) (Agent, string, error) {
	if name, ok := t.route(category); ok && name != "" {
		if a, found := t.registry.Get(name); found {
			return a, name, nil
		}
		// A mapped name missing from the registry degrades to the
		// fallback rather than failing outright.
		t.log.Warnf("route for category %v names unregistered agent %q, trying fallback", category, name)
	}

	if t.fallbackName != "" {
		if a, found := t.registry.Get(t.fallbackName); found {
			return a, t.fallbackName, nil
		}
	}

	if t.fallback != nil {
		name := t.fallbackName
		if name == "" {
			name = "fallback"
		}
		return t.fallback, name, nil
	}

	return nil, "", types.NewNoAgent(fmt.Sprintf("no agent resolvable for category %v and no usable fallback configured", category))
}

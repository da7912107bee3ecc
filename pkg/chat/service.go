// Package chat provides the top-level orchestration service: the facade a
// caller interacts with to answer a single user message. It composes the
// thread service, the completion capability, the widget-hint parser, the
// summarization policy, and (optionally) the triage pipeline.
package chat

import (
	"context"

	"github.com/parleyhq/parley/pkg/agent"
	"github.com/parleyhq/parley/pkg/llm"
	"github.com/parleyhq/parley/pkg/llm/parser"
	"github.com/parleyhq/parley/pkg/llm/tokenizer"
	"github.com/parleyhq/parley/pkg/logging"
	"github.com/parleyhq/parley/pkg/summarize"
	"github.com/parleyhq/parley/pkg/thread"
	"github.com/parleyhq/parley/pkg/types"
)

// WidgetParser separates widget hints from raw response text. It is a pure
// function dependency so samples and tests can substitute their own format.
type WidgetParser func(text string) (clean string, widgets []types.Widget)

// ToolProvider supplies the tool descriptors sent alongside bounded context.
type ToolProvider interface {
	Tools() []llm.ToolDescriptor
}

// InstructionProvider supplies the system instruction text sent with each
// completion request.
type InstructionProvider interface {
	Instructions() string
}

// StaticTools is a fixed ToolProvider.
type StaticTools []llm.ToolDescriptor

// Tools implements ToolProvider.
func (s StaticTools) Tools() []llm.ToolDescriptor {
	return s
}

// StaticInstructions is a fixed InstructionProvider.
type StaticInstructions string

// Instructions implements InstructionProvider.
func (s StaticInstructions) Instructions() string {
	return string(s)
}

// Service answers user messages over managed threads with memory-bounded
// context. See Respond for the non-triage path and Dispatch for the triage
// path.
type Service struct {
	threads      *thread.Service
	provider     llm.Provider
	summarizer   *summarize.Summarizer
	parseWidgets WidgetParser
	tools        ToolProvider
	instructions InstructionProvider
	triage       agent.Agent
	tok          *tokenizer.Tokenizer
	log          *logging.Logger

	autoSummarize          bool
	summarizationThreshold int
	recentTurnsToKeep      int
	maxContextTurns        int
}

// NewService creates an orchestration service over the given thread store
// and completion provider, with the default summarization policy (enabled,
// threshold 15, keep 10 recent turns) and the default widget-hint parser.
func NewService(threads *thread.Service, provider llm.Provider, opts ...Option) *Service {
	log, _ := logging.NewLogger("chat")
	s := &Service{
		threads:      threads,
		provider:     provider,
		parseWidgets: parser.ParseWidgets,
		tok:          tokenizer.New(),
		log:          log,

		autoSummarize:          true,
		summarizationThreshold: defaultSummarizationThreshold,
		recentTurnsToKeep:      defaultRecentTurnsToKeep,
		maxContextTurns:        defaultMaxContextTurns,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.summarizer == nil {
		s.summarizer = summarize.NewSummarizer(provider)
	}
	return s
}

// Threads exposes the underlying thread service, so callers can inspect
// history and summaries or delete threads.
func (s *Service) Threads() *thread.Service {
	return s.threads
}

// Respond answers one user message on the given thread.
//
// An empty threadID creates a new thread — the one place in the core where a
// thread comes into being implicitly, as a boundary convenience. The user
// turn is appended, the bounded context (summaries plus recent turns) is
// sent to the provider with any registered tool descriptors and
// instructions, widget hints are parsed out of the response, the assistant
// turn is appended, and the summarization policy runs.
//
// Provider failures propagate to the caller. Summarization failures do not:
// they are logged and swallowed, since summarization is best-effort and must
// never fail a user-facing response.
func (s *Service) Respond(ctx context.Context, userMessage, threadID string) (*types.ChatTurn, error) {
	if threadID == "" {
		threadID = s.threads.CreateThread()
	}

	history, err := s.threads.AppendTurn(threadID, types.NewUserTurn(threadID, userMessage))
	if err != nil {
		return nil, err
	}

	summaries, err := s.threads.Summaries(threadID)
	if err != nil {
		return nil, err
	}

	messages, err := thread.BoundedContext(history, s.maxContextTurns, summaries)
	if err != nil {
		return nil, err
	}

	req := &llm.Request{Messages: messages}
	if s.tools != nil {
		req.Tools = s.tools.Tools()
	}
	if s.instructions != nil {
		req.Instructions = s.instructions.Instructions()
	}

	s.logContextSize(threadID, req)

	completion, err := s.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	content, widgets := s.parseWidgets(completion.Content)
	turn := types.NewAssistantTurn(threadID, content, widgets)
	if _, err := s.threads.AppendTurn(threadID, turn); err != nil {
		return nil, err
	}

	s.applySummarizationPolicy(ctx, threadID)

	return turn, nil
}

// Dispatch routes one user message through the configured triage agent
// instead of answering it directly. The returned outcome is the delegated
// agent's, unmodified. When no triage agent is configured the outcome is a
// NoAgent failure.
func (s *Service) Dispatch(ctx context.Context, userMessage, threadID string) types.Outcome[*types.ChatTurn] {
	return s.DispatchRequest(ctx, types.NewChatRequest(threadID, userMessage))
}

// DispatchRequest is Dispatch for callers that construct their own request,
// keeping the request visible so the classification and routed-agent
// metadata triage records on it can be inspected after the call.
func (s *Service) DispatchRequest(ctx context.Context, req *types.ChatRequest) types.Outcome[*types.ChatTurn] {
	if s.triage == nil {
		return types.Failure[*types.ChatTurn](types.NewNoAgent("no triage agent configured"))
	}
	return s.triage.Invoke(ctx, req)
}

// logContextSize records the token footprint of the outgoing context against
// the model window.
func (s *Service) logContextSize(threadID string, req *llm.Request) {
	tokens := s.tok.CountMessages(req.Messages)
	if req.Instructions != "" {
		tokens += s.tok.CountText(req.Instructions)
	}

	maxTokens := 0
	if info := s.provider.GetModelInfo(); info != nil {
		maxTokens = info.MaxTokens
	}
	if maxTokens > 0 && tokens > maxTokens {
		s.log.Warnf("thread %s: context size %d tokens exceeds model window %d", threadID, tokens, maxTokens)
		return
	}
	s.log.Debugf("thread %s: sending %d context tokens (model window %d)", threadID, tokens, maxTokens)
}

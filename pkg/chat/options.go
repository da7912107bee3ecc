package chat

import (
	"github.com/parleyhq/parley/pkg/agent"
	"github.com/parleyhq/parley/pkg/summarize"
)

const (
	// defaultSummarizationThreshold is the turn count a thread must exceed
	// before the policy summarizes anything.
	defaultSummarizationThreshold = 15

	// defaultRecentTurnsToKeep is how many trailing turns stay
	// unsummarized after a summarization event.
	defaultRecentTurnsToKeep = 10

	// defaultMaxContextTurns bounds the raw turns included in the context
	// sent to the provider.
	defaultMaxContextTurns = 10
)

// Option configures a Service.
type Option func(*Service)

// WithAutoSummarization enables or disables the summarization policy.
func WithAutoSummarization(enabled bool) Option {
	return func(s *Service) {
		s.autoSummarize = enabled
	}
}

// WithSummarizationThreshold sets the turn count a thread must exceed before
// summarization triggers. Values below 1 keep the default.
func WithSummarizationThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold >= 1 {
			s.summarizationThreshold = threshold
		}
	}
}

// WithRecentTurnsToKeep sets how many trailing turns stay unsummarized after
// a summarization event. Values below 1 keep the default.
func WithRecentTurnsToKeep(keep int) Option {
	return func(s *Service) {
		if keep >= 1 {
			s.recentTurnsToKeep = keep
		}
	}
}

// WithMaxContextTurns sets how many recent raw turns are included in the
// bounded context sent to the provider. Values below 1 keep the default.
func WithMaxContextTurns(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxContextTurns = n
		}
	}
}

// WithSummarizer overrides the summarizer, e.g. to run summarization on a
// cheaper model than the main provider.
func WithSummarizer(summarizer *summarize.Summarizer) Option {
	return func(s *Service) {
		s.summarizer = summarizer
	}
}

// WithWidgetParser overrides the widget-hint parser.
func WithWidgetParser(p WidgetParser) Option {
	return func(s *Service) {
		if p != nil {
			s.parseWidgets = p
		}
	}
}

// WithToolProvider sets the source of tool descriptors sent with each
// completion request.
func WithToolProvider(tools ToolProvider) Option {
	return func(s *Service) {
		s.tools = tools
	}
}

// WithInstructionProvider sets the source of system instruction text sent
// with each completion request.
func WithInstructionProvider(instructions InstructionProvider) Option {
	return func(s *Service) {
		s.instructions = instructions
	}
}

// WithTriage enables the Dispatch path through the given triage agent.
func WithTriage(triage agent.Agent) Option {
	return func(s *Service) {
		s.triage = triage
	}
}

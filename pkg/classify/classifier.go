// Package classify maps free text onto closed, caller-defined category sets
// using the completion capability.
//
// Classification is designed to never be a hard failure point: Classify's
// signature returns a plain category, and every internal failure — provider
// errors, unparseable responses, blank input — degrades to the configured
// unknown category. Callers that need cancellation semantics check their
// context after the call.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/pkg/llm"
	"github.com/parleyhq/parley/pkg/logging"
	"github.com/parleyhq/parley/pkg/types"
)

// Option declares one member of a category set: the typed value, the name
// the model answers with, and a description steering the classification.
type Option[T comparable] struct {
	Value       T
	Name        string
	Description string
}

// Classifier maps input text to one value of a closed category set.
// T is the caller's category type, typically a small named string or int
// type with a fixed set of values including a designated "unknown" member.
type Classifier[T comparable] struct {
	provider llm.Provider
	options  []Option[T]
	unknown  T
	log      *logging.Logger
}

// New creates a classifier over the given category set. unknown is returned
// for blank input, unrecognized model responses, and any provider failure.
func New[T comparable](provider llm.Provider, unknown T, options ...Option[T]) *Classifier[T] {
	log, _ := logging.NewLogger("classify")
	return &Classifier[T]{
		provider: provider,
		options:  options,
		unknown:  unknown,
		log:      log,
	}
}

// Classify returns the category for input.
//
// Blank input short-circuits to the unknown category without a provider
// call. Otherwise the provider is asked to answer with exactly one category
// name, and the response is matched case-insensitively against the declared
// set; anything else maps to unknown.
func (c *Classifier[T]) Classify(ctx context.Context, input string) T {
	if strings.TrimSpace(input) == "" {
		return c.unknown
	}

	completion, err := c.provider.Complete(ctx, &llm.Request{
		Instructions: c.buildInstructions(),
		Messages: []*types.Message{
			types.NewUserMessage(input),
		},
	})
	if err != nil {
		c.log.Warnf("classification call failed, falling back to unknown: %v", err)
		return c.unknown
	}

	return c.parse(completion.Content)
}

// buildInstructions enumerates the valid category names and descriptions.
func (c *Classifier[T]) buildInstructions() string {
	var b strings.Builder
	b.WriteString("Classify the user's message into exactly one of these categories:\n\n")
	for _, opt := range c.options {
		b.WriteString(fmt.Sprintf("- %s: %s\n", opt.Name, opt.Description))
	}
	b.WriteString("\nRespond with exactly one category name and nothing else.")
	return b.String()
}

// parse matches the raw model response against the category set.
func (c *Classifier[T]) parse(response string) T {
	answer := strings.TrimSpace(response)
	for _, opt := range c.options {
		if strings.EqualFold(answer, opt.Name) {
			return opt.Value
		}
	}
	c.log.Debugf("unrecognized classification response %q, falling back to unknown", answer)
	return c.unknown
}

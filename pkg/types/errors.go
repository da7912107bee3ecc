package types

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a core failure. Kinds are the contract callers match
// on; the message text is diagnostic only.
type ErrorKind string

const (
	// ErrThreadNotFound means an operation referenced a thread ID with no
	// corresponding stored thread.
	ErrThreadNotFound ErrorKind = "thread_not_found"

	// ErrInvalidArgument means a caller violated a documented precondition.
	ErrInvalidArgument ErrorKind = "invalid_argument"

	// ErrNoMessage means triage was invoked without a user message on the
	// request.
	ErrNoMessage ErrorKind = "no_message"

	// ErrNoAgent means routing produced no resolvable agent and no usable
	// fallback was configured.
	ErrNoAgent ErrorKind = "no_agent"

	// ErrTriageFailed means an unexpected failure occurred during
	// classification, resolution, or delegation. The cause is wrapped.
	ErrTriageFailed ErrorKind = "triage_failed"

	// ErrCancelled means a cancellation signal was observed. Cancellation
	// is always propagated as-is, never downgraded to another kind.
	ErrCancelled ErrorKind = "cancelled"
)

// Error is the structured error type for core failures.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// ThreadID is the offending thread ID for thread-scoped failures.
	ThreadID string

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.ThreadID != "" {
		msg = fmt.Sprintf("%s (thread %s)", msg, e.ThreadID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two *Error values by kind, so callers can use
// errors.Is(err, &Error{Kind: ErrThreadNotFound}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NewThreadNotFound creates a ThreadNotFound error for the given ID.
func NewThreadNotFound(threadID string) *Error {
	return &Error{Kind: ErrThreadNotFound, ThreadID: threadID, Message: "thread not found"}
}

// NewInvalidArgument creates an InvalidArgument error with the given detail.
func NewInvalidArgument(detail string) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: detail}
}

// NewNoMessage creates a NoMessage error.
func NewNoMessage() *Error {
	return &Error{Kind: ErrNoMessage, Message: "no user message on request"}
}

// NewNoAgent creates a NoAgent error with the given detail.
func NewNoAgent(detail string) *Error {
	return &Error{Kind: ErrNoAgent, Message: detail}
}

// NewTriageFailed wraps an unexpected triage failure.
func NewTriageFailed(cause error) *Error {
	return &Error{Kind: ErrTriageFailed, Message: "triage pipeline failed", Cause: cause}
}

// NewCancelled wraps an observed cancellation signal.
func NewCancelled(cause error) *Error {
	return &Error{Kind: ErrCancelled, Message: "operation cancelled", Cause: cause}
}

// KindOf extracts the ErrorKind from err, or "" when err is not a core Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsCancellation reports whether err represents a cancellation signal, either
// a context error or a core Cancelled error.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return KindOf(err) == ErrCancelled
}

package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorMessageComposition verifies the rendered message includes the
// thread ID and cause when present.
func TestErrorMessageComposition(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "kind only",
			err:  &Error{Kind: ErrNoAgent},
			want: "no_agent",
		},
		{
			name: "message",
			err:  &Error{Kind: ErrNoAgent, Message: "nobody home"},
			want: "nobody home",
		},
		{
			name: "thread scoped",
			err:  NewThreadNotFound("t-42"),
			want: "thread not found (thread t-42)",
		},
		{
			name: "with cause",
			err:  NewTriageFailed(errors.New("boom")),
			want: "triage pipeline failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

// TestKindMatching verifies errors.Is matches by kind and KindOf sees through
// wrapping.
func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewThreadNotFound("t-1"))

	assert.Equal(t, ErrThreadNotFound, KindOf(err))
	assert.True(t, errors.Is(err, &Error{Kind: ErrThreadNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: ErrNoAgent}))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

// TestUnwrap verifies the cause chain is reachable with errors.Is.
func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewTriageFailed(cause)
	assert.True(t, errors.Is(err, cause))
}

// TestIsCancellation verifies both context errors and the Cancelled kind are
// recognized, and nothing else is.
func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(context.DeadlineExceeded))
	assert.True(t, IsCancellation(NewCancelled(context.Canceled)))
	assert.True(t, IsCancellation(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.False(t, IsCancellation(nil))
	assert.False(t, IsCancellation(errors.New("ordinary")))
	assert.False(t, IsCancellation(NewNoAgent("nobody")))
}

// Package types defines the shared value types used across the Parley core:
// conversation turns, summaries, requests, widgets, and the Outcome wrapper
// the agent pipeline uses for expected control flow.
package types

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"      // RoleUser marks a turn authored by the end user.
	RoleAssistant Role = "assistant" // RoleAssistant marks a turn produced by the system.
	RoleSystem    Role = "system"    // RoleSystem marks synthetic instruction/context turns.
)

// Widget is an opaque descriptor for an interactive element embedded in an
// assistant turn. The core never interprets Payload; rendering is a caller
// concern.
type Widget struct {
	// Type names the widget kind (e.g. "button", "form", "slider").
	Type string `json:"type"`

	// Payload holds the widget's render data, passed through untouched.
	Payload map[string]any `json:"payload,omitempty"`
}

// ChatTurn is one message in a conversation thread. Turns are immutable once
// created: constructors copy nothing mutable in, and accessors copy out.
type ChatTurn struct {
	// ThreadID identifies the thread this turn belongs to.
	ThreadID string `json:"thread_id"`

	// Role is the author of the turn.
	Role Role `json:"role"`

	// Content is the turn's text.
	Content string `json:"content"`

	// Widgets holds descriptors parsed out of an assistant response.
	// Nil for user and system turns.
	Widgets []Widget `json:"widgets,omitempty"`
}

// NewUserTurn creates a user-authored turn for the given thread.
func NewUserTurn(threadID, content string) *ChatTurn {
	return &ChatTurn{ThreadID: threadID, Role: RoleUser, Content: content}
}

// NewAssistantTurn creates an assistant turn carrying any parsed widgets.
func NewAssistantTurn(threadID, content string, widgets []Widget) *ChatTurn {
	return &ChatTurn{ThreadID: threadID, Role: RoleAssistant, Content: content, Widgets: widgets}
}

// NewSystemTurn creates a synthetic system turn.
func NewSystemTurn(threadID, content string) *ChatTurn {
	return &ChatTurn{ThreadID: threadID, Role: RoleSystem, Content: content}
}

// Message is the wire shape sent to the completion capability: a role-tagged
// text with no thread or widget information. Bounded context building
// produces these from turns.
type Message struct {
	Role    Role
	Content string
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

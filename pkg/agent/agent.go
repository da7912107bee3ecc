// Package agent defines the agent capability contract and the triage
// pipeline that classifies requests and routes them to specialized agents.
//
// An Agent is anything that can handle a chat request and produce a chat
// turn or a structured failure. Specialized agents (help desk, data query,
// action execution, ...) are supplied by callers; the package provides the
// name-keyed Registry they are resolved from and the Triage agent that does
// the classify-and-dispatch orchestration.
package agent

import (
	"context"

	"github.com/parleyhq/parley/pkg/types"
)

// Agent is the common capability implemented by specialized agents and by
// the triage agent itself.
type Agent interface {
	// Invoke handles one chat request, producing an assistant turn or a
	// structured failure. Implementations must honor ctx cancellation.
	Invoke(ctx context.Context, req *types.ChatRequest) types.Outcome[*types.ChatTurn]
}

// Func adapts a plain function to the Agent interface.
type Func func(ctx context.Context, req *types.ChatRequest) types.Outcome[*types.ChatTurn]

// Invoke implements Agent.
func (f Func) Invoke(ctx context.Context, req *types.ChatRequest) types.Outcome[*types.ChatTurn] {
	return f(ctx, req)
}

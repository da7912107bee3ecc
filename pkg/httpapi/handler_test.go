package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/pkg/agent"
	"github.com/parleyhq/parley/pkg/chat"
	"github.com/parleyhq/parley/pkg/classify"
	"github.com/parleyhq/parley/pkg/llm"
	"github.com/parleyhq/parley/pkg/thread"
	"github.com/parleyhq/parley/pkg/types"
)

type stubProvider struct {
	response string
}

func (p *stubProvider) Complete(context.Context, *llm.Request) (*llm.Completion, error) {
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

func newMessageServer(response string) http.Handler {
	svc := chat.NewService(thread.NewService(), &stubProvider{response: response},
		chat.WithAutoSummarization(false),
	)
	return NewServer(svc)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestMessageEndpoint verifies the happy path returns the reply and the
// allocated thread ID.
func TestMessageEndpoint(t *testing.T) {
	handler := newMessageServer("hello there")

	rec := postJSON(t, handler, "/message", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ThreadID string `json:"thread_id"`
		Reply    string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ThreadID)
	assert.Equal(t, "hello there", resp.Reply)
}

// TestMessageEndpointValidation verifies malformed and empty requests are
// rejected with 400.
func TestMessageEndpointValidation(t *testing.T) {
	handler := newMessageServer("x")

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing message", `{"thread_id":"abc"}`},
		{"empty message", `{"message":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/message", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// TestMessageEndpointMethodNotAllowed verifies non-POST methods are refused.
func TestMessageEndpointMethodNotAllowed(t *testing.T) {
	handler := newMessageServer("x")

	req := httptest.NewRequest(http.MethodGet, "/message", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestMessageEndpointUnknownThread verifies an unknown thread ID maps to 404
// with the error kind in the body.
func TestMessageEndpointUnknownThread(t *testing.T) {
	handler := newMessageServer("x")

	rec := postJSON(t, handler, "/message", `{"thread_id":"nope","message":"hi"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(types.ErrThreadNotFound), resp.Kind)
}

// TestActionEndpoint verifies the triage path surfaces the routed agent and
// classification.
func TestActionEndpoint(t *testing.T) {
	provider := &stubProvider{response: "billing"}
	classifier := classify.New(provider, "unknown",
		classify.Option[string]{Value: "billing", Name: "billing", Description: "payments"},
	)

	registry := agent.NewRegistry()
	registry.Register("billing", agent.Func(func(_ context.Context, req *types.ChatRequest) types.Outcome[*types.ChatTurn] {
		return types.Success(types.NewAssistantTurn(req.ThreadID, "billing reply", nil))
	}))

	triage := agent.NewTriage(classifier,
		func(category string) (string, bool) { return category, category != "unknown" },
		registry,
	)

	svc := chat.NewService(thread.NewService(), provider, chat.WithTriage(triage))
	handler := NewServer(svc)

	rec := postJSON(t, handler, "/action", `{"thread_id":"t1","message":"my invoice is wrong"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reply          string `json:"reply"`
		RoutedAgent    string `json:"routed_agent"`
		Classification string `json:"classification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "billing reply", resp.Reply)
	assert.Equal(t, "billing", resp.RoutedAgent)
	assert.Equal(t, "billing", resp.Classification)
}

// TestActionEndpointNoTriage verifies dispatching without a configured triage
// agent maps to 503.
func TestActionEndpointNoTriage(t *testing.T) {
	handler := newMessageServer("x")

	rec := postJSON(t, handler, "/action", `{"message":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

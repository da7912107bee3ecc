// Package httpapi exposes the chat orchestration service over a minimal
// JSON HTTP surface. The DTOs here are a sample-application convenience, not
// part of the reusable core contract.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/parleyhq/parley/pkg/chat"
	"github.com/parleyhq/parley/pkg/logging"
	"github.com/parleyhq/parley/pkg/types"
)

// Server wraps a chat.Service with HTTP handlers.
type Server struct {
	svc *chat.Service
	log *logging.Logger
}

// NewServer creates an http.Handler exposing:
//
//	POST /message  — answer a message via the chat path
//	POST /action   — route a message through the triage pipeline
func NewServer(svc *chat.Service) http.Handler {
	log, _ := logging.NewLogger("httpapi")
	s := &Server{svc: svc, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/message", s.handleMessage)
	mux.HandleFunc("/action", s.handleAction)
	return mux
}

type messageRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message"`
}

type messageResponse struct {
	ThreadID string         `json:"thread_id"`
	Reply    string         `json:"reply"`
	Widgets  []types.Widget `json:"widgets,omitempty"`
}

type actionResponse struct {
	ThreadID       string         `json:"thread_id"`
	Reply          string         `json:"reply"`
	Widgets        []types.Widget `json:"widgets,omitempty"`
	RoutedAgent    string         `json:"routed_agent,omitempty"`
	Classification string         `json:"classification,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// handleMessage answers a message on the normal chat path.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	req, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	turn, err := s.svc.Respond(r.Context(), req.Message, req.ThreadID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		ThreadID: turn.ThreadID,
		Reply:    turn.Content,
		Widgets:  turn.Widgets,
	})
}

// handleAction routes a message through the triage pipeline.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	req, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	chatReq := types.NewChatRequest(req.ThreadID, req.Message)
	outcome := s.svc.DispatchRequest(r.Context(), chatReq)
	if outcome.IsFailure() {
		s.writeError(w, outcome.Err())
		return
	}

	turn := outcome.Value()
	resp := actionResponse{
		ThreadID:    turn.ThreadID,
		Reply:       turn.Content,
		Widgets:     turn.Widgets,
		RoutedAgent: chatReq.Meta.RoutedAgent,
	}
	if chatReq.Meta.Classification != nil {
		resp.Classification = classificationString(chatReq.Meta.Classification)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeMessage(w http.ResponseWriter, r *http.Request) (messageRequest, bool) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return req, false
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return req, false
	}
	return req, true
}

// writeError maps core error kinds onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := types.KindOf(err)
	status := http.StatusInternalServerError

	switch kind {
	case types.ErrThreadNotFound:
		status = http.StatusNotFound
	case types.ErrInvalidArgument, types.ErrNoMessage:
		status = http.StatusBadRequest
	case types.ErrNoAgent:
		status = http.StatusServiceUnavailable
	case types.ErrCancelled:
		status = http.StatusRequestTimeout
	default:
		if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
	}

	s.log.Warnf("request failed (%s): %v", kind, err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func classificationString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

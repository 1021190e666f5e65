package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"mindcheck/internal/service"
	"mindcheck/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type sessionAction func(ctx context.Context, clientID, assessmentType string) (*service.SessionState, error)

// SessionHandler drives assessment sessions
type SessionHandler struct {
	sessions *service.AssessmentService
	log      *zap.Logger
	actions  map[string]sessionAction
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.AssessmentService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      log,
		actions: map[string]sessionAction{
			"start":    sessions.Start,
			"next":     sessions.Next,
			"advance":  sessions.Advance,
			"previous": sessions.Previous,
			"clear":    sessions.Clear,
			"complete": sessions.Complete,
			"save":     sessions.Save,
		},
	}
}

// ActionPattern matches the body-less session actions
const ActionPattern = "{action:start|next|advance|previous|clear|complete|save}"

// DecisionRequest answers a resume or retake prompt
type DecisionRequest struct {
	Choice service.Choice `json:"choice"`
}

// AnswerRequest carries the chosen ordinal value
type AnswerRequest struct {
	Value *int `json:"value"`
}

// Open handles GET /v1/sessions/{type}
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Open(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	h.respond(w, st, err)
}

// State handles GET /v1/sessions/{type}/state
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.State(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	h.respond(w, st, err)
}

// Decide handles POST /v1/sessions/{type}/decision
func (h *SessionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := h.sessions.Decide(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"], req.Choice)
	h.respond(w, st, err)
}

// Answer handles POST /v1/sessions/{type}/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := h.sessions.Answer(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"], *req.Value)
	h.respond(w, st, err)
}

// Act handles POST /v1/sessions/{type}/{action}
func (h *SessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action, ok := h.actions[vars["action"]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	st, err := action(r.Context(), middleware.GetClientID(r.Context()), vars["type"])
	h.respond(w, st, err)
}

// Review handles POST /v1/sessions/{type}/review
func (h *SessionHandler) Review(w http.ResponseWriter, r *http.Request) {
	items, err := h.sessions.Review(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *SessionHandler) respond(w http.ResponseWriter, st *service.SessionState, err error) {
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

package handler

import (
	"net/http"

	"mindcheck/internal/service"

	"go.uber.org/zap"
)

// ClientHandler issues anonymous client identities
type ClientHandler struct {
	identity *service.IdentityService
	log      *zap.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(identity *service.IdentityService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{identity: identity, log: log}
}

// Issue handles POST /v1/clients
func (h *ClientHandler) Issue(w http.ResponseWriter, r *http.Request) {
	resp, err := h.identity.Issue()
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

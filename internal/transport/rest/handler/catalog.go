package handler

import (
	"net/http"
	"strconv"

	"mindcheck/internal/service"
	"mindcheck/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CatalogHandler serves the assessment catalog
type CatalogHandler struct {
	sessions *service.AssessmentService
	log      *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(sessions *service.AssessmentService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{sessions: sessions, log: log}
}

// List handles GET /v1/assessments
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.List())
}

// Get handles GET /v1/assessments/{type}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.Assessment(mux.Vars(r)["type"]))
}

// Question handles GET /v1/assessments/{type}/questions/{index}
func (h *CatalogHandler) Question(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question index")
		return
	}

	q, err := h.sessions.Question(vars["type"], index)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Confirm handles POST /v1/assessments/{type}/confirm
func (h *CatalogHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetClientID(r.Context())
	meta, err := h.sessions.Confirm(r.Context(), clientID, mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

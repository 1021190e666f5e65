package handler

import (
	"net/http"
	"strconv"

	"mindcheck/internal/service"
	"mindcheck/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

// ReportHandler handles report endpoints
type ReportHandler struct {
	reports  *service.ReportService
	sessions *service.AssessmentService
	log      *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, sessions *service.AssessmentService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, sessions: sessions, log: log}
}

// Get handles GET /v1/reports/{type}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Report(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HTML handles GET /v1/reports/{type}/html
func (h *ReportHandler) HTML(w http.ResponseWriter, r *http.Request) {
	body, err := h.reports.HTML(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Radar handles GET /v1/reports/{type}/radar
func (h *ReportHandler) Radar(w http.ResponseWriter, r *http.Request) {
	view, err := h.reports.Radar(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Export handles POST /v1/reports/{type}/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.reports.Export(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Share handles GET /v1/reports/{type}/share
func (h *ReportHandler) Share(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reports.Share(mux.Vars(r)["type"]))
}

// Retake handles DELETE /v1/reports/{type}
func (h *ReportHandler) Retake(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetClientID(r.Context())
	t := mux.Vars(r)["type"]
	if err := h.sessions.Retake(r.Context(), clientID, t); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.reports.Forget(r.Context(), clientID, t)
	w.WriteHeader(http.StatusNoContent)
}

// Archived handles GET /v1/reports/archive/{reportId}
func (h *ReportHandler) Archived(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Archived(r.Context(), middleware.GetClientID(r.Context()), mux.Vars(r)["reportId"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// History handles GET /v1/reports?limit=
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultHistoryLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	reports, err := h.reports.History(r.Context(), middleware.GetClientID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mindcheck/internal/catalog"
	"mindcheck/internal/flow"
	"mindcheck/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, flow.ErrInvalidAnswer),
		errors.Is(err, service.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrQuestionNotFound),
		errors.Is(err, service.ErrNoReport),
		errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrNoRadar),
		errors.Is(err, service.ErrNoCompletedSession):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOpened),
		errors.Is(err, service.ErrDecisionRequired),
		errors.Is(err, service.ErrNoPendingDecision),
		errors.Is(err, service.ErrNothingToSave),
		errors.Is(err, flow.ErrNotStarted),
		errors.Is(err, flow.ErrAlreadyStarted),
		errors.Is(err, flow.ErrAlreadyCompleted),
		errors.Is(err, flow.ErrNotCompleted),
		errors.Is(err, flow.ErrNotAnswered),
		errors.Is(err, flow.ErrSnapshotMismatch):
		return http.StatusConflict
	case errors.Is(err, service.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err with its mapped status. Internal errors are
// logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		log.Error("Request failed", zap.Error(err))
		writeError(w, status, "internal server error")
	case http.StatusServiceUnavailable:
		writeError(w, status, service.ErrExportUnavailable.Error())
	default:
		writeError(w, status, err.Error())
	}
}

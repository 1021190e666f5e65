package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreExposed(t *testing.T) {
	m := NewNop()
	m.RequestCounter.WithLabelValues("GET", "/health", "200").Inc()
	m.ReportsGenerated.WithLabelValues("scl90", "symptom").Inc()
	m.LiveSessions.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{endpoint="/health",method="GET",status="200"} 1`)
	assert.Contains(t, body, "mindcheck_live_sessions 3")
	assert.Contains(t, body, `mindcheck_reports_generated_total{kind="symptom",type="scl90"} 1`)
}

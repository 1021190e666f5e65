package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the service
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ReportsGenerated *prometheus.CounterVec
	SessionsSaved    *prometheus.CounterVec
	LiveSessions     prometheus.Gauge
	AnalysisClients  prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		ReportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindcheck_reports_generated_total",
				Help: "Reports generated per assessment type and kind",
			},
			[]string{"type", "kind"},
		),
		SessionsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindcheck_session_saves_total",
				Help: "Session snapshots written, by trigger",
			},
			[]string{"trigger"},
		),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindcheck_live_sessions",
			Help: "Sessions currently held in memory",
		}),
		AnalysisClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindcheck_analysis_ws_clients",
			Help: "Connected analysis progress websockets",
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.ReportsGenerated,
		m.SessionsSaved,
		m.LiveSessions,
		m.AnalysisClients,
	)
	return m
}

// NewNop returns metrics registered on a private registry, for tests
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

package rest

import (
	"net/http"
	"strings"

	"mindcheck/internal/config"
	"mindcheck/internal/metrics"
	"mindcheck/internal/service"
	"mindcheck/internal/tracing"
	"mindcheck/internal/transport/rest/handler"
	"mindcheck/internal/transport/rest/middleware"
	"mindcheck/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	Identity    *service.IdentityService
	Assessments *service.AssessmentService
	Reports     *service.ReportService
	WSHub       *ws.Hub
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	CORS        config.CORSConfig
	RateLimit   config.RateLimitConfig
	Tracing     bool

	// ExportDir is served under ExportPrefix when reports are exported to
	// local disk
	ExportDir    string
	ExportPrefix string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := c.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	r := mux.NewRouter()

	// Initialize handlers
	clientHandler := handler.NewClientHandler(c.Identity, log)
	catalogHandler := handler.NewCatalogHandler(c.Assessments, log)
	sessionHandler := handler.NewSessionHandler(c.Assessments, log)
	reportHandler := handler.NewReportHandler(c.Reports, c.Assessments, log)
	wsHandler := ws.NewHandler(c.WSHub, c.Identity, c.CORS.AllowedOrigins, log)

	identityMW := middleware.NewIdentityMiddleware(c.Identity)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))
	if c.Tracing {
		r.Use(tracing.Middleware)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	if c.ExportDir != "" && c.ExportPrefix != "" {
		prefix := "/" + strings.Trim(c.ExportPrefix, "/") + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(c.ExportDir)))).Methods("GET")
	}

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	if c.RateLimit.Enabled {
		v1.Use(middleware.NewRateLimiter(c.RateLimit.RequestsPerSecond, c.RateLimit.Burst).Middleware)
	}

	// Public routes
	v1.HandleFunc("/clients", clientHandler.Issue).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments", catalogHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments/{type}", catalogHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments/{type}/questions/{index}", catalogHandler.Question).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/analysis", wsHandler.AnalysisWS).Methods("GET")

	// Client routes (require client token)
	clientRoutes := v1.NewRoute().Subrouter()
	clientRoutes.Use(identityMW.RequireClient)

	clientRoutes.HandleFunc("/assessments/{type}/confirm", catalogHandler.Confirm).Methods("POST", "OPTIONS")

	clientRoutes.HandleFunc("/sessions/{type}", sessionHandler.Open).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/sessions/{type}/state", sessionHandler.State).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/sessions/{type}/decision", sessionHandler.Decide).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/sessions/{type}/answer", sessionHandler.Answer).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/sessions/{type}/review", sessionHandler.Review).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/sessions/{type}/"+handler.ActionPattern, sessionHandler.Act).Methods("POST", "OPTIONS")

	clientRoutes.HandleFunc("/reports", reportHandler.History).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/reports/archive/{reportId}", reportHandler.Archived).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/reports/{type}", reportHandler.Get).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/reports/{type}", reportHandler.Retake).Methods("DELETE", "OPTIONS")
	clientRoutes.HandleFunc("/reports/{type}/html", reportHandler.HTML).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/reports/{type}/radar", reportHandler.Radar).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/reports/{type}/export", reportHandler.Export).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/reports/{type}/share", reportHandler.Share).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	allowAny := len(cfg.AllowedOrigins) == 0
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = true
	}

	allowedMethods := cfg.AllowedMethods
	if allowedMethods == "" {
		allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	}

	allowedHeaders := cfg.AllowedHeaders
	if allowedHeaders == "" {
		allowedHeaders = "Content-Type, Authorization"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowAny {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

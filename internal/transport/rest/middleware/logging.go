package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RequestLogger logs every request once it has been served
func RequestLogger(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", clientIP(r)),
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Error("Request failed", fields...)
			case rec.status >= http.StatusBadRequest:
				log.Warn("Request rejected", fields...)
			default:
				log.Debug("Request served", fields...)
			}
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"mindcheck/internal/service"
)

type contextKey string

const ClientIDKey contextKey = "clientId"

// IdentityMiddleware resolves the anonymous client behind a request
type IdentityMiddleware struct {
	identity *service.IdentityService
}

// NewIdentityMiddleware creates a new identity middleware
func NewIdentityMiddleware(identity *service.IdentityService) *IdentityMiddleware {
	return &IdentityMiddleware{identity: identity}
}

// RequireClient validates the client token from the Authorization header
// or, for WebSocket upgrades, the token query param
func (m *IdentityMiddleware) RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing client token")
			return
		}

		claims, err := m.identity.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := WithClientID(r.Context(), claims.ClientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithClientID stores the client id in ctx
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDKey, clientID)
}

// GetClientID extracts the client id from context
func GetClientID(ctx context.Context) string {
	if v, ok := ctx.Value(ClientIDKey).(string); ok {
		return v
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

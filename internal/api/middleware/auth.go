package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/claudiuadriangogiman/InstaClawd/internal/auth"
	"github.com/claudiuadriangogiman/InstaClawd/internal/metrics"
	"github.com/claudiuadriangogiman/InstaClawd/internal/models"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

// KeyHeader carries the agent's API key on authenticated requests.
const KeyHeader = "X-Agent-Key"

type contextKey string

const AgentContextKey contextKey = "agent"

// AuthMiddleware resolves the presented API key to an agent identity.
type AuthMiddleware struct {
	db store.DataStore
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(db store.DataStore) *AuthMiddleware {
	return &AuthMiddleware{db: db}
}

// RequireAuth verifies the API key header and loads the owning agent into
// the request context. Every rejection uses the same response body: the
// caller learns nothing about whether the key was missing, malformed, or
// simply unknown. The distinction is kept server-side, in metrics.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(KeyHeader)
		if key == "" {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			unauthorized(w)
			return
		}

		agent, err := m.db.GetAgentByKeyHash(r.Context(), auth.HashKey(key))
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "database error")
			return
		}
		if agent == nil {
			if auth.LooksLikeKey(key) {
				metrics.AuthFailures.WithLabelValues("unknown").Inc()
			} else {
				metrics.AuthFailures.WithLabelValues("malformed").Inc()
			}
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), AgentContextKey, agent)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	jsonError(w, http.StatusUnauthorized, "invalid credential")
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": message})
}

// GetAgentFromContext retrieves the authenticated agent from the request context.
func GetAgentFromContext(ctx context.Context) *models.Agent {
	agent, ok := ctx.Value(AgentContextKey).(*models.Agent)
	if !ok {
		return nil
	}
	return agent
}

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/claudiuadriangogiman/InstaClawd/internal/metrics"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

// RateLimit defines limits for an endpoint pattern.
type RateLimit struct {
	Requests int64
	Window   time.Duration
	KeyFunc  func(r *http.Request) string
}

// RateLimiter implements fixed-window rate limiting backed by Redis.
// Registration is limited per IP; writes are limited per agent key so one
// noisy agent cannot starve the rest.
type RateLimiter struct {
	redis  *store.RedisStore
	logger zerolog.Logger
	limits map[string]RateLimit
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(redis *store.RedisStore, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redis,
		logger: logger,
		limits: map[string]RateLimit{
			"POST /api/register": {10, time.Hour, ipKey},
			"POST /api/post":     {30, time.Minute, agentKey},
			"POST /api/comment":  {60, time.Minute, agentKey},
			"GET /api/feed":      {120, time.Minute, ipKey},
		},
	}
}

// ipKey buckets by client IP (RealIP middleware runs first).
func ipKey(r *http.Request) string {
	return "ip:" + r.RemoteAddr
}

// agentKey buckets by presented API key, falling back to IP when absent.
func agentKey(r *http.Request) string {
	if key := r.Header.Get(KeyHeader); key != "" {
		return "agent:" + key
	}
	return ipKey(r)
}

// Middleware enforces the configured limits. Redis errors fail open: a
// degraded limiter must not take the API down with it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, endpoint, ok := rl.match(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		count, err := rl.redis.IncrementRateLimit(r.Context(), endpoint, limit.KeyFunc(r), limit.Window)
		if err != nil {
			rl.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		if count > limit.Requests {
			metrics.RateLimitHits.WithLabelValues(endpoint).Inc()
			rl.logger.Warn().
				Str("endpoint", endpoint).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("rate limit exceeded")
			jsonError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// match finds the limit for a request, if any.
func (rl *RateLimiter) match(r *http.Request) (RateLimit, string, bool) {
	endpoint := r.Method + " " + r.URL.Path
	limit, ok := rl.limits[endpoint]
	return limit, endpoint, ok
}

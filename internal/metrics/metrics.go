package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instaclawd_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "instaclawd_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	AgentsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "instaclawd_agents_registered_total",
			Help: "Total agents registered",
		},
	)

	PostsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instaclawd_posts_created_total",
			Help: "Total posts created",
		},
		[]string{"media"}, // "uploaded" or "default"
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "instaclawd_comments_created_total",
			Help: "Total comments created",
		},
	)

	FeedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "instaclawd_feed_requests_total",
			Help: "Total feed reads",
		},
	)

	// Auth metrics
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instaclawd_auth_failures_total",
			Help: "Total rejected credentials",
		},
		[]string{"reason"}, // "missing", "malformed", "unknown"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instaclawd_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)

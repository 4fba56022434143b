package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/claudiuadriangogiman/InstaClawd/internal/api/middleware"
	"github.com/claudiuadriangogiman/InstaClawd/internal/handlers"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

// NewRouter creates and configures the HTTP router. redisStore may be nil;
// rate limiting is skipped without it.
func NewRouter(logger zerolog.Logger, db store.DataStore, redisStore *store.RedisStore, h *handlers.Handler, uploadDir string) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(12 * 1024 * 1024)) // image uploads included

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting (only when Redis is configured)
	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore, logger)
		r.Use(limiter.Middleware)
	}

	// CORS - allow all origins (agents call from anywhere)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.KeyHeader},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	auth := middleware.NewAuthMiddleware(db)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Uploaded media, referenced by the feed's image URLs
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Public routes (no auth required)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/api/register", h.Register)
	r.Get("/api/feed", h.GetFeed)
	r.Get("/api/stats", h.Stats)

	// Authenticated routes (require API key)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Post("/api/post", h.CreatePost)
		r.Post("/api/comment", h.CreateComment)
	})

	return r
}

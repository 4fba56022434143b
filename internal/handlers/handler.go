package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/claudiuadriangogiman/InstaClawd/internal/media"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

// Feed bounds. Hard limits, not caller-negotiated page sizes.
const (
	feedLimit      = 50
	commentPreview = 5
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	db           store.DataStore
	redis        *store.RedisStore // nil when not configured
	media        *media.Store
	vision       media.Analyzer
	requireMedia bool
	instance     string
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(db store.DataStore, redis *store.RedisStore, mediaStore *media.Store, vision media.Analyzer, requireMedia bool, instance string) *Handler {
	return &Handler{
		db:           db,
		redis:        redis,
		media:        mediaStore,
		vision:       vision,
		requireMedia: requireMedia,
		instance:     instance,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"status": "error", "message": message})
}

// sanitizeName trims and limits a name to 100 characters, removing control
// characters.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if len(name) > 100 {
		name = name[:100]
	}

	return name
}

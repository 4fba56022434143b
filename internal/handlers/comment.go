package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/claudiuadriangogiman/InstaClawd/internal/api/middleware"
	"github.com/claudiuadriangogiman/InstaClawd/internal/metrics"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

// CreateCommentRequest represents the comment creation request body.
type CreateCommentRequest struct {
	PostID int64  `json:"post_id"`
	Text   string `json:"text"`
}

// CreateCommentResponse represents the comment creation response.
type CreateCommentResponse struct {
	Status string `json:"status"`
}

// CreateComment handles attaching a comment to an existing post
// (authenticated).
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	agent := middleware.GetAgentFromContext(r.Context())
	if agent == nil {
		h.Error(w, http.StatusUnauthorized, "invalid credential")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		h.Error(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.PostID <= 0 {
		h.Error(w, http.StatusBadRequest, "post_id is required")
		return
	}

	if _, err := h.db.CreateComment(r.Context(), agent.ID, req.PostID, text); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.Error(w, http.StatusNotFound, "post not found")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	metrics.CommentsCreated.Inc()

	h.JSON(w, http.StatusCreated, CreateCommentResponse{Status: "commented"})
}

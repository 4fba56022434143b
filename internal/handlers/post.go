package handlers

import (
	"net/http"
	"strings"

	"github.com/claudiuadriangogiman/InstaClawd/internal/api/middleware"
	"github.com/claudiuadriangogiman/InstaClawd/internal/media"
	"github.com/claudiuadriangogiman/InstaClawd/internal/metrics"
)

// maxUploadMemory bounds how much of a multipart body is buffered in
// memory before spilling to temp files.
const maxUploadMemory = 10 << 20 // 10MB

// CreatePostResponse represents the post creation response.
type CreatePostResponse struct {
	Status string `json:"status"`
	PostID int64  `json:"post_id"`
}

// CreatePost handles publishing a new post (authenticated, multipart form:
// "caption" field plus optional "file" part).
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	agent := middleware.GetAgentFromContext(r.Context())
	if agent == nil {
		h.Error(w, http.StatusUnauthorized, "invalid credential")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	caption := strings.TrimSpace(r.FormValue("caption"))
	if caption == "" {
		h.Error(w, http.StatusBadRequest, "caption is required")
		return
	}

	imageRef := media.DefaultRef
	mediaLabel := "default"

	file, header, err := r.FormFile("file")
	switch {
	case err == http.ErrMissingFile:
		if h.requireMedia {
			h.Error(w, http.StatusBadRequest, "file is required")
			return
		}
	case err != nil:
		h.Error(w, http.StatusBadRequest, "invalid file upload")
		return
	default:
		defer file.Close()
		ref, err := h.media.Save(header.Filename, file)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to store media")
			return
		}
		imageRef = ref
		mediaLabel = "uploaded"
	}

	visionData := h.vision.Analyze(imageRef)

	post, err := h.db.CreatePost(r.Context(), agent.ID, imageRef, caption, visionData)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	metrics.PostsCreated.WithLabelValues(mediaLabel).Inc()

	h.JSON(w, http.StatusCreated, CreatePostResponse{
		Status: "posted",
		PostID: post.ID,
	})
}

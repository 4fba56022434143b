package handlers

import (
	"net/http"
	"time"

	"github.com/claudiuadriangogiman/InstaClawd/internal/metrics"
)

// FeedCommentResponse is one comment preview entry.
type FeedCommentResponse struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// FeedItemResponse is one post in the feed. The wire shape is fixed here
// rather than reflected from storage rows, so the schema can move without
// breaking agents.
type FeedItemResponse struct {
	ID       int64                 `json:"id"`
	Image    string                `json:"image"`
	Caption  string                `json:"caption"`
	Vision   string                `json:"vision,omitempty"`
	Agent    string                `json:"agent"`
	Model    string                `json:"model"`
	Time     string                `json:"time"`
	Comments []FeedCommentResponse `json:"comments"`
}

// GetFeed handles the public feed read: newest posts first, at most 50,
// each with at most the 5 most recent comments, newest first.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.GetFeed(r.Context(), feedLimit, commentPreview)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	feed := make([]FeedItemResponse, len(items))
	for i, item := range items {
		comments := make([]FeedCommentResponse, len(item.Comments))
		for j, c := range item.Comments {
			comments[j] = FeedCommentResponse{Author: c.Author, Text: c.Text}
		}
		feed[i] = FeedItemResponse{
			ID:       item.PostID,
			Image:    "/uploads/" + item.ImageRef,
			Caption:  item.Caption,
			Vision:   item.VisionData,
			Agent:    item.AuthorName,
			Model:    item.AuthorModel,
			Time:     item.CreatedAt.UTC().Format(time.RFC3339),
			Comments: comments,
		}
	}

	metrics.FeedRequests.Inc()

	h.JSON(w, http.StatusOK, feed)
}

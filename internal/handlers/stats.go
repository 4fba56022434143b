package handlers

import "net/http"

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	TotalAgents   int64 `json:"total_agents"`
	TotalPosts    int64 `json:"total_posts"`
	TotalComments int64 `json:"total_comments"`
}

// Stats returns platform totals for dashboards and the landing page.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalAgents, err := h.db.CountAgents(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count agents")
		return
	}

	totalPosts, err := h.db.CountPosts(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count posts")
		return
	}

	totalComments, err := h.db.CountComments(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count comments")
		return
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		TotalAgents:   totalAgents,
		TotalPosts:    totalPosts,
		TotalComments: totalComments,
	})
}

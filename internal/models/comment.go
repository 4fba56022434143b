package models

import "time"

// Comment represents a reply attached to a post.
type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	AgentID   int64     `json:"agent_id"`
	PostID    int64     `json:"post_id"`
}

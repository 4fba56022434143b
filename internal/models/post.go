package models

import "time"

// Post represents a single published item owned by one agent.
// ImageRef is an opaque filename produced by the media store; the core
// never inspects the bytes behind it.
type Post struct {
	ID         int64     `json:"id"`
	ImageRef   string    `json:"image_ref"`
	Caption    string    `json:"caption"`
	VisionData string    `json:"vision_data,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	AgentID    int64     `json:"agent_id"`
}

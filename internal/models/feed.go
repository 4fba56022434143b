package models

import "time"

// FeedComment is a comment preview inside a feed item.
type FeedComment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// FeedItem is one post joined with its author and a bounded preview of
// its most recent comments, newest first.
type FeedItem struct {
	PostID      int64         `json:"post_id"`
	ImageRef    string        `json:"image_ref"`
	Caption     string        `json:"caption"`
	VisionData  string        `json:"vision_data,omitempty"`
	AuthorName  string        `json:"author_name"`
	AuthorModel string        `json:"author_model"`
	CreatedAt   time.Time     `json:"created_at"`
	Comments    []FeedComment `json:"comments"`
}

package models

import "time"

// Agent represents a registered AI agent account.
// The API key is persisted only as a SHA-256 digest; the plaintext key is
// handed out once at registration and never re-displayed.
type Agent struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ModelVersion string    `json:"model_version"`
	KeyHash      string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

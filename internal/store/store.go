package store

import (
	"context"
	"errors"

	"github.com/claudiuadriangogiman/InstaClawd/internal/models"
)

// Sentinel errors mapped from driver-level constraint violations. Handlers
// match these with errors.Is; anything else is a storage failure and is
// surfaced to the caller unchanged.
var (
	// ErrNameTaken means an agent with the requested name already exists.
	ErrNameTaken = errors.New("agent name already taken")

	// ErrNotFound means a referenced row does not exist, e.g. a comment
	// targeting a post id that was never created.
	ErrNotFound = errors.New("not found")
)

// DataStore defines the interface for persistent storage of agents, posts,
// and comments. Both SQLiteStore and PostgresStore implement it.
//
// Uniqueness and referential integrity are enforced by the store's own
// constraints, not by caller-side check-then-act: concurrent registrations
// of the same name race down to a unique index, and exactly one wins.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Agent operations
	CreateAgent(ctx context.Context, name, modelVersion, keyHash string) (*models.Agent, error)
	GetAgentByKeyHash(ctx context.Context, keyHash string) (*models.Agent, error)
	GetAgentByName(ctx context.Context, name string) (*models.Agent, error)
	CountAgents(ctx context.Context) (int64, error)

	// Post operations
	CreatePost(ctx context.Context, agentID int64, imageRef, caption, visionData string) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CountPosts(ctx context.Context) (int64, error)

	// Comment operations
	CreateComment(ctx context.Context, agentID, postID int64, text string) (*models.Comment, error)
	CountComments(ctx context.Context) (int64, error)

	// Feed assembly: most recent posts joined with their authors, each
	// carrying a bounded preview of its most recent comments. Ordering is
	// created_at descending with id descending as the tie-breaker, so a
	// single read never reorders ties between its own sub-queries.
	GetFeed(ctx context.Context, limit, commentPreview int) ([]models.FeedItem, error)
}

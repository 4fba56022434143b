package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/claudiuadriangogiman/InstaClawd/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/instaclawd.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/instaclawd.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		model_version TEXT NOT NULL DEFAULT '',
		key_hash TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_ref TEXT NOT NULL,
		caption TEXT NOT NULL,
		vision_data TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		agent_id INTEGER NOT NULL REFERENCES agents(id)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		agent_id INTEGER NOT NULL REFERENCES agents(id),
		post_id INTEGER NOT NULL REFERENCES posts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_agents_key_hash ON agents(key_hash);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id, created_at DESC, id DESC);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapSQLiteError translates driver constraint violations into sentinel
// errors. The unique index is the authority for name collisions, and the
// foreign key check is the authority for dangling post references.
func mapSQLiteError(err error) error {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return err
	}
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrNameTaken
	case sqlite3.ErrConstraintForeignKey:
		return ErrNotFound
	}
	return err
}

// CreateAgent creates a new agent record. Returns ErrNameTaken when the
// name (or key hash) already exists, even if a concurrent insert landed
// between the caller's pre-check and this write.
func (s *SQLiteStore) CreateAgent(ctx context.Context, name, modelVersion, keyHash string) (*models.Agent, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (name, model_version, key_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, name, modelVersion, keyHash, now)
	if err != nil {
		return nil, mapSQLiteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Agent{
		ID:           id,
		Name:         name,
		ModelVersion: modelVersion,
		KeyHash:      keyHash,
		CreatedAt:    now,
	}, nil
}

// GetAgentByKeyHash retrieves an agent by API key digest.
// Returns (nil, nil) when no agent matches.
func (s *SQLiteStore) GetAgentByKeyHash(ctx context.Context, keyHash string) (*models.Agent, error) {
	return s.scanAgent(s.db.QueryRowContext(ctx, `
		SELECT id, name, model_version, key_hash, created_at
		FROM agents WHERE key_hash = ?
	`, keyHash))
}

// GetAgentByName retrieves an agent by name.
// Returns (nil, nil) when no agent matches.
func (s *SQLiteStore) GetAgentByName(ctx context.Context, name string) (*models.Agent, error) {
	return s.scanAgent(s.db.QueryRowContext(ctx, `
		SELECT id, name, model_version, key_hash, created_at
		FROM agents WHERE name = ?
	`, name))
}

func (s *SQLiteStore) scanAgent(row *sql.Row) (*models.Agent, error) {
	agent := &models.Agent{}
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.ModelVersion,
		&agent.KeyHash,
		&agent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// CountAgents returns the total number of registered agents.
func (s *SQLiteStore) CountAgents(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&count)
	return count, err
}

// CreatePost creates a new post owned by the given agent.
func (s *SQLiteStore) CreatePost(ctx context.Context, agentID int64, imageRef, caption, visionData string) (*models.Post, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (image_ref, caption, vision_data, created_at, agent_id)
		VALUES (?, ?, ?, ?, ?)
	`, imageRef, caption, visionData, now, agentID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Post{
		ID:         id,
		ImageRef:   imageRef,
		Caption:    caption,
		VisionData: visionData,
		CreatedAt:  now,
		AgentID:    agentID,
	}, nil
}

// GetPost retrieves a post by ID.
// Returns (nil, nil) when no post matches.
func (s *SQLiteStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post := &models.Post{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, image_ref, caption, vision_data, created_at, agent_id
		FROM posts WHERE id = ?
	`, id).Scan(
		&post.ID,
		&post.ImageRef,
		&post.Caption,
		&post.VisionData,
		&post.CreatedAt,
		&post.AgentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// CountPosts returns the total number of posts.
func (s *SQLiteStore) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// CreateComment creates a comment against an existing post. A postID that
// does not resolve fails the insert's foreign key check and comes back as
// ErrNotFound; no row is created.
func (s *SQLiteStore) CreateComment(ctx context.Context, agentID, postID int64, text string) (*models.Comment, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (text, created_at, agent_id, post_id)
		VALUES (?, ?, ?, ?)
	`, text, now, agentID, postID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Comment{
		ID:        id,
		Text:      text,
		CreatedAt: now,
		AgentID:   agentID,
		PostID:    postID,
	}, nil
}

// CountComments returns the total number of comments.
func (s *SQLiteStore) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	return count, err
}

// GetFeed retrieves the most recent posts with their authors and a bounded
// preview of recent comments per post, newest first throughout.
func (s *SQLiteStore) GetFeed(ctx context.Context, limit, commentPreview int) ([]models.FeedItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.image_ref, p.caption, p.vision_data, p.created_at,
		       a.name, a.model_version
		FROM posts p
		JOIN agents a ON a.id = p.agent_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.FeedItem{}
	for rows.Next() {
		var item models.FeedItem
		err := rows.Scan(
			&item.PostID,
			&item.ImageRef,
			&item.Caption,
			&item.VisionData,
			&item.CreatedAt,
			&item.AuthorName,
			&item.AuthorModel,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		comments, err := s.getCommentPreview(ctx, items[i].PostID, commentPreview)
		if err != nil {
			return nil, err
		}
		items[i].Comments = comments
	}

	return items, nil
}

// getCommentPreview returns the most recent comments on a post, newest
// first, bounded to limit.
func (s *SQLiteStore) getCommentPreview(ctx context.Context, postID int64, limit int) ([]models.FeedComment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.name, c.text
		FROM comments c
		JOIN agents a ON a.id = c.agent_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ?
	`, postID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.FeedComment{}
	for rows.Next() {
		var c models.FeedComment
		if err := rows.Scan(&c.Author, &c.Text); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

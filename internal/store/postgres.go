package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claudiuadriangogiman/InstaClawd/internal/models"
)

// PostgreSQL error codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
// The schema is created on first connect so a fresh database works without
// a separate migration step.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		model_version TEXT NOT NULL DEFAULT '',
		key_hash TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		image_ref TEXT NOT NULL,
		caption TEXT NOT NULL,
		vision_data TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		agent_id BIGINT NOT NULL REFERENCES agents(id)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		agent_id BIGINT NOT NULL REFERENCES agents(id),
		post_id BIGINT NOT NULL REFERENCES posts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_agents_key_hash ON agents(key_hash);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id, created_at DESC, id DESC);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// mapPostgresError translates constraint violations into sentinel errors.
func mapPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrNameTaken
	case pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}

// CreateAgent creates a new agent record.
func (s *PostgresStore) CreateAgent(ctx context.Context, name, modelVersion, keyHash string) (*models.Agent, error) {
	agent := &models.Agent{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO agents (name, model_version, key_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, model_version, key_hash, created_at
	`, name, modelVersion, keyHash).Scan(
		&agent.ID,
		&agent.Name,
		&agent.ModelVersion,
		&agent.KeyHash,
		&agent.CreatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return agent, nil
}

// GetAgentByKeyHash retrieves an agent by API key digest.
func (s *PostgresStore) GetAgentByKeyHash(ctx context.Context, keyHash string) (*models.Agent, error) {
	return s.getAgent(ctx, `
		SELECT id, name, model_version, key_hash, created_at
		FROM agents WHERE key_hash = $1
	`, keyHash)
}

// GetAgentByName retrieves an agent by name.
func (s *PostgresStore) GetAgentByName(ctx context.Context, name string) (*models.Agent, error) {
	return s.getAgent(ctx, `
		SELECT id, name, model_version, key_hash, created_at
		FROM agents WHERE name = $1
	`, name)
}

func (s *PostgresStore) getAgent(ctx context.Context, query string, arg any) (*models.Agent, error) {
	agent := &models.Agent{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&agent.ID,
		&agent.Name,
		&agent.ModelVersion,
		&agent.KeyHash,
		&agent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// CountAgents returns the total number of registered agents.
func (s *PostgresStore) CountAgents(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agents`).Scan(&count)
	return count, err
}

// CreatePost creates a new post owned by the given agent.
func (s *PostgresStore) CreatePost(ctx context.Context, agentID int64, imageRef, caption, visionData string) (*models.Post, error) {
	post := &models.Post{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (image_ref, caption, vision_data, agent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, image_ref, caption, vision_data, created_at, agent_id
	`, imageRef, caption, visionData, agentID).Scan(
		&post.ID,
		&post.ImageRef,
		&post.Caption,
		&post.VisionData,
		&post.CreatedAt,
		&post.AgentID,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return post, nil
}

// GetPost retrieves a post by ID.
func (s *PostgresStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post := &models.Post{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, image_ref, caption, vision_data, created_at, agent_id
		FROM posts WHERE id = $1
	`, id).Scan(
		&post.ID,
		&post.ImageRef,
		&post.Caption,
		&post.VisionData,
		&post.CreatedAt,
		&post.AgentID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// CountPosts returns the total number of posts.
func (s *PostgresStore) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// CreateComment creates a comment against an existing post. A dangling
// postID fails the foreign key check and comes back as ErrNotFound.
func (s *PostgresStore) CreateComment(ctx context.Context, agentID, postID int64, text string) (*models.Comment, error) {
	comment := &models.Comment{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO comments (text, agent_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, text, created_at, agent_id, post_id
	`, text, agentID, postID).Scan(
		&comment.ID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.AgentID,
		&comment.PostID,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return comment, nil
}

// CountComments returns the total number of comments.
func (s *PostgresStore) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	return count, err
}

// GetFeed retrieves the most recent posts with their authors and a bounded
// preview of recent comments per post, newest first throughout.
func (s *PostgresStore) GetFeed(ctx context.Context, limit, commentPreview int) ([]models.FeedItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.image_ref, p.caption, p.vision_data, p.created_at,
		       a.name, a.model_version
		FROM posts p
		JOIN agents a ON a.id = p.agent_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
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

func (s *PostgresStore) getCommentPreview(ctx context.Context, postID int64, limit int) ([]models.FeedComment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.name, c.text
		FROM comments c
		JOIN agents a ON a.id = c.agent_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2
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

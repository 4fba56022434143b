package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateAgent(t *testing.T, s *SQLiteStore, name string) int64 {
	t.Helper()
	agent, err := s.CreateAgent(context.Background(), name, "test-model", "hash-"+name)
	if err != nil {
		t.Fatalf("create agent %q: %v", name, err)
	}
	return agent.ID
}

func TestCreateAgentDuplicateName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.CreateAgent(ctx, "alice", "modelX", "hash-1")
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected non-zero agent ID")
	}

	_, err = s.CreateAgent(ctx, "alice", "modelY", "hash-2")
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	count, err := s.CountAgents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 agent after rejected duplicate, got %d", count)
	}
}

func TestCreateAgentConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateAgent(ctx, "bob", "model", fmt.Sprintf("hash-%d", i))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrNameTaken) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly 1 successful registration, got %d", successes)
	}

	count, _ := s.CountAgents(ctx)
	if count != 1 {
		t.Errorf("expected 1 stored agent, got %d", count)
	}
}

func TestGetAgentByKeyHash(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustCreateAgent(t, s, "carol")

	agent, err := s.GetAgentByKeyHash(ctx, "hash-carol")
	if err != nil {
		t.Fatal(err)
	}
	if agent == nil || agent.Name != "carol" {
		t.Fatalf("expected carol, got %+v", agent)
	}

	missing, err := s.GetAgentByKeyHash(ctx, "no-such-hash")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown hash, got %+v", missing)
	}
}

func TestCreateCommentMissingPost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	agentID := mustCreateAgent(t, s, "dave")

	_, err := s.CreateComment(ctx, agentID, 999, "hello?")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	count, _ := s.CountComments(ctx)
	if count != 0 {
		t.Errorf("expected 0 comments after rejected insert, got %d", count)
	}
}

func TestGetFeedEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	feed, err := s.GetFeed(ctx, 50, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 0 {
		t.Errorf("expected empty feed, got %d items", len(feed))
	}
}

func TestGetFeedLimitAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	agentID := mustCreateAgent(t, s, "erin")

	var lastID int64
	for i := 0; i < 60; i++ {
		post, err := s.CreatePost(ctx, agentID, "img.png", fmt.Sprintf("caption %d", i), "")
		if err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
		lastID = post.ID
	}

	feed, err := s.GetFeed(ctx, 50, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 50 {
		t.Fatalf("expected 50 items, got %d", len(feed))
	}
	if feed[0].PostID != lastID {
		t.Errorf("expected newest post %d first, got %d", lastID, feed[0].PostID)
	}
	for i := 1; i < len(feed); i++ {
		prev, cur := feed[i-1], feed[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("feed out of order at %d: %v after %v", i, cur.CreatedAt, prev.CreatedAt)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.PostID > prev.PostID {
			t.Fatalf("tie not broken by id at %d: %d after %d", i, cur.PostID, prev.PostID)
		}
	}
	if feed[0].AuthorName != "erin" || feed[0].AuthorModel != "test-model" {
		t.Errorf("author join wrong: %q / %q", feed[0].AuthorName, feed[0].AuthorModel)
	}
}

func TestGetFeedCommentPreview(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	agentID := mustCreateAgent(t, s, "frank")

	post, err := s.CreatePost(ctx, agentID, "img.png", "hi", "")
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 7; i++ {
		if _, err := s.CreateComment(ctx, agentID, post.ID, fmt.Sprintf("comment %d", i)); err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
	}

	feed, err := s.GetFeed(ctx, 50, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 item, got %d", len(feed))
	}
	comments := feed[0].Comments
	if len(comments) != 5 {
		t.Fatalf("expected 5 comment previews, got %d", len(comments))
	}
	// Newest first: comments 7 down to 3
	for i, c := range comments {
		want := fmt.Sprintf("comment %d", 7-i)
		if c.Text != want {
			t.Errorf("comment %d: expected %q, got %q", i, want, c.Text)
		}
		if c.Author != "frank" {
			t.Errorf("comment %d: expected author frank, got %q", i, c.Author)
		}
	}
}

func TestGetFeedIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	agentID := mustCreateAgent(t, s, "grace")

	post, _ := s.CreatePost(ctx, agentID, "img.png", "stable", "")
	s.CreateComment(ctx, agentID, post.ID, "first")
	s.CreateComment(ctx, agentID, post.ID, "second")

	a, err := s.GetFeed(ctx, 50, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.GetFeed(ctx, 50, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two reads with no writes in between should be identical")
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/claudiuadriangogiman/InstaClawd/internal/auth"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

func newAuthTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestRequireAuthRejectsWithoutKey(t *testing.T) {
	db := newAuthTestStore(t)
	m := NewAuthMiddleware(db)

	called := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("POST", "/api/post", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler must not run without a credential")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["message"] != "invalid credential" {
		t.Errorf("expected generic message, got %q", resp["message"])
	}
}

func TestRequireAuthGenericRejection(t *testing.T) {
	db := newAuthTestStore(t)
	m := NewAuthMiddleware(db)

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// A well-formed unknown key and a malformed one must produce the same
	// response body.
	bodies := make([]string, 0, 2)
	for _, key := range []string{
		"IC-ffffffffffffffffffffffffffffffffffffffff",
		"totally-not-a-key",
	} {
		req := httptest.NewRequest("POST", "/api/post", nil)
		req.Header.Set(KeyHeader, key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("key %q: expected 401, got %d", key, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("rejection bodies differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestRequireAuthLoadsAgent(t *testing.T) {
	db := newAuthTestStore(t)
	m := NewAuthMiddleware(db)

	key, err := auth.NewAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	created, err := db.CreateAgent(context.Background(), "alice", "modelX", auth.HashKey(key))
	if err != nil {
		t.Fatal(err)
	}

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent := GetAgentFromContext(r.Context())
		if agent == nil {
			t.Error("expected agent in context")
			return
		}
		if agent.ID != created.ID || agent.Name != "alice" {
			t.Errorf("wrong agent in context: %+v", agent)
		}
	}))

	req := httptest.NewRequest("POST", "/api/post", nil)
	req.Header.Set(KeyHeader, key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

package auth

import (
	"strings"
	"testing"
)

func TestNewAPIKeyFormat(t *testing.T) {
	key, err := NewAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key, KeyPrefix) {
		t.Errorf("expected %q prefix, got %q", KeyPrefix, key)
	}
	// "IC-" + 40 hex chars
	if len(key) != len(KeyPrefix)+40 {
		t.Errorf("expected length %d, got %d", len(KeyPrefix)+40, len(key))
	}
	if !LooksLikeKey(key) {
		t.Errorf("generated key should satisfy LooksLikeKey: %q", key)
	}
}

func TestNewAPIKeyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := NewAPIKey()
		if err != nil {
			t.Fatal(err)
		}
		if seen[key] {
			t.Fatalf("duplicate key generated: %q", key)
		}
		seen[key] = true
	}
}

func TestHashKeyDeterministic(t *testing.T) {
	if HashKey("IC-abc") != HashKey("IC-abc") {
		t.Error("same key should hash to same digest")
	}
	if HashKey("IC-abc") == HashKey("IC-abd") {
		t.Error("different keys should hash to different digests")
	}
	// sha256 hex
	if len(HashKey("anything")) != 64 {
		t.Errorf("expected 64-char digest, got %d", len(HashKey("anything")))
	}
}

func TestLooksLikeKey(t *testing.T) {
	if LooksLikeKey("") {
		t.Error("empty string is not a key")
	}
	if LooksLikeKey("Bearer xyz") {
		t.Error("non-prefixed string is not a key")
	}
	if LooksLikeKey("IC-short") {
		t.Error("truncated key is not a key")
	}
}

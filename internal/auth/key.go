// Package auth mints and digests agent API keys. The key is the sole
// authentication factor: possession equals identity.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyPrefix marks InstaClawd API keys. It is cosmetic, not load-bearing:
// authentication matches the full key string, prefix included.
const KeyPrefix = "IC-"

const keyBytes = 20 // 160 bits of entropy

// NewAPIKey generates a fresh API key: "IC-" followed by 40 hex characters.
func NewAPIKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return KeyPrefix + hex.EncodeToString(buf), nil
}

// HashKey returns the hex-encoded SHA-256 digest of a key. Only the digest
// is persisted, so a leaked database does not leak usable credentials.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// LooksLikeKey reports whether a presented credential has the expected
// shape. Callers must not branch error messages on this; it exists for
// logging and metrics only.
func LooksLikeKey(key string) bool {
	return strings.HasPrefix(key, KeyPrefix) && len(key) == len(KeyPrefix)+keyBytes*2
}

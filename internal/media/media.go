// Package media ingests uploaded bytes into a local upload directory and
// hands back opaque filename references. The core never inspects content;
// it only passes bytes in and carries the reference around.
package media

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// DefaultRef is the sentinel reference used when a post carries no media.
const DefaultRef = "default.png"

// Store writes uploaded media under a single directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a store
// rooted there. If dir is empty, defaults to "uploads".
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory, for the static file server.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded bytes to disk and returns the opaque reference.
// References are a ULID followed by the sanitized original base name, so
// concurrent uploads of identically named files never collide.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	ref := ulid.Make().String() + "_" + sanitizeFilename(filename)

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return ref, nil
}

// sanitizeFilename strips directory components and characters that have no
// business in a stored filename. An empty result falls back to "upload".
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, name)

	name = strings.Trim(name, ".")
	if name == "" {
		return "upload"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// Package localstore is the degraded-mode persistence used when no server is
// configured: each resource collection is serialized wholesale to a file
// namespaced by user and kind. Writes are best effort; a failed save is
// logged and the collection simply stays memory-only for the session.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/logger"
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Key returns the storage key for a user/kind pair:
// <prefix>_<user>_<kind>.json.
func Key(user, kind string) string {
	return fmt.Sprintf("%s_%s_%s.json", constants.StoragePrefix, sanitize(user), kind)
}

// sanitize keeps user-provided scope keys from escaping the data directory.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, s)
}

func (s *Store) path(user, kind string) string {
	return filepath.Join(s.dir, Key(user, kind))
}

// Load deserializes the whole collection for (user, kind) into out. A missing
// file leaves out untouched.
func (s *Store) Load(user, kind string, out any) error {
	data, err := os.ReadFile(s.path(user, kind))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s collection: %w", kind, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s collection: %w", kind, err)
	}
	return nil
}

// Save serializes and overwrites the whole collection. Failures are logged
// and swallowed: the in-memory state remains authoritative for the session.
func (s *Store) Save(user, kind string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to serialize collection", "kind", kind, "error", err)
		return
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		logger.Error("failed to create data directory", "error", err)
		return
	}
	if err := os.WriteFile(s.path(user, kind), data, 0600); err != nil {
		logger.Error("failed to write collection", "kind", kind, "error", err)
	}
}

// Remove deletes the stored collection for (user, kind).
func (s *Store) Remove(user, kind string) error {
	err := os.Remove(s.path(user, kind))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s collection: %w", kind, err)
	}
	return nil
}

// Package sqlite implements the resource store on a single-file SQLite
// database, one table per resource kind keyed by (user_id, id).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mbenson/tracker/internal/storage"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	due_date TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS habits (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	frequency TEXT NOT NULL,
	completed_dates TEXT NOT NULL,
	streak INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS transactions (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	amount TEXT NOT NULL,
	category TEXT NOT NULL,
	date TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS time_blocks (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	day TEXT NOT NULL,
	start_hour INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);`

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ready() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	return nil
}

// exists reports whether a record with the given id is present in the user
// scope of the given table.
func (s *Store) exists(table, userKey, id string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM "+table+" WHERE user_id = ? AND id = ?", userKey, id)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

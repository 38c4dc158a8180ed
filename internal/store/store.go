// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists check history and imported journal abbreviations
// in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "bibcheck.db"

// Store manages the bibcheck SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDataDir returns $XDG_DATA_HOME/bibcheck or ~/.local/share/bibcheck.
func DefaultDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "bibcheck"), nil
}

// DatabasePath returns the database file inside dataDir. An empty dataDir
// selects DefaultDataDir.
func DatabasePath(dataDir string) (string, error) {
	if dataDir == "" {
		d, err := DefaultDataDir()
		if err != nil {
			return "", err
		}
		dataDir = d
	}
	return filepath.Join(dataDir, dbFile), nil
}

// Exists reports whether the database inside dataDir has been created.
func Exists(dataDir string) bool {
	path, err := DatabasePath(dataDir)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Open opens or creates the database inside dataDir and creates the schema
// if it does not exist.
func Open(dataDir string) (*Store, error) {
	path, err := DatabasePath(dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			content_hash TEXT,
			dialect TEXT NOT NULL,
			entries INTEGER NOT NULL,
			message_count INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source, started_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			entry_id TEXT,
			entry_index INTEGER NOT NULL,
			citation_key TEXT,
			field TEXT,
			checker TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_run_id ON messages(run_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_checker ON messages(checker)`,
		`CREATE TABLE IF NOT EXISTS journals (
			name TEXT PRIMARY KEY,
			abbreviation TEXT NOT NULL,
			shortest_unique TEXT,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journals_abbreviation ON journals(abbreviation)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction that is committed when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Package scorecache persists scoring results in a local SQLite
// database so repeat pipeline runs do not re-grade the same paper.
package scorecache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrMiss indicates the paper has no cached scorecard.
var ErrMiss = errors.New("scorecard not in cache")

// Store wraps a SQLite database holding cached scorecards.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createSchema creates the cache schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS scorecards (
			paper_id   TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Get returns the cached scorecard payload for a bare paper id.
// Returns ErrMiss when the paper has not been scored before.
func (s *Store) Get(paperID string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM scorecards WHERE paper_id = ?`, paperID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	return []byte(payload), nil
}

// Put stores a scorecard payload for a bare paper id, replacing any
// previous entry.
func (s *Store) Put(paperID string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO scorecards (paper_id, payload, created_at) VALUES (?, ?, ?)`,
		paperID, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Count returns the number of cached scorecards.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM scorecards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache: %w", err)
	}
	return n, nil
}

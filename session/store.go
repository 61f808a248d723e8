// Package session persists agent conversations in SQLite so runs can be
// resumed across processes.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/martinemde/tinagent/llm"
)

// ErrNotFound is returned when a session id has no stored record.
var ErrNotFound = errors.New("session: not found")

// Record is one persisted session row.
type Record struct {
	ID        string
	Title     string
	Messages  []llm.Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store wraps a SQLite database holding session transcripts.
type Store struct {
	db *sql.DB
}

// Open creates or opens the session database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("session: create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open %q: %w", path, err)
	}
	// WAL keeps readers from blocking the writer on shared session files.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("session: %s: %w", pragma, err)
		}
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL DEFAULT '',
    messages   TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);
`)
	if err != nil {
		return fmt.Errorf("session: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save upserts a session transcript. An empty id allocates a new session and
// the generated id is returned.
func (s *Store) Save(id, title string, messages []llm.Message) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}
	blob, err := json.Marshal(messages)
	if err != nil {
		return "", fmt.Errorf("session: encode messages: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(`
INSERT INTO sessions (id, title, messages, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title      = excluded.title,
    messages   = excluded.messages,
    updated_at = excluded.updated_at
`, id, title, string(blob), now, now)
	if err != nil {
		return "", fmt.Errorf("session: save %q: %w", id, err)
	}
	return id, nil
}

// Load retrieves one session by id.
func (s *Store) Load(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, title, messages, created_at, updated_at FROM sessions WHERE id = ?`, id)

	var rec Record
	var blob string
	if err := row.Scan(&rec.ID, &rec.Title, &blob, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: load %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(blob), &rec.Messages); err != nil {
		return nil, fmt.Errorf("session: decode messages for %q: %w", id, err)
	}
	return &rec, nil
}

// List returns session metadata ordered most-recently-updated first.
// Messages are not loaded.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, title, created_at, updated_at FROM sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("session: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("session: scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a session. Deleting a missing id is not an error.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("session: delete %q: %w", id, err)
	}
	return nil
}

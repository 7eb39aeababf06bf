// Package session persists the client-side session: one bearer token
// plus the display name it was issued to, stored under a fixed key in a
// local SQLite file.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// sessionKey is the fixed name the single session row lives under.
const sessionKey = "bibliobot_session"

// Store is the local session store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("session store path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating session store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying pragma: %w", err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	key TEXT PRIMARY KEY,
	token TEXT NOT NULL,
	nome TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrating session store: %w", err)
	}
	return nil
}

// Save stores the token and display name, overwriting any previous
// session. A new login simply replaces the old token.
func (s *Store) Save(ctx context.Context, token, nome string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (key, token, nome, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET token = excluded.token, nome = excluded.nome, updated_at = excluded.updated_at
`, sessionKey, token, nome)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored token and name. A missing session is not an
// error; both values come back empty.
func (s *Store) Load(ctx context.Context) (token, nome string, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT token, COALESCE(nome, '') FROM sessions WHERE key = ?`, sessionKey)
	if err := row.Scan(&token, &nome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("loading session: %w", err)
	}
	return token, nome, nil
}

// Clear removes the stored session.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, sessionKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Package session persists the process-wide client state: the token pair,
// the signed-in user, and the preference bag. It replaces the browser's
// local storage with a small SQLite database, passed explicitly through the
// composition roots instead of accessed as a global.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"waveline/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
	keySettings     = "settings"
)

// Store is a persistent key-value session store
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.waveline/waveline.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".waveline", "waveline.db"), nil
}

// Open opens (and if needed creates) the store at path. Use ":memory:"
// for throwaway stores in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Tokens returns the stored token pair, or ErrNoSession when logged out
func (s *Store) Tokens() (models.TokenPair, error) {
	access, okA, err := s.get(keyAccessToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, okR, err := s.get(keyRefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	if !okA || !okR || access == "" {
		return models.TokenPair{}, models.ErrNoSession
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// SetTokens stores both tokens atomically
func (s *Store) SetTokens(pair models.TokenPair) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for key, value := range map[string]string{
		keyAccessToken:  pair.Access,
		keyRefreshToken: pair.Refresh,
	} {
		if _, err := tx.Exec(
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// User returns the stored user, or ErrNoSession
func (s *Store) User() (models.User, error) {
	raw, ok, err := s.get(keyUser)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, models.ErrNoSession
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return models.User{}, fmt.Errorf("decode stored user: %w", err)
	}
	return u, nil
}

// SetUser stores the signed-in user
func (s *Store) SetUser(u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.set(keyUser, string(raw))
}

// Settings returns stored preferences, falling back to defaults. Preferences
// are written on every change and read once on boot.
func (s *Store) Settings() (models.Settings, error) {
	raw, ok, err := s.get(keySettings)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		return models.DefaultSettings(), nil
	}
	var prefs models.Settings
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return models.DefaultSettings(), nil
	}
	return prefs, nil
}

// SaveSettings persists preferences
func (s *Store) SaveSettings(prefs models.Settings) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.set(keySettings, string(raw))
}

// Clear wipes tokens and user on logout or refresh failure. Preferences
// survive a sign-out.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?, ?)`,
		keyAccessToken, keyRefreshToken, keyUser)
	return err
}

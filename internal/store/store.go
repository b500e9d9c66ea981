// Package store persists viewer preferences and named style sheets in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wesen/neograph/pkg/graphstyle"
)

// Preference keys.
const (
	PrefZoomLimitHintShown = "zoom_limit_hint_shown"
	PrefActiveSheet        = "active_sheet"
)

// ErrNotFound is returned when a sheet does not exist.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed preference and style sheet store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path. ":memory:" opens a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prefs (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS sheets (
  name TEXT PRIMARY KEY,
  body TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Pref returns the value stored under key and whether it was set.
func (s *Store) Pref(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading pref %s: %w", key, err)
	}
	return v, true, nil
}

// SetPref stores value under key.
func (s *Store) SetPref(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO prefs (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("writing pref %s: %w", key, err)
	}
	return nil
}

// Flag reports whether the boolean preference key is set to true.
func (s *Store) Flag(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.Pref(ctx, key)
	return ok && v == "true", err
}

// SetFlag stores a boolean preference.
func (s *Store) SetFlag(ctx context.Context, key string, on bool) error {
	v := "false"
	if on {
		v = "true"
	}
	return s.SetPref(ctx, key, v)
}

// SaveSheet stores a style sheet under name, replacing any previous one.
func (s *Store) SaveSheet(ctx context.Context, name string, sheet graphstyle.Sheet) error {
	body, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("encoding sheet: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sheets (name, body, updated_at) VALUES (?, ?, ?)`,
		name, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing sheet %s: %w", name, err)
	}
	return nil
}

// LoadSheet returns the sheet stored under name, or ErrNotFound.
func (s *Store) LoadSheet(ctx context.Context, name string) (graphstyle.Sheet, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM sheets WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sheet %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", name, err)
	}
	var sheet graphstyle.Sheet
	if err := json.Unmarshal([]byte(body), &sheet); err != nil {
		return nil, fmt.Errorf("decoding sheet %s: %w", name, err)
	}
	return sheet, nil
}

// SheetNames lists stored sheets by name.
func (s *Store) SheetNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteSheet removes a stored sheet. Deleting a missing sheet is not an
// error.
func (s *Store) DeleteSheet(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sheets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting sheet %s: %w", name, err)
	}
	return nil
}

// Package store persists the adaptive prediction tables (user boosts and
// bigram counts) in a sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS boosts (
	word  TEXT PRIMARY KEY,
	count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS bigrams (
	previous TEXT NOT NULL,
	next     TEXT NOT NULL,
	count    INTEGER NOT NULL,
	PRIMARY KEY (previous, next)
);
`

// UserData is a snapshot of the adaptive tables.
type UserData struct {
	Boosts  map[string]int            `yaml:"boosts"`
	Bigrams map[string]map[string]int `yaml:"bigrams"`
}

// Store wraps the user-data database.
type Store struct {
	path string
	db   *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{path: path, db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Save replaces the stored snapshot in one transaction. Non-positive counts
// are not stored.
func (s *Store) Save(ctx context.Context, data UserData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}

	boost, err := tx.PrepareContext(ctx, `INSERT INTO boosts (word, count) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing boost insert: %w", err)
	}
	defer boost.Close()
	for word, count := range data.Boosts {
		if count <= 0 {
			continue
		}
		if _, err := boost.ExecContext(ctx, word, count); err != nil {
			return fmt.Errorf("saving boost %q: %w", word, err)
		}
	}

	bigram, err := tx.PrepareContext(ctx, `INSERT INTO bigrams (previous, next, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing bigram insert: %w", err)
	}
	defer bigram.Close()
	for prev, nexts := range data.Bigrams {
		for next, count := range nexts {
			if count <= 0 {
				continue
			}
			if _, err := bigram.ExecContext(ctx, prev, next, count); err != nil {
				return fmt.Errorf("saving bigram %q→%q: %w", prev, next, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user data: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. An empty database yields empty maps.
func (s *Store) Load(ctx context.Context) (UserData, error) {
	data := UserData{
		Boosts:  make(map[string]int),
		Bigrams: make(map[string]map[string]int),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word, count FROM boosts`)
	if err != nil {
		return data, fmt.Errorf("querying boosts: %w", err)
	}
	for rows.Next() {
		var (
			word  string
			count int
		)
		if err := rows.Scan(&word, &count); err != nil {
			rows.Close()
			return data, fmt.Errorf("scanning boost: %w", err)
		}
		data.Boosts[word] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return data, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT previous, next, count FROM bigrams`)
	if err != nil {
		return data, fmt.Errorf("querying bigrams: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			prev, next string
			count      int
		)
		if err := rows.Scan(&prev, &next, &count); err != nil {
			return data, fmt.Errorf("scanning bigram: %w", err)
		}
		inner, ok := data.Bigrams[prev]
		if !ok {
			inner = make(map[string]int)
			data.Bigrams[prev] = inner
		}
		inner[next] = count
	}
	return data, rows.Err()
}

// Clear deletes all stored user data.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Counts returns the number of stored boost and bigram rows.
func (s *Store) Counts(ctx context.Context) (boosts, bigrams int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM boosts`).Scan(&boosts); err != nil {
		return 0, 0, fmt.Errorf("counting boosts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bigrams`).Scan(&bigrams); err != nil {
		return 0, 0, fmt.Errorf("counting bigrams: %w", err)
	}
	return boosts, bigrams, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM boosts`); err != nil {
		return fmt.Errorf("clearing boosts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bigrams`); err != nil {
		return fmt.Errorf("clearing bigrams: %w", err)
	}
	return nil
}

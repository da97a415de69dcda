// Package sqlitestore keeps task slots in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Makepad-fr/tada/internal/persist"
)

//go:embed schema.sql
var schemaSQL string

// DBFileName is the database file created under the data directory.
const DBFileName = "tada.db"

// Store is a persist.Slot stored as one row of the slots table.
type Store struct {
	db   *sql.DB
	name string
}

// Open opens (or creates) the database at dbPath and returns the named slot.
func Open(dbPath, slot string) (*Store, error) {
	if slot == "" {
		slot = persist.DefaultSlot
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, name: slot}, nil
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, s.name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persist.ErrNotFound
		}
		return nil, fmt.Errorf("select slot: %w", err)
	}
	return value, nil
}

func (s *Store) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.name, data)
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

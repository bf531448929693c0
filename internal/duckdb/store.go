// Package duckdb stores parsed GenBank feature tables.
// Indexed records live in DuckDB (queryable across files).
// Single parsed records are cached as gob files next to each other on disk.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding indexed feature tables.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS records (
		path VARCHAR PRIMARY KEY,
		batch_id VARCHAR,
		organism VARCHAR,
		base_positions BIGINT,
		file_size BIGINT,
		mod_time TIMESTAMP,
		indexed_at TIMESTAMP
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS gene_locations (
		path VARCHAR,
		gene VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		complement BOOLEAN,
		PRIMARY KEY (path, gene)
	)`)
	return err
}

// Package sqlite provides SQLite-based storage implementations for
// qbank services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait on lock contention instead of failing immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode for file-based databases; not supported in-memory.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Favorites and progress rows cascade when a question is hard-deleted.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
// Uniqueness lives here, not in application logic: category names are
// case-insensitively unique, question numbers are unique within their
// category, and the per-user interaction tables key on the
// (user, question) pair.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			icon TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			range_start INTEGER NOT NULL,
			range_end INTEGER NOT NULL,
			CHECK (range_end >= range_start)
		);

		CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			title TEXT NOT NULL,
			content_plain TEXT NOT NULL DEFAULT '',
			content_html TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT 'beginner',
			tags TEXT NOT NULL DEFAULT '',
			published INTEGER NOT NULL DEFAULT 1,
			view_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			modified_at TEXT,
			UNIQUE (category_id, number)
		);

		CREATE TABLE IF NOT EXISTS favorites (
			user_id TEXT NOT NULL,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			PRIMARY KEY (user_id, question_id)
		);

		CREATE TABLE IF NOT EXISTS progress (
			user_id TEXT NOT NULL,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			completed_at TEXT,
			attempts INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, question_id)
		);

		CREATE INDEX IF NOT EXISTS idx_questions_category_id ON questions(category_id);
		CREATE INDEX IF NOT EXISTS idx_progress_user_id ON progress(user_id);
	`

	_, err := db.db.Exec(schema)
	return err
}

// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite rather than mattn/go-sqlite3: it is a pure Go
// translation of SQLite, so no C compiler is needed and cross-compilation
// stays painless.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests) and runs
// migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permissions problem now instead of on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress,
	// which matters once OAuth callbacks write tokens while data
	// requests read them.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right after
// New succeeds.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, so it is safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// One row per (username, source): a repeat login replaces the token
	// rather than adding a second row.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_sources (
			username   TEXT NOT NULL,
			source     TEXT NOT NULL,
			token      TEXT NOT NULL,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, source)
		);
		CREATE INDEX IF NOT EXISTS idx_user_sources_user_id ON user_sources(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating user_sources table: %w", err)
	}

	return nil
}

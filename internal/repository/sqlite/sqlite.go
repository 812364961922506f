// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. Right
// for a single-server deployment holding low-contention personal data.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
//
// AGGREGATE COLUMNS:
// A user's favorites and recently-viewed lists are stored as JSON text
// columns on the users row, not as separate tables. The lists are small
// (recently-viewed is capped at 10), are always read and written together
// with the user, and their ordering is part of the data — a JSON array
// keeps order for free where a join table would need a position column.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The underscore import is a "side-effect only" import: the sqlite
	// package's init() registers itself with database/sql as a driver named
	// "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns the lifecycle: New creates it, Close
// releases the file lock on shutdown.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/explorer.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection for the whole pool. SQLite allows a single writer
	// anyway, and a ":memory:" database exists per-connection — a larger
	// pool would hand out connections pointing at empty databases.
	conn.SetMaxOpenConns(1)

	// sql.Open doesn't actually connect; Ping surfaces a bad path or
	// permissions problem immediately instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// default SQLite locks the whole file during writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite; notes reference users.
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

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// users.github_id is nullable and UNIQUE — SQLite allows any number of NULL
// values in a UNIQUE column, so password-only accounts don't collide.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			email           TEXT NOT NULL UNIQUE,
			password_hash   TEXT NOT NULL DEFAULT '',
			github_id       INTEGER UNIQUE,
			favorites       TEXT NOT NULL DEFAULT '[]',
			recently_viewed TEXT NOT NULL DEFAULT '[]',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// One record per (user, country) — the UNIQUE pair is what gives the
	// note upsert its "at most one" guarantee at the storage level too.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			country_code TEXT NOT NULL,
			rating       INTEGER,
			review       TEXT NOT NULL DEFAULT '',
			note         TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, country_code)
		);
		CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating notes table: %w", err)
	}

	return nil
}

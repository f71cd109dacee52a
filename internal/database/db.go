package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schema is applied on every startup; all statements are idempotent so a
// restart against an existing database file is a no-op.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username        TEXT PRIMARY KEY,
		hashed_password TEXT NOT NULL,
		created         INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		username TEXT PRIMARY KEY,
		id       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id       INTEGER PRIMARY KEY,
		username TEXT NOT NULL,
		content  TEXT NOT NULL,
		created  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id       INTEGER PRIMARY KEY,
		post_id  INTEGER NOT NULL,
		username TEXT NOT NULL,
		content  TEXT NOT NULL,
		created  INTEGER NOT NULL
	)`,
}

// Open opens (creating if missing) the single-file SQLite database at path,
// verifies the connection and bootstraps the schema.
func Open(path string) (*sql.DB, error) {
	// _busy_timeout lets the annotator worker's UPDATE wait out a reader
	// instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings; SQLite allows a single writer, keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}

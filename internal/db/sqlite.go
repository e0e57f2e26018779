package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) the SQLite database at path and applies the
// schema.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: init schema: %w", err)
		}
	}
	return db, nil
}

var sqliteSchema = []string{
	`PRAGMA journal_mode = WAL`,
	`CREATE TABLE IF NOT EXISTS reference_titles (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		track      TEXT NOT NULL,
		job_title  TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
		UNIQUE (track, job_title)
	)`,
	`CREATE TABLE IF NOT EXISTS employment_records (
		user_id           TEXT PRIMARY KEY,
		position_raw      TEXT NOT NULL DEFAULT '',
		position_title    TEXT NOT NULL DEFAULT '',
		company_raw       TEXT NOT NULL DEFAULT '',
		company_name      TEXT NOT NULL DEFAULT '',
		program           TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'not_aligned',
		category          TEXT NOT NULL DEFAULT '',
		aligned_title     TEXT NOT NULL DEFAULT '',
		suggested_program TEXT NOT NULL DEFAULT '',
		match_tier        TEXT NOT NULL DEFAULT '',
		match_score       REAL NOT NULL DEFAULT 0,
		decided_title     TEXT NOT NULL DEFAULT '',
		self_employed     INTEGER NOT NULL DEFAULT 0,
		high_position     INTEGER NOT NULL DEFAULT 0,
		absorbed          INTEGER NOT NULL DEFAULT 0,
		employment_type   TEXT NOT NULL DEFAULT '',
		ojt_company       TEXT NOT NULL DEFAULT '',
		date_started      TEXT,
		year_graduated    INTEGER NOT NULL DEFAULT 0,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS employment_records_status_idx ON employment_records (status)`,
}

// Package db provides database connection helpers and schema bootstrap.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// MigratePostgres creates the reference and employment tables if missing.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS reference_titles (
		id         BIGSERIAL PRIMARY KEY,
		track      TEXT NOT NULL,
		job_title  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
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
		match_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
		decided_title     TEXT NOT NULL DEFAULT '',
		self_employed     BOOLEAN NOT NULL DEFAULT false,
		high_position     BOOLEAN NOT NULL DEFAULT false,
		absorbed          BOOLEAN NOT NULL DEFAULT false,
		employment_type   TEXT NOT NULL DEFAULT '',
		ojt_company       TEXT NOT NULL DEFAULT '',
		date_started      DATE,
		year_graduated    INTEGER NOT NULL DEFAULT 0,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS employment_records_status_idx ON employment_records (status)`,
}

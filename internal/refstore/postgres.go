// Package refstore persists the reference job titles of each program track.
package refstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/alignment-service/internal/alignment"
)

// PostgresStore is the reference_titles rows of one track.
type PostgresStore struct {
	pool  *pgxpool.Pool
	track alignment.Track
}

var _ alignment.ReferenceStore = (*PostgresStore)(nil)

// NewPostgresStore returns the store of track backed by pool.
func NewPostgresStore(pool *pgxpool.Pool, track alignment.Track) *PostgresStore {
	return &PostgresStore{pool: pool, track: track}
}

// NewPostgresStoreSet opens one PostgresStore per catalog track.
func NewPostgresStoreSet(catalog *alignment.Catalog, pool *pgxpool.Pool) *alignment.StoreSet {
	return alignment.NewStoreSet(catalog, func(t alignment.Track) alignment.ReferenceStore {
		return NewPostgresStore(pool, t)
	})
}

func (s *PostgresStore) Track() alignment.Track { return s.track }

func (s *PostgresStore) Contains(ctx context.Context, title alignment.JobTitle) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reference_titles WHERE track = $1 AND job_title = $2)`,
		string(s.track), string(title),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}
	return ok, nil
}

func (s *PostgresStore) FindExact(ctx context.Context, title alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	return s.findOne(ctx,
		`SELECT id, job_title FROM reference_titles WHERE track = $1 AND job_title = $2`,
		string(s.track), string(title),
	)
}

func (s *PostgresStore) FindSubstring(ctx context.Context, title alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	if title.IsEmpty() {
		return nil, nil
	}
	// strpos keeps LIKE wildcards in the title literal.
	return s.findOne(ctx,
		`SELECT id, job_title FROM reference_titles
		 WHERE track = $1 AND strpos(job_title, $2) > 0
		 ORDER BY id
		 LIMIT 1`,
		string(s.track), string(title),
	)
}

func (s *PostgresStore) FindFuzzy(ctx context.Context, title alignment.JobTitle, threshold float64, sim alignment.Similarity) (*alignment.ReferenceEntry, float64, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	e, score := alignment.BestFuzzy(entries, title, threshold, sim)
	return e, score, nil
}

func (s *PostgresStore) Insert(ctx context.Context, title alignment.JobTitle) (alignment.ReferenceEntry, bool, error) {
	if title.IsEmpty() {
		return alignment.ReferenceEntry{}, false, alignment.ErrEmptyTitle
	}

	entry := alignment.ReferenceEntry{Track: s.track, Title: title}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO reference_titles (track, job_title)
		 VALUES ($1, $2)
		 ON CONFLICT (track, job_title) DO NOTHING
		 RETURNING id`,
		string(s.track), string(title),
	).Scan(&entry.ID)
	if err == nil {
		return entry, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return alignment.ReferenceEntry{}, false, fmt.Errorf("insert: %w", err)
	}

	// Lost the race or already present.
	existing, err := s.FindExact(ctx, title)
	if err != nil {
		return alignment.ReferenceEntry{}, false, err
	}
	if existing == nil {
		return alignment.ReferenceEntry{}, false, fmt.Errorf("insert: %q vanished after conflict", title)
	}
	return *existing, false, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]alignment.ReferenceEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_title FROM reference_titles WHERE track = $1 ORDER BY id`,
		string(s.track),
	)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var out []alignment.ReferenceEntry
	for rows.Next() {
		var (
			e     = alignment.ReferenceEntry{Track: s.track}
			title string
		)
		if err := rows.Scan(&e.ID, &title); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		e.Title = alignment.JobTitle(title)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*alignment.ReferenceEntry, error) {
	var (
		e     = alignment.ReferenceEntry{Track: s.track}
		title string
	)
	err := s.pool.QueryRow(ctx, query, args...).Scan(&e.ID, &title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	e.Title = alignment.JobTitle(title)
	return &e, nil
}

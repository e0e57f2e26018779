package refstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobmate/alignment-service/internal/alignment"
)

// SQLiteStore is the reference_titles rows of one track in a SQLite database
// opened with db.OpenSQLite.
type SQLiteStore struct {
	db    *sql.DB
	track alignment.Track
}

var _ alignment.ReferenceStore = (*SQLiteStore)(nil)

// NewSQLiteStore returns the store of track backed by db.
func NewSQLiteStore(db *sql.DB, track alignment.Track) *SQLiteStore {
	return &SQLiteStore{db: db, track: track}
}

// NewSQLiteStoreSet opens one SQLiteStore per catalog track.
func NewSQLiteStoreSet(catalog *alignment.Catalog, db *sql.DB) *alignment.StoreSet {
	return alignment.NewStoreSet(catalog, func(t alignment.Track) alignment.ReferenceStore {
		return NewSQLiteStore(db, t)
	})
}

func (s *SQLiteStore) Track() alignment.Track { return s.track }

func (s *SQLiteStore) Contains(ctx context.Context, title alignment.JobTitle) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reference_titles WHERE track = ? AND job_title = ?`,
		string(s.track), string(title),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) FindExact(ctx context.Context, title alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	return s.findOne(ctx,
		`SELECT id, job_title FROM reference_titles WHERE track = ? AND job_title = ?`,
		string(s.track), string(title),
	)
}

func (s *SQLiteStore) FindSubstring(ctx context.Context, title alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	if title.IsEmpty() {
		return nil, nil
	}
	return s.findOne(ctx,
		`SELECT id, job_title FROM reference_titles
		 WHERE track = ? AND instr(job_title, ?) > 0
		 ORDER BY id
		 LIMIT 1`,
		string(s.track), string(title),
	)
}

func (s *SQLiteStore) FindFuzzy(ctx context.Context, title alignment.JobTitle, threshold float64, sim alignment.Similarity) (*alignment.ReferenceEntry, float64, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	e, score := alignment.BestFuzzy(entries, title, threshold, sim)
	return e, score, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, title alignment.JobTitle) (alignment.ReferenceEntry, bool, error) {
	if title.IsEmpty() {
		return alignment.ReferenceEntry{}, false, alignment.ErrEmptyTitle
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reference_titles (track, job_title) VALUES (?, ?)`,
		string(s.track), string(title),
	)
	if err != nil {
		return alignment.ReferenceEntry{}, false, fmt.Errorf("insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return alignment.ReferenceEntry{}, false, fmt.Errorf("insert: %w", err)
	}

	entry, err := s.FindExact(ctx, title)
	if err != nil {
		return alignment.ReferenceEntry{}, false, err
	}
	if entry == nil {
		return alignment.ReferenceEntry{}, false, fmt.Errorf("insert: %q not found after insert", title)
	}
	return *entry, n > 0, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]alignment.ReferenceEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_title FROM reference_titles WHERE track = ? ORDER BY id`,
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

func (s *SQLiteStore) findOne(ctx context.Context, query string, args ...any) (*alignment.ReferenceEntry, error) {
	var (
		e     = alignment.ReferenceEntry{Track: s.track}
		title string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	e.Title = alignment.JobTitle(title)
	return &e, nil
}

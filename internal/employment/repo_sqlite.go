package employment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"jobmate/alignment-service/internal/alignment"
)

const (
	sqliteDate = "2006-01-02"
	sqliteTime = time.RFC3339Nano
)

// SQLiteRepository stores records in a SQLite database opened with
// db.OpenSQLite. Times are stored as text.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository returns a repository backed by db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (alignment.EmploymentRecord, error) {
	recs, err := r.List(ctx, ListFilter{UserID: userID, Limit: 1})
	if err != nil {
		return alignment.EmploymentRecord{}, err
	}
	if len(recs) == 0 {
		return alignment.EmploymentRecord{}, ErrNotFound
	}
	return recs[0], nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec alignment.EmploymentRecord) error {
	values := toRow(rec).values(
		func(t time.Time) any { return t.Format(sqliteDate) },
		func(t time.Time) any { return t.UTC().Format(sqliteTime) },
	)
	query, args, err := upsertRecord(sq.Question, values).ToSql()
	if err != nil {
		return fmt.Errorf("save build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s: %w", rec.UserID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, f ListFilter) ([]alignment.EmploymentRecord, error) {
	query, args, err := selectRecords(sq.Question, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("list build: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	recs := make([]alignment.EmploymentRecord, 0)
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	return recs, nil
}

func (r *SQLiteRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	query, args, err := countByStatus(sq.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("count build: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}
	defer rows.Close()

	counts := make(StatusCounts)
	for rows.Next() {
		var (
			program, status string
			n               int
		)
		if err := rows.Scan(&program, &status, &n); err != nil {
			return nil, fmt.Errorf("count scan: %w", err)
		}
		addCount(counts, program, status, n)
	}
	return counts, rows.Err()
}

func scanSQLite(rows *sql.Rows) (alignment.EmploymentRecord, error) {
	var (
		r         recordRow
		started   sql.NullString
		updatedAt string
	)
	err := rows.Scan(
		&r.UserID, &r.PositionRaw, &r.Position, &r.CompanyRaw, &r.Company,
		&r.Program, &r.Status, &r.Category, &r.Title, &r.Suggested,
		&r.MatchTier, &r.MatchScore, &r.DecidedTitle,
		&r.SelfEmployed, &r.HighPosition, &r.Absorbed,
		&r.EmploymentType, &r.OJTCompany, &started, &r.YearGraduated, &updatedAt,
	)
	if err != nil {
		return alignment.EmploymentRecord{}, fmt.Errorf("scan record: %w", err)
	}
	if started.Valid && started.String != "" {
		t, err := time.Parse(sqliteDate, started.String)
		if err != nil {
			return alignment.EmploymentRecord{}, fmt.Errorf("record %s date_started: %w", r.UserID, err)
		}
		r.DateStarted = &t
	}
	if r.UpdatedAt, err = time.Parse(sqliteTime, updatedAt); err != nil {
		return alignment.EmploymentRecord{}, fmt.Errorf("record %s updated_at: %w", r.UserID, err)
	}
	return r.record()
}

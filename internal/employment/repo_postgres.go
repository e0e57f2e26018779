package employment

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/alignment-service/internal/alignment"
)

// PostgresRepository stores records in the employment_records table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository returns a repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (alignment.EmploymentRecord, error) {
	recs, err := r.List(ctx, ListFilter{UserID: userID, Limit: 1})
	if err != nil {
		return alignment.EmploymentRecord{}, err
	}
	if len(recs) == 0 {
		return alignment.EmploymentRecord{}, ErrNotFound
	}
	return recs[0], nil
}

func (r *PostgresRepository) Save(ctx context.Context, rec alignment.EmploymentRecord) error {
	asIs := func(t time.Time) any { return t }
	query, args, err := upsertRecord(sq.Dollar, toRow(rec).values(asIs, asIs)).ToSql()
	if err != nil {
		return fmt.Errorf("save build: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s: %w", rec.UserID, err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]alignment.EmploymentRecord, error) {
	query, args, err := selectRecords(sq.Dollar, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("list build: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	recs := make([]alignment.EmploymentRecord, 0)
	for rows.Next() {
		rec, err := scanPostgres(rows)
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

func (r *PostgresRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	query, args, err := countByStatus(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("count build: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
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

func scanPostgres(row pgx.Row) (alignment.EmploymentRecord, error) {
	var r recordRow
	err := row.Scan(
		&r.UserID, &r.PositionRaw, &r.Position, &r.CompanyRaw, &r.Company,
		&r.Program, &r.Status, &r.Category, &r.Title, &r.Suggested,
		&r.MatchTier, &r.MatchScore, &r.DecidedTitle,
		&r.SelfEmployed, &r.HighPosition, &r.Absorbed,
		&r.EmploymentType, &r.OJTCompany, &r.DateStarted, &r.YearGraduated, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return alignment.EmploymentRecord{}, ErrNotFound
	}
	if err != nil {
		return alignment.EmploymentRecord{}, fmt.Errorf("scan record: %w", err)
	}
	return r.record()
}

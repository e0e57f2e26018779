package employment

import (
	"context"

	"jobmate/alignment-service/internal/alignment"
)

// ListFilter narrows Repository.List. Zero fields do not filter.
type ListFilter struct {
	UserID       string
	Status       alignment.Status
	Program      alignment.Track
	WithPosition bool   // only records with a non-empty position
	AfterUserID  string // keyset paging: user IDs strictly greater than this
	Limit        uint64
}

// StatusCounts maps program → alignment status → number of records.
type StatusCounts map[alignment.Track]map[alignment.Status]int

// Repository persists one EmploymentRecord per graduate.
type Repository interface {
	// Get returns ErrNotFound when the graduate has no record.
	Get(ctx context.Context, userID string) (alignment.EmploymentRecord, error)
	// Save inserts or replaces the record of rec.UserID.
	Save(ctx context.Context, rec alignment.EmploymentRecord) error
	// List returns matching records ordered by user ID.
	List(ctx context.Context, f ListFilter) ([]alignment.EmploymentRecord, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

package employment

import (
	"context"
	"sort"
	"sync"

	"jobmate/alignment-service/internal/alignment"
)

// MemoryRepository keeps records in process memory. It backs STORE_DRIVER=memory
// and the tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]alignment.EmploymentRecord
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]alignment.EmploymentRecord)}
}

func (r *MemoryRepository) Get(_ context.Context, userID string) (alignment.EmploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userID]
	if !ok {
		return alignment.EmploymentRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepository) Save(_ context.Context, rec alignment.EmploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.UserID] = rec
	return nil
}

func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]alignment.EmploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alignment.EmploymentRecord, 0)
	for _, rec := range r.records {
		if f.UserID != "" && rec.UserID != f.UserID {
			continue
		}
		if f.Status != "" && rec.Alignment.Status() != f.Status {
			continue
		}
		if f.Program != "" && rec.Program != f.Program {
			continue
		}
		if f.WithPosition && rec.Position.IsEmpty() {
			continue
		}
		if f.AfterUserID != "" && rec.UserID <= f.AfterUserID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if f.Limit > 0 && uint64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context) (StatusCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(StatusCounts)
	for _, rec := range r.records {
		addCount(counts, string(rec.Program), string(rec.Alignment.Status()), 1)
	}
	return counts, nil
}

package alignment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"jobmate/alignment-service/internal/alignment"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStores builds one MemoryStore per default track seeded with titles.
func memoryStores(seeds map[alignment.Track][]string) *alignment.StoreSet {
	return alignment.NewStoreSet(alignment.MustDefaultCatalog(), func(t alignment.Track) alignment.ReferenceStore {
		return alignment.NewMemoryStore(t, seeds[t]...)
	})
}

func newEngine(stores *alignment.StoreSet) *alignment.Engine {
	return alignment.NewEngine(stores, alignment.Options{
		FuzzyThreshold: alignment.DefaultFuzzyThreshold,
		Logger:         quietLogger(),
	})
}

func record(userID string, program alignment.Track, position string) alignment.EmploymentRecord {
	rec := alignment.EmploymentRecord{UserID: userID, Program: program}
	rec.SetPosition(position)
	return rec
}

var errDown = errors.New("connection refused")

// brokenStore fails every call and counts how often it was queried.
type brokenStore struct {
	track alignment.Track
	calls atomic.Int32
}

func (s *brokenStore) Track() alignment.Track { return s.track }

func (s *brokenStore) Contains(context.Context, alignment.JobTitle) (bool, error) {
	s.calls.Add(1)
	return false, errDown
}

func (s *brokenStore) FindExact(context.Context, alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	s.calls.Add(1)
	return nil, errDown
}

func (s *brokenStore) FindSubstring(context.Context, alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	s.calls.Add(1)
	return nil, errDown
}

func (s *brokenStore) FindFuzzy(context.Context, alignment.JobTitle, float64, alignment.Similarity) (*alignment.ReferenceEntry, float64, error) {
	s.calls.Add(1)
	return nil, 0, errDown
}

func (s *brokenStore) Insert(context.Context, alignment.JobTitle) (alignment.ReferenceEntry, bool, error) {
	s.calls.Add(1)
	return alignment.ReferenceEntry{}, false, errDown
}

func (s *brokenStore) List(context.Context) ([]alignment.ReferenceEntry, error) {
	s.calls.Add(1)
	return nil, errDown
}

package alignment

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ReferenceEntry is one accepted job title of a track.
type ReferenceEntry struct {
	ID    int64
	Track Track
	Title JobTitle
}

// ReferenceStore holds the known job titles of one program track.
//
// Lookups that find nothing return a nil entry and a nil error. Substring and
// fuzzy lookups walk entries in insertion order, so the first-inserted entry
// wins every tie.
type ReferenceStore interface {
	Track() Track
	Contains(ctx context.Context, title JobTitle) (bool, error)
	FindExact(ctx context.Context, title JobTitle) (*ReferenceEntry, error)
	// FindSubstring returns the first entry whose title contains title.
	FindSubstring(ctx context.Context, title JobTitle) (*ReferenceEntry, error)
	// FindFuzzy returns the highest scoring entry with score > threshold.
	FindFuzzy(ctx context.Context, title JobTitle, threshold float64, sim Similarity) (*ReferenceEntry, float64, error)
	// Insert adds title if absent. It is a single atomic insert-if-absent;
	// created is false when the title was already present.
	Insert(ctx context.Context, title JobTitle) (entry ReferenceEntry, created bool, err error)
	// List returns all entries in insertion order.
	List(ctx context.Context) ([]ReferenceEntry, error)
}

// BestFuzzy picks the highest scoring entry strictly above threshold.
// entries must be in insertion order; earlier entries win ties.
func BestFuzzy(entries []ReferenceEntry, title JobTitle, threshold float64, sim Similarity) (*ReferenceEntry, float64) {
	var (
		best      *ReferenceEntry
		bestScore float64
	)
	for i := range entries {
		score := sim(string(entries[i].Title), string(title))
		if score > threshold && (best == nil || score > bestScore) {
			best = &entries[i]
			bestScore = score
		}
	}
	if best == nil {
		return nil, 0
	}
	e := *best
	return &e, bestScore
}

// StoreSet owns one ReferenceStore per catalog track.
type StoreSet struct {
	catalog *Catalog
	stores  map[Track]ReferenceStore
}

// NewStoreSet builds a store for every track of the catalog using open.
func NewStoreSet(catalog *Catalog, open func(Track) ReferenceStore) *StoreSet {
	s := &StoreSet{catalog: catalog, stores: make(map[Track]ReferenceStore)}
	for _, t := range catalog.Tracks() {
		s.stores[t] = open(t)
	}
	return s
}

// Catalog returns the catalog the set was built from.
func (s *StoreSet) Catalog() *Catalog { return s.catalog }

// Store returns the store of track t.
func (s *StoreSet) Store(t Track) (ReferenceStore, error) {
	store, ok := s.stores[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, t)
	}
	return store, nil
}

// ─── In-memory store ─────────────────────────────────────────────────────────

// MemoryStore is a mutex-guarded ReferenceStore kept in process memory.
type MemoryStore struct {
	track Track

	mu      sync.RWMutex
	entries []ReferenceEntry
	index   map[JobTitle]int
	nextID  int64
}

var _ ReferenceStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store for track, optionally seeded with titles.
func NewMemoryStore(track Track, titles ...string) *MemoryStore {
	s := &MemoryStore{track: track, index: make(map[JobTitle]int)}
	for _, t := range titles {
		if title := NormalizeTitle(t); !title.IsEmpty() {
			s.insertLocked(title)
		}
	}
	return s
}

func (s *MemoryStore) Track() Track { return s.track }

func (s *MemoryStore) Contains(_ context.Context, title JobTitle) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[title]
	return ok, nil
}

func (s *MemoryStore) FindExact(_ context.Context, title JobTitle) (*ReferenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[title]; ok {
		e := s.entries[i]
		return &e, nil
	}
	return nil, nil
}

func (s *MemoryStore) FindSubstring(_ context.Context, title JobTitle) (*ReferenceEntry, error) {
	if title.IsEmpty() {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if strings.Contains(string(e.Title), string(title)) {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindFuzzy(_ context.Context, title JobTitle, threshold float64, sim Similarity) (*ReferenceEntry, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, score := BestFuzzy(s.entries, title, threshold, sim)
	return e, score, nil
}

func (s *MemoryStore) Insert(_ context.Context, title JobTitle) (ReferenceEntry, bool, error) {
	if title.IsEmpty() {
		return ReferenceEntry{}, false, ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[title]; ok {
		return s.entries[i], false, nil
	}
	return s.insertLocked(title), true, nil
}

func (s *MemoryStore) List(_ context.Context) ([]ReferenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ReferenceEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) insertLocked(title JobTitle) ReferenceEntry {
	if i, ok := s.index[title]; ok {
		return s.entries[i]
	}
	s.nextID++
	e := ReferenceEntry{ID: s.nextID, Track: s.track, Title: title}
	s.index[title] = len(s.entries)
	s.entries = append(s.entries, e)
	return e
}

package employment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"jobmate/alignment-service/internal/alignment"
	"jobmate/alignment-service/internal/employment"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	fail   bool
}

type published struct {
	Channel string
	Fields  map[string]string
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, fields map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("redis: connection refused")
	}
	p.events = append(p.events, published{Channel: channel, Fields: fields})
	return nil
}

func (p *recordingPublisher) channels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Channel)
	}
	return out
}

type fixture struct {
	svc    *employment.Service
	repo   *employment.MemoryRepository
	pub    *recordingPublisher
	stores *alignment.StoreSet
}

func newFixture(seeds map[alignment.Track][]string, opts ...employment.Option) *fixture {
	stores := alignment.NewStoreSet(alignment.MustDefaultCatalog(), func(t alignment.Track) alignment.ReferenceStore {
		return alignment.NewMemoryStore(t, seeds[t]...)
	})
	return newFixtureWithStores(stores, opts...)
}

func newFixtureWithStores(stores *alignment.StoreSet, opts ...employment.Option) *fixture {
	engine := alignment.NewEngine(stores, alignment.Options{Logger: quietLogger()})
	f := &fixture{
		repo:   employment.NewMemoryRepository(),
		pub:    &recordingPublisher{},
		stores: stores,
	}
	opts = append([]employment.Option{
		employment.WithPublisher(f.pub),
		employment.WithLogger(quietLogger()),
	}, opts...)
	f.svc = employment.NewService(engine, f.repo, opts...)
	return f
}

func (f *fixture) contains(track alignment.Track, title alignment.JobTitle) bool {
	s, err := f.stores.Store(track)
	if err != nil {
		return false
	}
	ok, _ := s.Contains(context.Background(), title)
	return ok
}

var errDown = errors.New("connection refused")

// downStore fails every call.
type downStore struct{ track alignment.Track }

func (s downStore) Track() alignment.Track { return s.track }
func (downStore) Contains(context.Context, alignment.JobTitle) (bool, error) {
	return false, errDown
}
func (downStore) FindExact(context.Context, alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	return nil, errDown
}
func (downStore) FindSubstring(context.Context, alignment.JobTitle) (*alignment.ReferenceEntry, error) {
	return nil, errDown
}
func (downStore) FindFuzzy(context.Context, alignment.JobTitle, float64, alignment.Similarity) (*alignment.ReferenceEntry, float64, error) {
	return nil, 0, errDown
}
func (downStore) Insert(context.Context, alignment.JobTitle) (alignment.ReferenceEntry, bool, error) {
	return alignment.ReferenceEntry{}, false, errDown
}
func (downStore) List(context.Context) ([]alignment.ReferenceEntry, error) {
	return nil, errDown
}

func downStores() *alignment.StoreSet {
	return alignment.NewStoreSet(alignment.MustDefaultCatalog(), func(t alignment.Track) alignment.ReferenceStore {
		return downStore{track: t}
	})
}

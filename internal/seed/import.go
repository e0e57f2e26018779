package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"jobmate/alignment-service/internal/alignment"
)

// Stats summarizes an import.
type Stats struct {
	Titles     int                     `json:"titles"`
	Created    map[alignment.Track]int `json:"created"`
	Existing   map[alignment.Track]int `json:"existing"`
	MultiTrack int                     `json:"multiTrack"`
	Skipped    int                     `json:"skipped"`
}

// Importer writes seed titles into the reference stores. Inserts are
// idempotent, so importing the same file twice creates nothing new.
type Importer struct {
	stores      *alignment.StoreSet
	categorizer Categorizer
	logger      *slog.Logger
}

// NewImporter returns an Importer over stores.
func NewImporter(stores *alignment.StoreSet, categorizer Categorizer, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{stores: stores, categorizer: categorizer, logger: logger}
}

// Import inserts every title of f. Titles mapped to a track outside the
// catalog are skipped with a warning; a store failure aborts the import.
func (im *Importer) Import(ctx context.Context, f File) (Stats, error) {
	st := Stats{
		Created:  make(map[alignment.Track]int),
		Existing: make(map[alignment.Track]int),
	}

	for _, raw := range f.Titles {
		title := alignment.NormalizeTitle(raw)
		if title.IsEmpty() {
			st.Skipped++
			continue
		}
		tracks := im.categorizer.Categorize(raw)
		if len(tracks) > 1 {
			st.MultiTrack++
		}
		st.Titles++
		for _, t := range tracks {
			if err := im.insert(ctx, t, title, &st); err != nil {
				return st, err
			}
		}
	}

	tracks := make([]alignment.Track, 0, len(f.ByTrack))
	for t := range f.ByTrack {
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i] < tracks[j] })
	for _, t := range tracks {
		code := t
		if c, ok := im.stores.Catalog().ParseProgram(string(t)); ok {
			code = c
		}
		for _, raw := range f.ByTrack[t] {
			title := alignment.NormalizeTitle(raw)
			if title.IsEmpty() {
				st.Skipped++
				continue
			}
			st.Titles++
			if err := im.insert(ctx, code, title, &st); err != nil {
				return st, err
			}
		}
	}

	im.logger.Info("seed import finished",
		"titles", st.Titles, "created", st.Created, "existing", st.Existing,
		"multiTrack", st.MultiTrack, "skipped", st.Skipped)
	return st, nil
}

func (im *Importer) insert(ctx context.Context, t alignment.Track, title alignment.JobTitle, st *Stats) error {
	store, err := im.stores.Store(t)
	if err != nil {
		im.logger.Warn("seed: skipping title for unknown track", "track", t, "title", title)
		st.Skipped++
		return nil
	}
	_, created, err := store.Insert(ctx, title)
	if err != nil {
		return fmt.Errorf("seed insert %s %q: %w", t, title, err)
	}
	if created {
		st.Created[t]++
	} else {
		st.Existing[t]++
	}
	return nil
}

package alignment

import (
	"context"
	"log/slog"
)

// Resolution is the outcome of applying a confirmation answer.
type Resolution struct {
	Record EmploymentRecord
	// Applied is false when the record was not pending and nothing changed.
	Applied bool
	// Expanded is the own-track entry written on a "yes" answer.
	Expanded *ReferenceEntry
	// Created is true when Expanded did not exist before.
	Created bool
}

// Resolver finalizes pending records from the graduate's yes/no answer.
type Resolver struct {
	stores *StoreSet
	logger *slog.Logger
}

// NewResolver returns a Resolver writing confirmed titles into stores.
func NewResolver(stores *StoreSet, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{stores: stores, logger: logger}
}

// Resolve applies the answer to a pending record. On "yes" the candidate
// title is inserted into the graduate's own track, whichever track it was
// found in, and the record becomes aligned under the own track. On "no" the
// record becomes not aligned and no store is touched. A record that is not
// pending is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, rec EmploymentRecord, confirmed bool) (Resolution, error) {
	if !rec.Alignment.IsPending() {
		r.logger.Warn("confirmation ignored: record is not pending",
			"userId", rec.UserID,
			"status", rec.Alignment.Status(),
		)
		return Resolution{Record: rec}, nil
	}

	res := Resolution{Applied: true}
	if confirmed {
		title, _ := rec.Alignment.Title()
		store, err := r.stores.Store(rec.Program)
		if err != nil {
			return Resolution{Record: rec}, err
		}
		entry, created, err := store.Insert(ctx, title)
		if err != nil {
			return Resolution{Record: rec}, storeError("insert", rec.Program, err)
		}
		r.logger.Info("reference title confirmed",
			"userId", rec.UserID,
			"title", entry.Title,
			"track", rec.Program,
			"created", created,
		)
		rec.Alignment = Aligned(rec.Program, title)
		res.Expanded, res.Created = &entry, created
	} else {
		r.logger.Info("job alignment rejected", "userId", rec.UserID, "position", rec.Position)
		rec.Alignment = NotAligned()
		rec.MatchTier, rec.MatchScore = "", 0
	}

	rec.DecidedTitle = rec.Position
	res.Record = rec
	return res, nil
}

package alignment

import (
	"context"
	"log/slog"
)

// Classifier computes a record's alignment from its position and the
// reference stores. It never writes to the stores.
type Classifier struct {
	stores  *StoreSet
	matcher *Matcher
	logger  *slog.Logger
}

// NewClassifier returns a Classifier over stores.
func NewClassifier(stores *StoreSet, matcher *Matcher, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{stores: stores, matcher: matcher, logger: logger}
}

// Classify returns a copy of rec with Alignment, MatchTier and MatchScore
// recomputed:
//
//  1. empty position → not aligned, no store is queried;
//  2. match in the graduate's own track → aligned;
//  3. first match in another track (catalog order) → pending, suggesting that track;
//  4. no match anywhere → pending on the title itself, suggesting the own track.
func (c *Classifier) Classify(ctx context.Context, rec EmploymentRecord) (EmploymentRecord, error) {
	rec.MatchTier, rec.MatchScore = "", 0

	if rec.Position.IsEmpty() {
		rec.Alignment = NotAligned()
		return rec, nil
	}

	own, err := c.stores.Store(rec.Program)
	if err != nil {
		return rec, err
	}

	m, err := c.matcher.Match(ctx, rec.Position, own)
	if err != nil {
		return rec, err
	}
	if m != nil {
		c.logMatch(rec, m)
		rec.Alignment = Aligned(rec.Program, m.Entry.Title)
		rec.MatchTier, rec.MatchScore = m.Tier, m.Score
		return rec, nil
	}

	for _, other := range c.stores.Catalog().Others(rec.Program) {
		store, err := c.stores.Store(other)
		if err != nil {
			return rec, err
		}
		m, err := c.matcher.Match(ctx, rec.Position, store)
		if err != nil {
			return rec, err
		}
		if m != nil {
			c.logMatch(rec, m)
			rec.Alignment = Pending(m.Entry.Title, other, other)
			rec.MatchTier, rec.MatchScore = m.Tier, m.Score
			return rec, nil
		}
	}

	rec.Alignment = Pending(rec.Position, "", rec.Program)
	return rec, nil
}

func (c *Classifier) logMatch(rec EmploymentRecord, m *MatchResult) {
	if m.Tier != TierFuzzy {
		return
	}
	c.logger.Info("fuzzy job title match",
		"userId", rec.UserID,
		"position", rec.Position,
		"matched", m.Entry.Title,
		"track", m.Entry.Track,
		"score", m.Score,
	)
}

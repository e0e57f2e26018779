package alignment

import (
	"context"
)

// DefaultFuzzyThreshold is the minimum similarity a fuzzy match must exceed.
const DefaultFuzzyThreshold = 0.6

// Tier names the matching strategy that produced a match.
type Tier string

const (
	TierExact     Tier = "exact"
	TierSubstring Tier = "substring"
	TierFuzzy     Tier = "fuzzy"
)

// MatchResult is the best reference entry found for a title.
// Score is the similarity for fuzzy matches and 1 for exact ones.
type MatchResult struct {
	Entry ReferenceEntry
	Tier  Tier
	Score float64
}

// Matcher runs the three-tier lookup against a single reference store.
type Matcher struct {
	threshold float64
	sim       Similarity
}

// NewMatcher returns a Matcher. A threshold outside (0, 1) falls back to
// DefaultFuzzyThreshold and a nil sim to TrigramSimilarity.
func NewMatcher(threshold float64, sim Similarity) *Matcher {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultFuzzyThreshold
	}
	if sim == nil {
		sim = TrigramSimilarity
	}
	return &Matcher{threshold: threshold, sim: sim}
}

// Threshold returns the fuzzy threshold in use.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Match tries exact, then substring, then fuzzy matching and stops at the
// first tier that finds an entry. It returns nil when nothing matches; an
// empty title returns nil without touching the store.
func (m *Matcher) Match(ctx context.Context, title JobTitle, store ReferenceStore) (*MatchResult, error) {
	if title.IsEmpty() {
		return nil, nil
	}

	e, err := store.FindExact(ctx, title)
	if err != nil {
		return nil, storeError("exact lookup", store.Track(), err)
	}
	if e != nil {
		return &MatchResult{Entry: *e, Tier: TierExact, Score: 1}, nil
	}

	e, err = store.FindSubstring(ctx, title)
	if err != nil {
		return nil, storeError("substring lookup", store.Track(), err)
	}
	if e != nil {
		return &MatchResult{Entry: *e, Tier: TierSubstring}, nil
	}

	e, score, err := store.FindFuzzy(ctx, title, m.threshold, m.sim)
	if err != nil {
		return nil, storeError("fuzzy lookup", store.Track(), err)
	}
	if e != nil {
		return &MatchResult{Entry: *e, Tier: TierFuzzy, Score: score}, nil
	}
	return nil, nil
}

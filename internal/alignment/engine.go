package alignment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Options configures an Engine.
type Options struct {
	FuzzyThreshold float64
	Similarity     Similarity
	Policy         AttributePolicy
	Logger         *slog.Logger
}

// Engine bundles the classifier, resolver and attribute policy behind the
// two operations callers need: Evaluate on every input change and Resolve on
// every confirmation answer.
type Engine struct {
	stores     *StoreSet
	classifier *Classifier
	resolver   *Resolver
	policy     AttributePolicy
}

// NewEngine wires an Engine over stores.
func NewEngine(stores *StoreSet, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	matcher := NewMatcher(opts.FuzzyThreshold, opts.Similarity)
	return &Engine{
		stores:     stores,
		classifier: NewClassifier(stores, matcher, logger.With("component", "classifier")),
		resolver:   NewResolver(stores, logger.With("component", "resolver")),
		policy:     opts.Policy.WithDefaults(),
	}
}

// Catalog returns the track catalog.
func (e *Engine) Catalog() *Catalog { return e.stores.Catalog() }

// Stores returns the reference stores.
func (e *Engine) Stores() *StoreSet { return e.stores }

// Evaluate derives the employment flags and classifies rec. It has no side
// effects, so callers may use it for dry runs.
func (e *Engine) Evaluate(ctx context.Context, rec EmploymentRecord) (EmploymentRecord, error) {
	if !e.Catalog().Has(rec.Program) {
		return rec, fmt.Errorf("%w: %q", ErrUnknownTrack, rec.Program)
	}
	rec = e.policy.Derive(rec)
	return e.classifier.Classify(ctx, rec)
}

// Resolve applies a confirmation answer; see Resolver.Resolve.
func (e *Engine) Resolve(ctx context.Context, rec EmploymentRecord, confirmed bool) (Resolution, error) {
	return e.resolver.Resolve(ctx, rec, confirmed)
}

// Suggestion is the prompt payload of a pending record.
type Suggestion struct {
	CandidateTitle        string `json:"candidateTitle"`
	SuggestedProgram      string `json:"suggestedProgram"`
	SuggestedProgramLabel string `json:"suggestedProgramLabel"`
	OwnProgramLabel       string `json:"ownProgramLabel"`
	Question              string `json:"question"`
}

// Suggestion returns the confirmation prompt for a pending record, or nil.
func (e *Engine) Suggestion(rec EmploymentRecord) *Suggestion {
	if !rec.Alignment.IsPending() {
		return nil
	}
	title, _ := rec.Alignment.Title()
	suggested, _ := rec.Alignment.SuggestedProgram()
	own := e.Catalog().Label(rec.Program)
	return &Suggestion{
		CandidateTitle:        string(title),
		SuggestedProgram:      string(suggested),
		SuggestedProgramLabel: e.Catalog().Label(suggested),
		OwnProgramLabel:       own,
		Question:              fmt.Sprintf("Is '%s' aligned to your %s program?", title, own),
	}
}

// TitleSuggestion is one autocomplete entry.
type TitleSuggestion struct {
	Title   string `json:"title"`
	Program string `json:"program"`
}

// Autocomplete lists reference titles of every track containing query,
// de-duplicated by title (the first track in catalog order wins), sorted by
// title and capped at limit.
func (e *Engine) Autocomplete(ctx context.Context, query string, limit int) ([]TitleSuggestion, error) {
	if limit <= 0 {
		limit = 20
	}
	q := string(NormalizeTitle(query))

	seen := make(map[JobTitle]bool)
	out := make([]TitleSuggestion, 0, limit)
	for _, t := range e.Catalog().Tracks() {
		store, err := e.stores.Store(t)
		if err != nil {
			return nil, err
		}
		entries, err := store.List(ctx)
		if err != nil {
			return nil, storeError("list", t, err)
		}
		for _, entry := range entries {
			if seen[entry.Title] || !strings.Contains(string(entry.Title), q) {
				continue
			}
			seen[entry.Title] = true
			out = append(out, TitleSuggestion{Title: string(entry.Title), Program: e.Catalog().Label(t)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

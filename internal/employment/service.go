// Package employment is the application layer of the alignment service. It
// loads and saves employment records around the alignment engine and
// publishes the resulting events.
// It is transport-agnostic: used by the HTTP handler and the gRPC server.
package employment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"jobmate/alignment-service/internal/alignment"
)

// recalcBatchSize is the number of records loaded per recalculation page.
const recalcBatchSize = 100

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates the employment alignment use cases.
type Service struct {
	engine   *alignment.Engine
	repo     Repository
	events   Publisher
	limiter  *CheckLimiter
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets the event publisher. The default drops events.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.events = p } }

// WithCheckLimiter throttles CheckPosition per user.
func WithCheckLimiter(l *CheckLimiter) Option { return func(s *Service) { s.limiter = l } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService returns a configured Service.
func NewService(engine *alignment.Engine, repo Repository, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		repo:     repo,
		events:   NopPublisher{},
		validate: newValidator(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the alignment engine the service runs on.
func (s *Service) Engine() *alignment.Engine { return s.engine }

// ─── Business logic ───────────────────────────────────────────────────────────

// UpdatePosition applies a position/company change, reclassifies the record
// and persists it. A graduate without a record must name their program.
func (s *Service) UpdatePosition(ctx context.Context, userID string, in PositionInput) (*State, error) {
	rec, prev, err := s.prepare(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	next, err := s.evaluate(ctx, rec)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("updatePosition save: %w", err)
	}
	if prev.Alignment != next.Alignment {
		s.publishAlignmentChanged(ctx, prev, next, "position_updated")
	}

	st := s.state(next)
	return &st, nil
}

// CheckPosition classifies the input exactly like UpdatePosition but persists
// nothing and publishes nothing. Calls are rate limited per user.
func (s *Service) CheckPosition(ctx context.Context, userID string, in PositionInput) (*State, error) {
	if !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}
	rec, _, err := s.prepare(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	next, err := s.evaluate(ctx, rec)
	if err != nil {
		return nil, err
	}
	st := s.state(next)
	return &st, nil
}

// ConfirmAlignment records the graduate's answer to the pending question.
// Answering when nothing is pending returns the current state unchanged.
func (s *Service) ConfirmAlignment(ctx context.Context, userID string, confirmed bool) (*State, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Msg: "userId is required"}
	}
	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Resolve(ctx, rec, confirmed)
	if err != nil {
		return nil, fmt.Errorf("confirmAlignment: %w", err)
	}
	if !res.Applied {
		st := s.state(rec)
		return &st, nil
	}

	next := res.Record
	next.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("confirmAlignment save: %w", err)
	}

	reason := "rejected"
	if confirmed {
		reason = "confirmed"
	}
	s.publishAlignmentChanged(ctx, rec, next, reason)
	if res.Created {
		s.publish(ctx, ChannelReferenceExpanded, map[string]string{
			"userId":  userID,
			"track":   string(res.Expanded.Track),
			"title":   string(res.Expanded.Title),
			"entryId": fmt.Sprint(res.Expanded.ID),
		})
	}

	st := s.state(next)
	return &st, nil
}

// PendingSuggestions lists records awaiting confirmation. An empty userID
// lists every graduate.
func (s *Service) PendingSuggestions(ctx context.Context, userID string) ([]PendingSuggestion, error) {
	recs, err := s.repo.List(ctx, ListFilter{UserID: userID, Status: alignment.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("pendingSuggestions: %w", err)
	}

	out := make([]PendingSuggestion, 0, len(recs))
	for _, rec := range recs {
		sugg := s.engine.Suggestion(rec)
		if sugg == nil {
			continue
		}
		out = append(out, PendingSuggestion{
			UserID:      rec.UserID,
			Position:    string(rec.Position),
			MatchMethod: string(rec.MatchTier),
			MatchScore:  rec.MatchScore,
			Suggestion:  *sugg,
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	return out, nil
}

// Autocomplete suggests reference titles containing query.
func (s *Service) Autocomplete(ctx context.Context, query string, limit int) ([]alignment.TitleSuggestion, error) {
	return s.engine.Autocomplete(ctx, query, limit)
}

// Breakdown counts records per program and alignment status. Catalog tracks
// come first in catalog order, followed by any unknown programs found in
// storage.
func (s *Service) Breakdown(ctx context.Context) ([]BreakdownRow, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("breakdown: %w", err)
	}

	catalog := s.engine.Catalog()
	tracks := catalog.Tracks()
	var unknown []alignment.Track
	for t := range counts {
		if !catalog.Has(t) {
			unknown = append(unknown, t)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })

	rows := make([]BreakdownRow, 0, len(tracks)+len(unknown))
	for _, t := range append(tracks, unknown...) {
		c := counts[t]
		row := BreakdownRow{
			Program:    string(t),
			Label:      catalog.Label(t),
			Aligned:    c[alignment.StatusAligned],
			Pending:    c[alignment.StatusPending],
			NotAligned: c[alignment.StatusNotAligned],
		}
		if info, ok := catalog.Info(t); ok {
			row.Category = info.Category
		}
		row.Total = row.Aligned + row.Pending + row.NotAligned
		rows = append(rows, row)
	}
	return rows, nil
}

// Recalculate re-derives and reclassifies every record with a position, in
// pages of recalcBatchSize ordered by user ID. report, if set, is called
// after every page and once more when done. Records whose program is not in
// the catalog are skipped. A reference store outage aborts the run.
func (s *Service) Recalculate(ctx context.Context, report func(Progress)) (Progress, error) {
	p := Progress{StartedAt: s.now().UTC()}
	catalog := s.engine.Catalog()

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return p, err
		}
		batch, err := s.repo.List(ctx, ListFilter{WithPosition: true, AfterUserID: after, Limit: recalcBatchSize})
		if err != nil {
			return p, fmt.Errorf("recalculate list: %w", err)
		}

		for _, rec := range batch {
			p.Processed++
			if !catalog.Has(rec.Program) {
				s.logger.Warn("recalculate: skipping record with unknown program",
					"userId", rec.UserID, "program", rec.Program)
				p.Skipped++
				continue
			}

			next, err := s.evaluate(ctx, rec)
			if err != nil {
				return p, fmt.Errorf("recalculate %s: %w", rec.UserID, err)
			}
			next = keepDecision(rec, next)
			if !changed(rec, next) {
				continue
			}
			next.UpdatedAt = s.now().UTC()
			if err := s.repo.Save(ctx, next); err != nil {
				return p, fmt.Errorf("recalculate save %s: %w", rec.UserID, err)
			}
			if rec.Alignment != next.Alignment {
				s.publishAlignmentChanged(ctx, rec, next, "recalculated")
			}
			p.Updated++
		}

		if report != nil {
			report(p)
		}
		if len(batch) < recalcBatchSize {
			break
		}
		after = batch[len(batch)-1].UserID
	}

	p.Done = true
	if report != nil {
		report(p)
	}
	s.logger.Info("recalculation finished",
		"processed", p.Processed, "updated", p.Updated, "skipped", p.Skipped,
		"took", s.now().UTC().Sub(p.StartedAt))
	return p, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// prepare validates in and applies it to the stored record of userID (or a
// new one). It returns the updated record and the record as loaded.
func (s *Service) prepare(ctx context.Context, userID string, in PositionInput) (rec, prev alignment.EmploymentRecord, err error) {
	if strings.TrimSpace(userID) == "" {
		return rec, prev, &ValidationError{Msg: "userId is required"}
	}
	if err := s.validate.Struct(in); err != nil {
		return rec, prev, &ValidationError{Msg: validationMessage(err)}
	}

	prev, err = s.repo.Get(ctx, userID)
	exists := err == nil
	switch {
	case errors.Is(err, ErrNotFound):
		prev = alignment.EmploymentRecord{UserID: userID}
	case err != nil:
		return rec, prev, fmt.Errorf("load %s: %w", userID, err)
	}
	rec = prev

	switch {
	case in.Program != "":
		track, ok := s.engine.Catalog().ParseProgram(in.Program)
		if !ok {
			return rec, prev, &ValidationError{Msg: fmt.Sprintf("unknown program %q", in.Program)}
		}
		rec.Program = track
	case !exists:
		return rec, prev, &ValidationError{Msg: "program is required for a new employment record"}
	}

	rec.SetPosition(in.Position)
	if rec.Position != prev.Position {
		// the answer belonged to the old title
		rec.DecidedTitle = ""
	}
	rec.SetCompany(in.Company)
	if in.EmploymentType != "" {
		rec.EmploymentType = in.EmploymentType
	}
	if in.OJTCompany != "" {
		rec.OJTCompany = in.OJTCompany
	}
	if in.DateStarted != "" {
		t, err := time.Parse("2006-01-02", in.DateStarted)
		if err != nil {
			return rec, prev, &ValidationError{Msg: "dateStarted must be YYYY-MM-DD"}
		}
		rec.DateStarted = &t
	}
	if in.YearGraduated != 0 {
		rec.YearGraduated = in.YearGraduated
	}
	return rec, prev, nil
}

// evaluate runs the engine on rec and keeps the graduate's earlier answer
// when it still applies.
func (s *Service) evaluate(ctx context.Context, rec alignment.EmploymentRecord) (alignment.EmploymentRecord, error) {
	next, err := s.engine.Evaluate(ctx, rec)
	if errors.Is(err, alignment.ErrUnknownTrack) {
		return rec, &ValidationError{Msg: fmt.Sprintf("unknown program %q", rec.Program)}
	}
	if err != nil {
		return rec, err
	}
	return next, nil
}

// keepDecision stops a bulk recalculation from reopening a question the
// graduate already answered for the record's current position and program.
func keepDecision(prev, next alignment.EmploymentRecord) alignment.EmploymentRecord {
	if !next.Alignment.IsPending() || prev.Alignment.IsPending() {
		return next
	}
	if prev.DecidedTitle.IsEmpty() ||
		prev.Position != next.Position ||
		prev.DecidedTitle != prev.Position ||
		prev.Program != next.Program {
		return next
	}
	next.Alignment = prev.Alignment
	next.MatchTier, next.MatchScore = prev.MatchTier, prev.MatchScore
	return next
}

func changed(a, b alignment.EmploymentRecord) bool {
	return a.Alignment != b.Alignment ||
		a.MatchTier != b.MatchTier ||
		a.MatchScore != b.MatchScore ||
		a.SelfEmployed != b.SelfEmployed ||
		a.HighPosition != b.HighPosition ||
		a.Absorbed != b.Absorbed ||
		a.Company != b.Company
}

func (s *Service) state(rec alignment.EmploymentRecord) State {
	category, _ := rec.Alignment.Category()
	title, _ := rec.Alignment.Title()
	suggested, _ := rec.Alignment.SuggestedProgram()
	return State{
		UserID:            rec.UserID,
		Position:          string(rec.Position),
		Company:           rec.Company,
		Program:           string(rec.Program),
		AlignmentStatus:   string(rec.Alignment.Status()),
		AlignmentCategory: string(category),
		AlignmentTitle:    string(title),
		SuggestedProgram:  string(suggested),
		MatchMethod:       string(rec.MatchTier),
		MatchScore:        rec.MatchScore,
		SelfEmployed:      rec.SelfEmployed,
		HighPosition:      rec.HighPosition,
		Absorbed:          rec.Absorbed,
		Suggestion:        s.engine.Suggestion(rec),
		UpdatedAt:         rec.UpdatedAt,
	}
}

func (s *Service) publishAlignmentChanged(ctx context.Context, prev, next alignment.EmploymentRecord, reason string) {
	title, _ := next.Alignment.Title()
	category, _ := next.Alignment.Category()
	suggested, _ := next.Alignment.SuggestedProgram()
	s.publish(ctx, ChannelAlignmentChanged, map[string]string{
		"userId":           next.UserID,
		"from":             string(prev.Alignment.Status()),
		"to":               string(next.Alignment.Status()),
		"title":            string(title),
		"category":         string(category),
		"suggestedProgram": string(suggested),
		"reason":           reason,
	})
}

// publish is non-fatal.
func (s *Service) publish(ctx context.Context, channel string, fields map[string]string) {
	if err := s.events.Publish(ctx, channel, fields); err != nil {
		s.logger.Warn("publish failed", "channel", channel, "err", err)
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

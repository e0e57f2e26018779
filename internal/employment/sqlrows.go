package employment

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"jobmate/alignment-service/internal/alignment"
)

// ─── Shared SQL for the Postgres and SQLite repositories ─────────────────────

const recordsTable = "employment_records"

var recordColumns = []string{
	"user_id", "position_raw", "position_title", "company_raw", "company_name",
	"program", "status", "category", "aligned_title", "suggested_program",
	"match_tier", "match_score", "decided_title",
	"self_employed", "high_position", "absorbed",
	"employment_type", "ojt_company", "date_started", "year_graduated", "updated_at",
}

// recordRow is the flat column form of an EmploymentRecord.
type recordRow struct {
	UserID, PositionRaw, Position, CompanyRaw, Company string
	Program, Status, Category, Title, Suggested        string
	MatchTier                                          string
	MatchScore                                         float64
	DecidedTitle                                       string
	SelfEmployed, HighPosition, Absorbed               bool
	EmploymentType, OJTCompany                         string
	DateStarted                                        *time.Time
	YearGraduated                                      int
	UpdatedAt                                          time.Time
}

func toRow(rec alignment.EmploymentRecord) recordRow {
	category, _ := rec.Alignment.Category()
	title, _ := rec.Alignment.Title()
	suggested, _ := rec.Alignment.SuggestedProgram()
	return recordRow{
		UserID:         rec.UserID,
		PositionRaw:    rec.PositionRaw,
		Position:       string(rec.Position),
		CompanyRaw:     rec.CompanyRaw,
		Company:        rec.Company,
		Program:        string(rec.Program),
		Status:         string(rec.Alignment.Status()),
		Category:       string(category),
		Title:          string(title),
		Suggested:      string(suggested),
		MatchTier:      string(rec.MatchTier),
		MatchScore:     rec.MatchScore,
		DecidedTitle:   string(rec.DecidedTitle),
		SelfEmployed:   rec.SelfEmployed,
		HighPosition:   rec.HighPosition,
		Absorbed:       rec.Absorbed,
		EmploymentType: rec.EmploymentType,
		OJTCompany:     rec.OJTCompany,
		DateStarted:    rec.DateStarted,
		YearGraduated:  rec.YearGraduated,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func (r recordRow) record() (alignment.EmploymentRecord, error) {
	a, err := alignment.Restore(r.Status, r.Category, r.Title, r.Suggested)
	if err != nil {
		return alignment.EmploymentRecord{}, fmt.Errorf("record %s: %w", r.UserID, err)
	}
	return alignment.EmploymentRecord{
		UserID:         r.UserID,
		PositionRaw:    r.PositionRaw,
		Position:       alignment.JobTitle(r.Position),
		CompanyRaw:     r.CompanyRaw,
		Company:        r.Company,
		Program:        alignment.Track(r.Program),
		Alignment:      a,
		MatchTier:      alignment.Tier(r.MatchTier),
		MatchScore:     r.MatchScore,
		DecidedTitle:   alignment.JobTitle(r.DecidedTitle),
		SelfEmployed:   r.SelfEmployed,
		HighPosition:   r.HighPosition,
		Absorbed:       r.Absorbed,
		EmploymentType: r.EmploymentType,
		OJTCompany:     r.OJTCompany,
		DateStarted:    r.DateStarted,
		YearGraduated:  r.YearGraduated,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

// values returns the column values in recordColumns order. Dates and times
// go through the encoders so each driver gets the representation it stores.
func (r recordRow) values(encodeDate, encodeTime func(time.Time) any) []any {
	var started any
	if r.DateStarted != nil {
		started = encodeDate(*r.DateStarted)
	}
	return []any{
		r.UserID, r.PositionRaw, r.Position, r.CompanyRaw, r.Company,
		r.Program, r.Status, r.Category, r.Title, r.Suggested,
		r.MatchTier, r.MatchScore, r.DecidedTitle,
		r.SelfEmployed, r.HighPosition, r.Absorbed,
		r.EmploymentType, r.OJTCompany, started, r.YearGraduated, encodeTime(r.UpdatedAt),
	}
}

func selectRecords(ph sq.PlaceholderFormat, f ListFilter) sq.SelectBuilder {
	q := sq.Select(recordColumns...).
		From(recordsTable).
		OrderBy("user_id").
		PlaceholderFormat(ph)
	if f.UserID != "" {
		q = q.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Program != "" {
		q = q.Where(sq.Eq{"program": string(f.Program)})
	}
	if f.WithPosition {
		q = q.Where(sq.NotEq{"position_title": ""})
	}
	if f.AfterUserID != "" {
		q = q.Where(sq.Gt{"user_id": f.AfterUserID})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}

// upsertRecord builds an INSERT ... ON CONFLICT (user_id) DO UPDATE, which
// both Postgres and SQLite accept.
func upsertRecord(ph sq.PlaceholderFormat, values []any) sq.InsertBuilder {
	set := ""
	for _, c := range recordColumns[1:] {
		if set != "" {
			set += ", "
		}
		set += c + " = EXCLUDED." + c
	}
	return sq.Insert(recordsTable).
		Columns(recordColumns...).
		Values(values...).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + set).
		PlaceholderFormat(ph)
}

func countByStatus(ph sq.PlaceholderFormat) sq.SelectBuilder {
	return sq.Select("program", "status", "count(*)").
		From(recordsTable).
		GroupBy("program", "status").
		PlaceholderFormat(ph)
}

func addCount(counts StatusCounts, program, status string, n int) {
	t := alignment.Track(program)
	if counts[t] == nil {
		counts[t] = make(map[alignment.Status]int)
	}
	counts[t][alignment.Status(status)] += n
}

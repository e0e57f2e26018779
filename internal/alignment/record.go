package alignment

import "time"

// EmploymentRecord is the employment section of one graduate. Fields from
// other aggregates (tracker answers, OJT profile, academic info) are resolved
// by the caller before the record reaches the engine.
type EmploymentRecord struct {
	UserID string

	PositionRaw string
	Position    JobTitle
	CompanyRaw  string
	Company     string // normalized; "" when unknown

	Program   Track
	Alignment Alignment

	// How the current alignment title was found; empty when no match.
	MatchTier  Tier
	MatchScore float64

	// DecidedTitle is the position the graduate last answered the
	// confirmation prompt for.
	DecidedTitle JobTitle

	SelfEmployed bool
	HighPosition bool
	Absorbed     bool

	EmploymentType string     // tracker answer, e.g. "Self-employed"
	OJTCompany     string     // raw company name of the OJT placement
	DateStarted    *time.Time // start of the current job
	YearGraduated  int        // 0 when unknown

	UpdatedAt time.Time
}

// SetPosition stores the raw position and its normalized form.
func (r *EmploymentRecord) SetPosition(raw string) {
	r.PositionRaw = raw
	r.Position = NormalizeTitle(raw)
}

// SetCompany stores the raw company and its normalized form.
func (r *EmploymentRecord) SetCompany(raw string) {
	r.CompanyRaw = raw
	r.Company, _ = NormalizeCompany(raw)
}

package alignment

import (
	"strings"
	"time"
)

// AttributePolicy holds the keyword lists and graduation cutoff used to
// derive the self-employed, high-position and absorbed flags.
type AttributePolicy struct {
	HighPositionKeywords []string
	// "manager" counts as a high position unless one of these is present.
	ManagerExclusions []string
	// Hires on or before this month/day of the graduation year count as absorbed.
	GraduationMonth time.Month
	GraduationDay   int
}

// DefaultAttributePolicy assumes a June 30 graduation.
func DefaultAttributePolicy() AttributePolicy {
	return AttributePolicy{
		HighPositionKeywords: []string{
			"chief", "director", "president", "vice president", "ceo", "cto", "cfo", "vp",
			"senior manager", "senior director", "executive", "head of", "lead",
		},
		ManagerExclusions: []string{"assistant", "junior", "trainee", "intern"},
		GraduationMonth:   time.June,
		GraduationDay:     30,
	}
}

// WithDefaults fills every unset field from DefaultAttributePolicy. A nil
// keyword list is unset; an empty non-nil list is kept.
func (p AttributePolicy) WithDefaults() AttributePolicy {
	d := DefaultAttributePolicy()
	if p.HighPositionKeywords == nil {
		p.HighPositionKeywords = d.HighPositionKeywords
	}
	if p.ManagerExclusions == nil {
		p.ManagerExclusions = d.ManagerExclusions
	}
	if p.GraduationMonth == 0 {
		p.GraduationMonth = d.GraduationMonth
	}
	if p.GraduationDay == 0 {
		p.GraduationDay = d.GraduationDay
	}
	return p
}

// Derive recomputes the three employment flags of rec.
func (p AttributePolicy) Derive(rec EmploymentRecord) EmploymentRecord {
	rec.SelfEmployed = IsSelfEmployed(rec.EmploymentType)
	rec.HighPosition = p.IsHighPosition(rec.Position)
	rec.Absorbed = p.IsAbsorbed(rec.OJTCompany, rec.CompanyRaw, rec.DateStarted, rec.YearGraduated)
	return rec
}

// IsSelfEmployed reports whether an employment-type answer says self-employed.
func IsSelfEmployed(employmentType string) bool {
	t := strings.ToLower(employmentType)
	return strings.Contains(t, "self-employed") || strings.Contains(t, "self employed")
}

// IsHighPosition reports whether position names a senior or managerial role.
func (p AttributePolicy) IsHighPosition(position JobTitle) bool {
	pos := strings.ToLower(string(position))
	if pos == "" {
		return false
	}
	if containsAny(pos, p.HighPositionKeywords) {
		return true
	}
	return strings.Contains(pos, "manager") && !containsAny(pos, p.ManagerExclusions)
}

// IsAbsorbed reports whether the graduate was kept on by their OJT company
// or hired no later than graduation. A company match takes precedence over
// the start date.
func (p AttributePolicy) IsAbsorbed(ojtCompany, currentCompany string, started *time.Time, yearGraduated int) bool {
	ojt, okOJT := NormalizeCompany(ojtCompany)
	cur, okCur := NormalizeCompany(currentCompany)
	if okOJT && okCur && (ojt == cur || strings.Contains(ojt, cur) || strings.Contains(cur, ojt)) {
		return true
	}

	if started == nil || yearGraduated <= 0 {
		return false
	}
	return !dateOnly(*started).After(p.GraduationCutoff(yearGraduated))
}

// GraduationCutoff returns the assumed graduation date of a year.
func (p AttributePolicy) GraduationCutoff(year int) time.Time {
	month, day := p.GraduationMonth, p.GraduationDay
	if month < time.January || month > time.December {
		month = time.June
	}
	if day < 1 || day > 31 {
		day = 30
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

package employment

import (
	"fmt"
	"time"

	"jobmate/alignment-service/internal/alignment"
)

// ─── Request / response types ────────────────────────────────────────────────

// PositionInput is the body of PUT /employment/position and of the dry-run check.
// Position and Company are always applied; the optional fields overwrite the
// stored value only when present.
type PositionInput struct {
	Position       string `json:"position" validate:"max=200"`
	Company        string `json:"company" validate:"max=200"`
	EmploymentType string `json:"employmentType,omitempty" validate:"max=100"`
	OJTCompany     string `json:"ojtCompany,omitempty" validate:"max=200"`
	DateStarted    string `json:"dateStarted,omitempty" validate:"omitempty,datetime=2006-01-02"`
	YearGraduated  int    `json:"yearGraduated,omitempty" validate:"omitempty,min=1950,max=2100"`
	Program        string `json:"program,omitempty" validate:"max=120"`
}

// State is the alignment state returned to the Gateway / mobile+web clients.
type State struct {
	UserID            string                `json:"userId"`
	Position          string                `json:"position"`
	Company           string                `json:"company"`
	Program           string                `json:"program"`
	AlignmentStatus   string                `json:"alignmentStatus"`
	AlignmentCategory string                `json:"alignmentCategory,omitempty"`
	AlignmentTitle    string                `json:"alignmentTitle,omitempty"`
	SuggestedProgram  string                `json:"suggestedProgram,omitempty"`
	MatchMethod       string                `json:"matchMethod,omitempty"`
	MatchScore        float64               `json:"matchScore,omitempty"`
	SelfEmployed      bool                  `json:"selfEmployed"`
	HighPosition      bool                  `json:"highPosition"`
	Absorbed          bool                  `json:"absorbed"`
	Suggestion        *alignment.Suggestion `json:"suggestion,omitempty"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// PendingSuggestion is one record awaiting the graduate's answer.
type PendingSuggestion struct {
	UserID      string               `json:"userId"`
	Position    string               `json:"position"`
	MatchMethod string               `json:"matchMethod,omitempty"`
	MatchScore  float64              `json:"matchScore,omitempty"`
	Suggestion  alignment.Suggestion `json:"suggestion"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// BreakdownRow counts records by alignment status for one program.
type BreakdownRow struct {
	Program    string `json:"program"`
	Category   string `json:"category"`
	Label      string `json:"label"`
	Aligned    int    `json:"aligned"`
	Pending    int    `json:"pending"`
	NotAligned int    `json:"notAligned"`
	Total      int    `json:"total"`
}

// Progress reports a running recalculation.
type Progress struct {
	Processed int       `json:"processed"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	Done      bool      `json:"done"`
	StartedAt time.Time `json:"startedAt"`
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when a graduate has no employment record.
var ErrNotFound = fmt.Errorf("employment record not found")

// ErrRateLimited is returned when a graduate sends dry-run checks too fast.
var ErrRateLimited = fmt.Errorf("too many position checks")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

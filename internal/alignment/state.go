// Package alignment decides whether a graduate's job title matches their
// academic program.
//
// State graph of an employment record:
//
//	             classify: own-track match
//	   ┌──────────────────────────────────────────► ALIGNED
//	   │                                               ▲
//	NOT_ALIGNED ──► PENDING_USER_CONFIRMATION ─ yes ───┘  (title written to own track)
//	   ▲                      │
//	   └──────── no ──────────┘
//
// Every position change reclassifies the record from scratch; an empty
// position is always NOT_ALIGNED.
package alignment

import "fmt"

// Status values mirror the job_alignment_status column.
type Status string

const (
	StatusNotAligned Status = "not_aligned"
	StatusAligned    Status = "aligned"
	StatusPending    Status = "pending_user_confirmation"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNotAligned, StatusAligned, StatusPending:
		return st, nil
	}
	return "", fmt.Errorf("unknown alignment status %q", s)
}

// Alignment is the alignment outcome of a record. It can only be built
// through NotAligned, Aligned, Pending or Restore, so the field combinations
// always match the status. The zero value is NotAligned.
type Alignment struct {
	status    Status
	category  Track
	title     JobTitle
	suggested Track
}

// NotAligned is the outcome with no category, title or suggestion. It equals
// the zero Alignment.
func NotAligned() Alignment {
	return Alignment{}
}

// Aligned records a title accepted under category.
func Aligned(category Track, title JobTitle) Alignment {
	return Alignment{status: StatusAligned, category: category, title: title}
}

// Pending awaits the graduate's answer about candidate. category is the
// track the candidate was found in, or "" for a title found nowhere;
// suggested is the program the prompt proposes.
func Pending(candidate JobTitle, category, suggested Track) Alignment {
	return Alignment{status: StatusPending, category: category, title: candidate, suggested: suggested}
}

// Restore rebuilds an Alignment from persisted columns and rejects
// combinations that violate the status invariants.
func Restore(status, category, title, suggested string) (Alignment, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Alignment{}, err
	}
	switch st {
	case StatusNotAligned:
		return NotAligned(), nil
	case StatusAligned:
		if category == "" || title == "" {
			return Alignment{}, fmt.Errorf("aligned record requires category and title")
		}
		return Aligned(Track(category), JobTitle(title)), nil
	default:
		if title == "" || suggested == "" {
			return Alignment{}, fmt.Errorf("pending record requires candidate title and suggested program")
		}
		return Pending(JobTitle(title), Track(category), Track(suggested)), nil
	}
}

// Status returns the alignment status.
func (a Alignment) Status() Status {
	if a.status == "" {
		return StatusNotAligned
	}
	return a.status
}

// Category returns the track the title belongs to, if any.
func (a Alignment) Category() (Track, bool) { return a.category, a.category != "" }

// Title returns the aligned title or the pending candidate, if any.
func (a Alignment) Title() (JobTitle, bool) { return a.title, a.title != "" }

// SuggestedProgram returns the program proposed while pending.
func (a Alignment) SuggestedProgram() (Track, bool) { return a.suggested, a.suggested != "" }

// IsPending reports whether the record awaits confirmation.
func (a Alignment) IsPending() bool { return a.status == StatusPending }

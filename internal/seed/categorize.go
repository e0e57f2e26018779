// Package seed imports reference job titles into the track stores.
package seed

import (
	"slices"
	"strings"
	"unicode"

	"jobmate/alignment-service/internal/alignment"
)

// Rule assigns a title to Track when any keyword occurs in it.
// Keywords of three letters or fewer ("qa", "api", "web") match whole words only.
type Rule struct {
	Track    alignment.Track
	Keywords []string
}

// Categorizer sorts uncategorized titles into one or more tracks.
type Categorizer struct {
	Rules []Rule
	// Fallback is used when no rule matches.
	Fallback func(lowerTitle string) alignment.Track
}

// DefaultCategorizer knows the keyword lists of the three default tracks.
func DefaultCategorizer() Categorizer {
	return Categorizer{
		Rules: []Rule{
			{Track: alignment.TrackInfoTech, Keywords: []string{
				"software", "developer", "programmer", "engineer", "network", "database",
				"web", "mobile", "app", "system administrator", "devops", "cloud",
				"security", "analyst", "architect", "full stack", "backend", "frontend",
				"qa", "quality assurance", "automation", "integration", "api",
				"machine learning", "ai", "data engineer", "infrastructure",
			}},
			{Track: alignment.TrackInfoSystem, Keywords: []string{
				"business", "analyst", "consultant", "manager", "project",
				"data analyst", "business intelligence", "bi", "erp", "crm",
				"systems analyst", "process", "strategy", "operations",
				"product manager", "scrum", "agile", "coordinator",
			}},
			{Track: alignment.TrackCompTech, Keywords: []string{
				"technician", "technical support", "hardware", "repair", "maintenance",
				"installer", "desktop support", "helpdesk", "it support",
				"field", "service", "specialist", "computer support",
				"equipment", "telecommunications", "electronics",
			}},
		},
		Fallback: defaultFallback,
	}
}

func defaultFallback(title string) alignment.Track {
	switch {
	case strings.Contains(title, "manager") || strings.Contains(title, "director"):
		return alignment.TrackInfoSystem
	case strings.Contains(title, "tech"):
		return alignment.TrackCompTech
	default:
		return alignment.TrackInfoTech
	}
}

// Categorize returns the tracks title belongs to, in rule order. It never
// returns an empty list for a non-empty title when a Fallback is set.
func (c Categorizer) Categorize(title string) []alignment.Track {
	lower := strings.ToLower(strings.Join(strings.Fields(title), " "))
	if lower == "" {
		return nil
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var out []alignment.Track
	for _, rule := range c.Rules {
		if matchesAny(lower, words, rule.Keywords) && !slices.Contains(out, rule.Track) {
			out = append(out, rule.Track)
		}
	}
	if len(out) == 0 && c.Fallback != nil {
		out = append(out, c.Fallback(lower))
	}
	return out
}

func matchesAny(lower string, words, keywords []string) bool {
	for _, k := range keywords {
		if len(k) <= 3 {
			if slices.Contains(words, k) {
				return true
			}
		} else if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

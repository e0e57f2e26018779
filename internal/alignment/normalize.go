package alignment

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// JobTitle is a canonical job title: upper-cased, trimmed, with interior
// whitespace collapsed to single spaces. The empty JobTitle never matches and
// is never stored.
type JobTitle string

// IsEmpty reports whether the title carries no text.
func (t JobTitle) IsEmpty() bool { return t == "" }

func (t JobTitle) String() string { return string(t) }

// companySuffixes are stripped from the end of company names. Only the
// first suffix that matches, in this order, is removed.
var companySuffixes = []string{
	" INCORPORATED", " INC.", " CORPORATION", " CORP.",
	" LIMITED", " LTD.", " COMPANY", " CO.", " LLC",
	" INC", " CORP", " LTD", " CO",
}

// NormalizeTitle canonicalizes a raw job title.
func NormalizeTitle(raw string) JobTitle {
	return JobTitle(canonical(raw))
}

// NormalizeCompany canonicalizes a company name and strips one trailing
// corporate suffix. It returns false when nothing is left of the input.
func NormalizeCompany(raw string) (string, bool) {
	name := canonical(raw)
	if name == "" {
		return "", false
	}
	for _, suffix := range companySuffixes {
		if strings.HasSuffix(name, suffix) {
			name = collapse(strings.TrimSuffix(name, suffix))
			break
		}
	}
	return name, name != ""
}

func canonical(raw string) string {
	return norm.NFC.String(strings.ToUpper(collapse(norm.NFC.String(raw))))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package alignment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Similarity scores two normalized titles in [0, 1]; 1 means identical.
type Similarity func(a, b string) float64

// Names accepted by SimilarityByName.
const (
	SimilarityTrigram     = "trigram"
	SimilarityJaroWinkler = "jaro-winkler"
	SimilarityLevenshtein = "levenshtein"
)

// SimilarityByName resolves a configured similarity measure.
func SimilarityByName(name string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SimilarityTrigram:
		return TrigramSimilarity, nil
	case SimilarityJaroWinkler:
		return JaroWinklerSimilarity, nil
	case SimilarityLevenshtein:
		return LevenshteinSimilarity, nil
	}
	return nil, fmt.Errorf("unknown similarity %q", name)
}

// TrigramSimilarity is the Jaccard index of the two strings' trigram sets,
// computed the way PostgreSQL pg_trgm does: words are runs of letters and
// digits, lower-cased and padded with two leading blanks and one trailing
// blank before trigrams are taken.
func TrigramSimilarity(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// JaroWinklerSimilarity favours titles sharing a common prefix.
func JaroWinklerSimilarity(a, b string) float64 {
	return strutil.Similarity(a, b, metrics.NewJaroWinkler())
}

// LevenshteinSimilarity is one minus the normalized edit distance.
func LevenshteinSimilarity(a, b string) float64 {
	return strutil.Similarity(a, b, metrics.NewLevenshtein())
}

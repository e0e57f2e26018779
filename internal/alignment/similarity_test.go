package alignment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/alignment"
)

func TestTrigramSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, alignment.TrigramSimilarity("SOFTWARE ENGINEER", "software engineer"), 1e-9)
	assert.InDelta(t, 0.0, alignment.TrigramSimilarity("", "SOFTWARE"), 1e-9)
	assert.InDelta(t, 0.0, alignment.TrigramSimilarity("ABC", "XYZ"), 1e-9)

	// 13 shared trigrams out of 21 distinct ones.
	assert.InDelta(t, 13.0/21.0, alignment.TrigramSimilarity("SOFTWRE ENGINER", "SOFTWARE ENGINEER"), 1e-9)
}

func TestTrigramSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"DATA ANALYST", "DATA ANALYTICS"},
		{"WEB DEVELOPER", "DEVELOPER"},
		{"IT SUPPORT", "TECHNICAL SUPPORT"},
	}
	for _, p := range pairs {
		assert.Equal(t, alignment.TrigramSimilarity(p[0], p[1]), alignment.TrigramSimilarity(p[1], p[0]))
	}
}

func TestSimilarityByName(t *testing.T) {
	for _, name := range []string{"", "trigram", "Jaro-Winkler", "levenshtein"} {
		sim, err := alignment.SimilarityByName(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 1.0, sim("NETWORK ADMINISTRATOR", "NETWORK ADMINISTRATOR"), 1e-9, name)
	}

	_, err := alignment.SimilarityByName("cosine")
	assert.Error(t, err)
}

func TestEditDistanceSimilarities_Typos(t *testing.T) {
	assert.Greater(t, alignment.JaroWinklerSimilarity("SOFTWRE ENGINER", "SOFTWARE ENGINEER"), 0.9)
	assert.Greater(t, alignment.LevenshteinSimilarity("SOFTWRE ENGINER", "SOFTWARE ENGINEER"), 0.8)
}

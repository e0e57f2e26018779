package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/alignment"
	"jobmate/alignment-service/internal/config"
)

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	for _, k := range []string{"ALIGNMENT_PORT", "ALIGNMENT_GRPC_PORT", "FUZZY_THRESHOLD", "SIMILARITY",
		"GRADUATION_MONTH", "GRADUATION_DAY", "RECALC_SCHEDULE", "ALIGNMENT_CONFIG", "REDIS_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, "9083", cfg.GRPCPort)
	assert.Equal(t, 0.6, cfg.FuzzyThreshold)
	assert.Equal(t, "trigram", cfg.Similarity)
	assert.Equal(t, time.June, cfg.GraduationMonth)
	assert.Equal(t, 30, cfg.GraduationDay)
	assert.Equal(t, "@every 24h", cfg.RecalcSchedule)
	assert.Empty(t, cfg.RedisURL)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []alignment.Track{"BIT-CT", "BSIT", "BSIS"}, catalog.Tracks())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":     "mongo",
		"FUZZY_THRESHOLD":  "1.5",
		"SIMILARITY":       "cosine",
		"GRADUATION_MONTH": "13",
		"GRADUATION_DAY":   "x",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(key, value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alignment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tracks:
  - code: BSCS
    category: comp_sci
    label: BS Computer Science
    aliases: [computer science]
  - code: BSIT
    category: info_tech
highPositionKeywords: [principal, director]
`), 0o600))

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ALIGNMENT_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []alignment.Track{"BSCS", "BSIT"}, catalog.Tracks())
	assert.Equal(t, "BS Computer Science", catalog.Label("BSCS"))

	policy := cfg.AttributePolicy()
	assert.True(t, policy.IsHighPosition("PRINCIPAL ENGINEER"))
	assert.False(t, policy.IsHighPosition("CHIEF COOK"))
}

func TestLoad_YAMLDuplicateTrack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alignment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracks:\n  - code: BSIT\n  - code: bsit\n"), 0o600))

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ALIGNMENT_CONFIG", path)

	_, err := config.Load()
	assert.Error(t, err)
}

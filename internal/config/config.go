// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, Load returns an
// error and the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobmate/alignment-service/internal/alignment"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all runtime configuration for the alignment service.
type Config struct {
	Port     string
	GRPCPort string

	StoreDriver string
	DatabaseURL string
	SQLitePath  string
	RedisURL    string // empty disables event publishing

	LogLevel  string
	LogFormat string

	FuzzyThreshold float64
	Similarity     string

	GraduationMonth time.Month
	GraduationDay   int

	RecalcSchedule string // empty disables scheduled recalculation

	CheckRatePerSec float64
	CheckBurst      int

	Tracks               []alignment.TrackInfo
	HighPositionKeywords []string
}

// FileConfig is the optional YAML document named by ALIGNMENT_CONFIG.
type FileConfig struct {
	Tracks []struct {
		Code     string   `yaml:"code"`
		Category string   `yaml:"category"`
		Label    string   `yaml:"label"`
		Aliases  []string `yaml:"aliases"`
	} `yaml:"tracks"`
	HighPositionKeywords []string `yaml:"highPositionKeywords"`
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("ALIGNMENT_PORT", "8083"),
		GRPCPort:       getenv("ALIGNMENT_GRPC_PORT", "9083"),
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenv("SQLITE_PATH", "alignment.db"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
		Similarity:     getenv("SIMILARITY", "trigram"),
		RecalcSchedule: getenv("RECALC_SCHEDULE", "@every 24h"),
		Tracks:         alignment.DefaultTracks(),
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	case DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be postgres, sqlite or memory, got %q", cfg.StoreDriver)
	}

	var err error
	if cfg.FuzzyThreshold, err = floatEnv("FUZZY_THRESHOLD", alignment.DefaultFuzzyThreshold); err != nil {
		return nil, err
	}
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold >= 1 {
		return nil, fmt.Errorf("FUZZY_THRESHOLD must be between 0 and 1, got %v", cfg.FuzzyThreshold)
	}
	if _, err := alignment.SimilarityByName(cfg.Similarity); err != nil {
		return nil, fmt.Errorf("SIMILARITY: %w", err)
	}

	month, err := intEnv("GRADUATION_MONTH", int(time.June))
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("GRADUATION_MONTH must be 1-12, got %d", month)
	}
	cfg.GraduationMonth = time.Month(month)
	if cfg.GraduationDay, err = intEnv("GRADUATION_DAY", 30); err != nil {
		return nil, err
	}
	if cfg.GraduationDay < 1 || cfg.GraduationDay > 31 {
		return nil, fmt.Errorf("GRADUATION_DAY must be 1-31, got %d", cfg.GraduationDay)
	}

	if cfg.CheckRatePerSec, err = floatEnv("CHECK_RATE_PER_SEC", 5); err != nil {
		return nil, err
	}
	if cfg.CheckBurst, err = intEnv("CHECK_BURST", 10); err != nil {
		return nil, err
	}

	if path := os.Getenv("ALIGNMENT_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if _, err := alignment.NewCatalog(cfg.Tracks); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Catalog builds the program catalog from the configured tracks.
func (c *Config) Catalog() (*alignment.Catalog, error) {
	return alignment.NewCatalog(c.Tracks)
}

// AttributePolicy returns the derivation policy with the configured overrides.
func (c *Config) AttributePolicy() alignment.AttributePolicy {
	p := alignment.DefaultAttributePolicy()
	if len(c.HighPositionKeywords) > 0 {
		p.HighPositionKeywords = c.HighPositionKeywords
	}
	if c.GraduationMonth != 0 {
		p.GraduationMonth = c.GraduationMonth
	}
	if c.GraduationDay != 0 {
		p.GraduationDay = c.GraduationDay
	}
	return p
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ALIGNMENT_CONFIG: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("ALIGNMENT_CONFIG %s: %w", path, err)
	}
	if len(fc.Tracks) > 0 {
		c.Tracks = make([]alignment.TrackInfo, 0, len(fc.Tracks))
		for _, t := range fc.Tracks {
			c.Tracks = append(c.Tracks, alignment.TrackInfo{
				Code:     alignment.Track(t.Code),
				Category: t.Category,
				Label:    t.Label,
				Aliases:  t.Aliases,
			})
		}
	}
	if len(fc.HighPositionKeywords) > 0 {
		c.HighPositionKeywords = fc.HighPositionKeywords
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Package config reads the externally supplied knobs: concurrency ceilings,
// request timeout, reference principals and the category vocabulary. Values
// come from the environment (a .env file is honored when present) with
// defaults that match a polite production run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// SourceConcurrency bounds how many sources are worked in parallel.
	SourceConcurrency int
	// DetailConcurrency bounds detail fetches within one source task.
	DetailConcurrency int
	// GlobalHTTPConcurrency caps in-flight HTTP calls across the whole run.
	GlobalHTTPConcurrency int64
	// RequestTimeout bounds every single HTTP call.
	RequestTimeout time.Duration

	// ReferencePrincipals are the loan amounts repayments are derived for.
	ReferencePrincipals []float64
	// CategoryTerms is the vocabulary used to select in-scope products by
	// substring match against category, name and description.
	CategoryTerms []string

	// SourcesFile optionally overrides the embedded source registry.
	SourcesFile string
	// DatabaseURL enables the Postgres sink when set.
	DatabaseURL string
}

func Load() (Config, error) {
	// missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	cfg := Config{
		SourceConcurrency:     8,
		DetailConcurrency:     4,
		GlobalHTTPConcurrency: 16,
		RequestTimeout:        20 * time.Second,
		ReferencePrincipals:   []float64{300_000, 500_000, 750_000},
		CategoryTerms:         []string{"residential", "mortgage", "home loan", "home"},
		SourcesFile:           os.Getenv("TRACKER_SOURCES_FILE"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.SourceConcurrency, err = envInt("TRACKER_SOURCE_CONCURRENCY", cfg.SourceConcurrency); err != nil {
		return Config{}, err
	}
	if cfg.DetailConcurrency, err = envInt("TRACKER_DETAIL_CONCURRENCY", cfg.DetailConcurrency); err != nil {
		return Config{}, err
	}
	global, err := envInt("TRACKER_GLOBAL_HTTP_CONCURRENCY", int(cfg.GlobalHTTPConcurrency))
	if err != nil {
		return Config{}, err
	}
	cfg.GlobalHTTPConcurrency = int64(global)
	if cfg.RequestTimeout, err = envDuration("TRACKER_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ReferencePrincipals, err = envFloats("TRACKER_REFERENCE_PRINCIPALS", cfg.ReferencePrincipals); err != nil {
		return Config{}, err
	}
	cfg.CategoryTerms = envStrings("TRACKER_CATEGORY_TERMS", cfg.CategoryTerms)

	if cfg.SourceConcurrency < 1 || cfg.DetailConcurrency < 1 || cfg.GlobalHTTPConcurrency < 1 {
		return Config{}, fmt.Errorf("concurrency settings must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("request timeout must be positive")
	}
	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func envFloats(key string, def []float64) ([]float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", key, p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func envStrings(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

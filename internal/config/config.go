// Package config loads and validates AstroPhoenix configuration.
package config

import (
	"net/url"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
)

// Worker pool bounds. The pool size is seeded from the host CPU count and
// clamped to this range to balance throughput against overwhelming the
// static file host.
const (
	MinWorkers = 2
	MaxWorkers = 8
)

// Config represents the complete AstroPhoenix configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Source  SourceConfig  `yaml:"source" json:"source"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SourceConfig configures the remote document store.
type SourceConfig struct {
	// BaseURL is the static host serving the corpus, e.g.
	// "https://papers.example.com/corpus/". A trailing slash is added if missing.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Manifest is the manifest object name relative to BaseURL.
	Manifest string `yaml:"manifest" json:"manifest"`

	// FetchTimeout bounds a single document fetch attempt.
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// IndexConfig configures the concurrent indexer.
type IndexConfig struct {
	// Workers is the number of concurrent fetch-and-index workers.
	// Zero means derive from the host CPU count. The effective value is
	// always clamped to [MinWorkers, MaxWorkers].
	Workers int `yaml:"workers" json:"workers"`
}

// SearchConfig configures query-time ranking.
type SearchConfig struct {
	// FuzzyThreshold is the maximum normalized dissimilarity a fuzzy hit may
	// have before it is dropped (0.0 = identical, 1.0 = unrelated).
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`

	// ScopedCandidateLimit is the candidate-set size at or below which the
	// engine builds a throwaway fuzzy index over just the candidates instead
	// of searching the global one.
	ScopedCandidateLimit int `yaml:"scoped_candidate_limit" json:"scoped_candidate_limit"`

	// FuzzyLimit caps the number of hits requested from the fuzzy ranker.
	FuzzyLimit int `yaml:"fuzzy_limit" json:"fuzzy_limit"`

	// TitleWeight and ContentWeight set the field weighting for fuzzy
	// matching. Defaults favor titles roughly 7:3.
	TitleWeight   float64 `yaml:"title_weight" json:"title_weight"`
	ContentWeight float64 `yaml:"content_weight" json:"content_weight"`

	// ExcerptRadius is the half-width in characters of the excerpt window
	// centered on an exact content match.
	ExcerptRadius int `yaml:"excerpt_radius" json:"excerpt_radius"`

	// FallbackExcerptLength is the excerpt length used when the query does
	// not occur verbatim in the content.
	FallbackExcerptLength int `yaml:"fallback_excerpt_length" json:"fallback_excerpt_length"`

	// CacheSize is the number of query results kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Source: SourceConfig{
			Manifest:     "manifest.json",
			FetchTimeout: 30 * time.Second,
		},
		Index: IndexConfig{
			Workers: 0, // derive from CPU count
		},
		Search: SearchConfig{
			FuzzyThreshold:        0.6,
			ScopedCandidateLimit:  600,
			FuzzyLimit:            50,
			TitleWeight:           7,
			ContentWeight:         3,
			ExcerptRadius:         110,
			FallbackExcerptLength: 250,
			CacheSize:             128,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Override mutates a Config after file and env values are applied, before
// validation. Used by the CLI to map flags onto configuration.
type Override func(*Config)

// WithBaseURL overrides the corpus base URL when non-empty.
func WithBaseURL(baseURL string) Override {
	return func(c *Config) {
		if baseURL != "" {
			c.Source.BaseURL = baseURL
		}
	}
}

// WithWorkers overrides the worker count when positive.
func WithWorkers(n int) Override {
	return func(c *Config) {
		if n > 0 {
			c.Index.Workers = n
		}
	}
}

// Load reads configuration from a YAML file, applies env overrides and any
// explicit overrides, and validates the result. A missing file is not an
// error: defaults plus overrides are returned.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, pherrors.ConfigError("failed to parse config file", err).
				WithDetail("path", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, pherrors.ConfigError("failed to read config file", err).
			WithDetail("path", path)
	}

	cfg.applyEnvOverrides()
	for _, o := range overrides {
		o(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
// Env vars take priority over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ASTROPHOENIX_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("ASTROPHOENIX_MANIFEST"); v != "" {
		c.Source.Manifest = v
	}
	if v := os.Getenv("ASTROPHOENIX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Index.Workers = n
		}
	}
	if v := os.Getenv("ASTROPHOENIX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return pherrors.ConfigError("source base_url is required", nil)
	}
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return pherrors.ConfigError("source base_url must be an absolute URL", err).
			WithDetail("base_url", c.Source.BaseURL)
	}
	if c.Source.Manifest == "" {
		return pherrors.ConfigError("source manifest is required", nil)
	}
	if c.Search.FuzzyThreshold <= 0 || c.Search.FuzzyThreshold > 1 {
		return pherrors.ConfigError("search fuzzy_threshold must be in (0, 1]", nil)
	}
	if c.Search.ScopedCandidateLimit < 0 {
		return pherrors.ConfigError("search scoped_candidate_limit must be >= 0", nil)
	}
	if c.Search.TitleWeight <= 0 || c.Search.ContentWeight <= 0 {
		return pherrors.ConfigError("search field weights must be positive", nil)
	}
	return nil
}

// EffectiveWorkers resolves the worker count: the configured value, or the
// host CPU count when unset, clamped to [MinWorkers, MaxWorkers].
func (c *Config) EffectiveWorkers() int {
	n := c.Index.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < MinWorkers {
		n = MinWorkers
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}

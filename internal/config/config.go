// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and ARENA_* environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Default data source: the vote log is fetched through a CORS relay.
const (
	DefaultFeedURL  = "https://raw.githubusercontent.com/SALT-NLP/talk-arena/refs/heads/main/live_votes.json"
	DefaultProxyURL = "https://api.allorigins.win/raw?url="
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FeedURL is the JSON vote document.
	FeedURL string `koanf:"feed_url"`

	// ProxyURL is prepended to the escaped FeedURL. Empty fetches directly.
	ProxyURL string `koanf:"proxy_url"`

	// PollInterval is the time between scheduled refreshes.
	PollInterval time.Duration `koanf:"poll_interval"`

	// FetchTimeout bounds a single feed download.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// MaxFeedBytes caps the feed response body.
	MaxFeedBytes int64 `koanf:"max_feed_bytes"`

	// ValidateSchema enables JSON Schema validation of the feed envelope.
	ValidateSchema bool `koanf:"validate_schema"`

	// Rating engine parameters.
	BootstrapRounds int     `koanf:"bootstrap_rounds"`
	Seed            uint64  `koanf:"seed"`
	MaxIterations   int     `koanf:"max_iterations"`
	Tolerance       float64 `koanf:"tolerance"`
	LearningRate    float64 `koanf:"learning_rate"`
	Base            float64 `koanf:"base"`
	Scale           float64 `koanf:"scale"`
	InitRating      float64 `koanf:"init_rating"`

	// Anchor pins a competitor's displayed rating to AnchorRating.
	Anchor       string  `koanf:"anchor"`
	AnchorRating float64 `koanf:"anchor_rating"`

	// Parallelism bounds concurrently executing bootstrap rounds.
	Parallelism int `koanf:"parallelism"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// HistoryDSN enables the Postgres rating history when set.
	HistoryDSN string `koanf:"history_dsn"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		FeedURL:             DefaultFeedURL,
		ProxyURL:            DefaultProxyURL,
		PollInterval:        5 * time.Minute,
		FetchTimeout:        30 * time.Second,
		MaxFeedBytes:        64 << 20,
		ValidateSchema:      true,
		BootstrapRounds:     100,
		Seed:                42,
		MaxIterations:       1000,
		Tolerance:           1e-6,
		LearningRate:        0.5,
		Base:                10,
		Scale:               400,
		InitRating:          1000,
		AnchorRating:        1000,
		Parallelism:         runtime.NumCPU(),
		MaxLeaderboardLimit: 100,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.FeedURL) == "":
		return fmt.Errorf("%w: feed_url must not be empty", ErrInvalidConfig)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalidConfig)
	case c.FetchTimeout <= 0:
		return fmt.Errorf("%w: fetch_timeout must be positive", ErrInvalidConfig)
	case c.MaxFeedBytes <= 0:
		return fmt.Errorf("%w: max_feed_bytes must be positive", ErrInvalidConfig)
	case c.BootstrapRounds < 1:
		return fmt.Errorf("%w: bootstrap_rounds must be at least 1", ErrInvalidConfig)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be at least 1", ErrInvalidConfig)
	case c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidConfig)
	case c.LearningRate <= 0 || c.LearningRate > 1:
		return fmt.Errorf("%w: learning_rate must be in (0, 1]", ErrInvalidConfig)
	case c.Base <= 1:
		return fmt.Errorf("%w: base must be greater than 1", ErrInvalidConfig)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive", ErrInvalidConfig)
	case c.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}

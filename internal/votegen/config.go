// Package votegen produces synthetic pairwise vote logs from known
// Bradley-Terry strengths, for demos and end-to-end checks.
package votegen

import "errors"

// Generator defaults.
const (
	DefaultVotes       = 5000
	DefaultTieRate     = 0.1
	DefaultLatencyRate = 0.8
	DefaultBase        = 10
	DefaultScale       = 400
)

// Sentinel kinds for generator errors.
var (
	ErrTooFewCompetitors = errors.New("at least two competitors are required")
	ErrDuplicateName     = errors.New("duplicate competitor name")
	ErrInvalidConfig     = errors.New("invalid generator config")
)

// Competitor is a synthetic model with a true rating on the display scale
// and mean response characteristics.
type Competitor struct {
	Name           string
	Rating         float64
	FirstToken     float64 // seconds
	TotalTime      float64 // seconds
	ResponseLength float64
}

// Config controls vote generation.
type Config struct {
	Competitors []Competitor
	Votes       int
	Seed        uint64
	// TieRate is the probability that a vote is a tie.
	TieRate float64
	// LatencyRate is the probability that a vote carries latency objects.
	LatencyRate float64
	Base        float64
	Scale       float64
}

// Option configures a Config.
type Option func(*Config)

// WithCompetitors replaces the default roster.
func WithCompetitors(cs ...Competitor) Option {
	return func(c *Config) {
		c.Competitors = cs
	}
}

// WithVotes sets the number of votes.
func WithVotes(n int) Option {
	return func(c *Config) {
		c.Votes = n
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithTieRate sets the tie probability.
func WithTieRate(p float64) Option {
	return func(c *Config) {
		c.TieRate = p
	}
}

// WithLatencyRate sets the probability that a vote carries latencies.
func WithLatencyRate(p float64) Option {
	return func(c *Config) {
		c.LatencyRate = p
	}
}

// WithScale sets the logistic base and rating scale used to turn rating
// gaps into win probabilities.
func WithScale(base, scale float64) Option {
	return func(c *Config) {
		c.Base = base
		c.Scale = scale
	}
}

// DefaultCompetitors is a small roster with well separated ratings.
func DefaultCompetitors() []Competitor {
	return []Competitor{
		{Name: "gpt4o", Rating: 1150, FirstToken: 0.45, TotalTime: 4.1, ResponseLength: 380},
		{Name: "claude", Rating: 1100, FirstToken: 0.60, TotalTime: 5.2, ResponseLength: 450},
		{Name: "gemini", Rating: 1000, FirstToken: 0.35, TotalTime: 3.3, ResponseLength: 310},
		{Name: "qwen", Rating: 930, FirstToken: 0.30, TotalTime: 2.9, ResponseLength: 260},
		{Name: "mistral", Rating: 880, FirstToken: 0.25, TotalTime: 2.4, ResponseLength: 220},
	}
}

// NewConfig returns defaults overridden by opts.
func NewConfig(opts ...Option) Config {
	c := Config{
		Competitors: DefaultCompetitors(),
		Votes:       DefaultVotes,
		Seed:        1,
		TieRate:     DefaultTieRate,
		LatencyRate: DefaultLatencyRate,
		Base:        DefaultBase,
		Scale:       DefaultScale,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

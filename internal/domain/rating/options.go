package rating

import "runtime"

// Default engine parameters.
const (
	DefaultBase            = 10.0
	DefaultScale           = 400.0
	DefaultInitRating      = 1000.0
	DefaultTolerance       = 1e-6
	DefaultMaxIterations   = 1000
	DefaultLearningRate    = 0.5
	DefaultBootstrapRounds = 100
	DefaultSeed            = 42
)

// Config holds the numerical parameters of a fit.
type Config struct {
	Base          float64
	Scale         float64
	InitRating    float64
	Tolerance     float64
	MaxIterations int
	LearningRate  float64

	Rounds      int
	Seed        uint64
	Parallelism int

	// Anchor, when present in the data, is shifted to AnchorRating.
	Anchor       string
	AnchorRating float64

	Sources SourceFactory
}

// DefaultConfig returns the canonical parameters.
func DefaultConfig() Config {
	return Config{
		Base:          DefaultBase,
		Scale:         DefaultScale,
		InitRating:    DefaultInitRating,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		LearningRate:  DefaultLearningRate,
		Rounds:        DefaultBootstrapRounds,
		Seed:          DefaultSeed,
		Parallelism:   runtime.NumCPU(),
		AnchorRating:  DefaultInitRating,
		Sources:       PCGSource,
	}
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBase sets the odds base; alpha = ln(base).
func WithBase(base float64) Option {
	return func(e *Engine) {
		if base > 1 {
			e.cfg.Base = base
		}
	}
}

// WithScale sets the display scale and the rating assigned to latent zero.
func WithScale(scale, initRating float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.cfg.Scale = scale
		}
		e.cfg.InitRating = initRating
	}
}

// WithConvergence sets the tolerance and iteration cap of each fit.
func WithConvergence(tolerance float64, maxIterations int) Option {
	return func(e *Engine) {
		if tolerance > 0 {
			e.cfg.Tolerance = tolerance
		}
		if maxIterations > 0 {
			e.cfg.MaxIterations = maxIterations
		}
	}
}

// WithLearningRate sets the gradient step size. The step is normalized per
// competitor, so rates outside (0, 1] can oscillate and are ignored.
func WithLearningRate(rate float64) Option {
	return func(e *Engine) {
		if rate > 0 && rate <= 1 {
			e.cfg.LearningRate = rate
		}
	}
}

// WithBootstrap sets the number of rounds and the seed.
func WithBootstrap(rounds int, seed uint64) Option {
	return func(e *Engine) {
		if rounds > 0 {
			e.cfg.Rounds = rounds
		}
		e.cfg.Seed = seed
	}
}

// WithParallelism bounds the number of rounds fitted concurrently.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cfg.Parallelism = n
		}
	}
}

// WithAnchor pins a competitor's displayed rating.
func WithAnchor(name string, rating float64) Option {
	return func(e *Engine) {
		e.cfg.Anchor = name
		e.cfg.AnchorRating = rating
	}
}

// WithSourceFactory injects the per-round random source.
func WithSourceFactory(f SourceFactory) Option {
	return func(e *Engine) {
		if f != nil {
			e.cfg.Sources = f
		}
	}
}

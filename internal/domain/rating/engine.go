// Package rating fits Bradley-Terry ratings with bootstrap confidence
// intervals from aggregated head-to-head records.
//
// Each bootstrap round resamples the pairing weights, fits latent strengths
// by normalized gradient descent with zero-mean re-centering, and maps them
// to the display scale. The reported rating is the per-competitor median
// across rounds and the interval spans the 2.5th to 97.5th percentile.
package rating

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/model"
)

// Estimate is a competitor's rating with its 95% interval.
type Estimate struct {
	Rating float64
	Lower  float64
	Upper  float64
}

// Result is the output of Rate.
type Result struct {
	Ratings         map[string]Estimate
	Rounds          int
	ConvergedRounds int
	// MaxIterations is the largest iteration count used by any round.
	MaxIterations int
	// Converged is true only when every round converged.
	Converged bool
	Pairings  int
}

// Engine runs rating fits. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with defaults overridden by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

type roundResult struct {
	display    []float64
	iterations int
	converged  bool
}

// Rate fits all competitors in stats. It does not modify stats.
func (e *Engine) Rate(ctx context.Context, stats map[string]*model.CompetitorStats) (Result, error) {
	names := headtohead.Names(stats)
	problem := NewProblem(names, headtohead.Pairings(stats))
	return e.RateProblem(ctx, problem)
}

// RateProblem runs the bootstrap over an indexed problem.
func (e *Engine) RateProblem(ctx context.Context, p Problem) (Result, error) {
	cfg := e.cfg
	res := Result{Ratings: make(map[string]Estimate, len(p.Names)), Pairings: len(p.Edges)}
	if len(p.Names) == 0 {
		res.Converged = true
		return res, nil
	}

	rounds := make([]roundResult, cfg.Rounds)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Parallelism))
	for k := range cfg.Rounds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(cfg.Sources(cfg.Seed, k)) //nolint:gosec // reproducible bootstrap, not security sensitive
			weights := Resample(p.Weights, rng)
			fit := Fit(len(p.Names), p.Edges, weights, cfg)
			rounds[k] = roundResult{
				display:    Display(p.Names, fit.Latent, cfg),
				iterations: fit.Iterations,
				converged:  fit.Converged,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	res.Rounds = cfg.Rounds
	for _, r := range rounds {
		if r.converged {
			res.ConvergedRounds++
		}
		if r.iterations > res.MaxIterations {
			res.MaxIterations = r.iterations
		}
	}
	res.Converged = res.ConvergedRounds == res.Rounds

	values := make([]float64, cfg.Rounds)
	for i, name := range p.Names {
		for k, r := range rounds {
			values[k] = r.display[i]
		}
		median, lower, upper := Percentiles(values)
		res.Ratings[name] = Estimate{Rating: median, Lower: lower, Upper: upper}
	}
	return res, nil
}

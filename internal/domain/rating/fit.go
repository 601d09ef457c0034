package rating

import (
	"math"

	"github.com/okian/arena/internal/domain/headtohead"
)

// Edge is a pairing expressed as competitor indices.
type Edge struct {
	I, J    int
	Outcome float64
}

// Problem is the indexed form of a set of pairings.
type Problem struct {
	Names   []string
	Edges   []Edge
	Weights []float64
}

// NewProblem indexes pairings against names. Pairings naming an unknown
// competitor or carrying no weight are skipped.
func NewProblem(names []string, pairings []headtohead.Pairing) Problem {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	p := Problem{Names: names}
	for _, pr := range pairings {
		i, okI := index[pr.Subject]
		j, okJ := index[pr.Opponent]
		if !okI || !okJ || pr.Weight <= 0 {
			continue
		}
		p.Edges = append(p.Edges, Edge{I: i, J: j, Outcome: pr.Outcome})
		p.Weights = append(p.Weights, pr.Weight)
	}
	return p
}

// FitResult is the latent solution of one fit.
type FitResult struct {
	Latent     []float64
	Iterations int
	Converged  bool
}

func expit(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Step performs one normalized gradient-descent update of the weighted
// negative log-likelihood and re-centers the result to zero mean. It returns
// the new vector and the largest absolute change. latent is not modified.
func Step(latent []float64, edges []Edge, weights []float64, cfg Config) ([]float64, float64) {
	n := len(latent)
	alpha := math.Log(cfg.Base)
	grad := make([]float64, n)
	touch := make([]float64, n)

	for k, e := range edges {
		w := weights[k]
		if w <= 0 {
			continue
		}
		p := expit(alpha * (latent[e.I] - latent[e.J]))
		g := -alpha * (e.Outcome - p) * w
		grad[e.I] += g
		grad[e.J] -= g
		touch[e.I] += w
		touch[e.J] += w
	}

	next := make([]float64, n)
	var mean float64
	for k := range latent {
		next[k] = latent[k]
		if touch[k] > 0 {
			next[k] -= cfg.LearningRate * grad[k] / touch[k]
		}
		mean += next[k]
	}
	if n > 0 {
		mean /= float64(n)
	}

	var maxDelta float64
	for k := range next {
		next[k] -= mean
		if d := math.Abs(next[k] - latent[k]); d > maxDelta {
			maxDelta = d
		}
	}
	return next, maxDelta
}

// Fit iterates Step from the all-zero vector until the largest change drops
// below the tolerance or the iteration cap is reached.
func Fit(n int, edges []Edge, weights []float64, cfg Config) FitResult {
	latent := make([]float64, n)
	res := FitResult{Latent: latent}
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		next, delta := Step(latent, edges, weights, cfg)
		latent = next
		res.Iterations = iter
		if delta < cfg.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Latent = latent
	return res
}

// Display maps latent values to the display scale, then shifts everything so
// the anchor competitor lands on cfg.AnchorRating when it is present.
func Display(names []string, latent []float64, cfg Config) []float64 {
	out := make([]float64, len(latent))
	for k, v := range latent {
		out[k] = v*cfg.Scale + cfg.InitRating
	}
	if cfg.Anchor == "" {
		return out
	}
	for k, name := range names {
		if name == cfg.Anchor {
			shift := cfg.AnchorRating - out[k]
			for m := range out {
				out[m] += shift
			}
			break
		}
	}
	return out
}

package rating

import "math/rand/v2"

// SourceFactory returns the random source for one bootstrap round. It must
// be a pure function of (seed, round) for results to be reproducible.
type SourceFactory func(seed uint64, round int) rand.Source

// PCGSource derives a PCG stream per round.
func PCGSource(seed uint64, round int) rand.Source {
	return rand.NewPCG(seed, uint64(round)) //nolint:gosec // round is never negative
}

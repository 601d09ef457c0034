package rating

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Resample perturbs each weight with the Gaussian approximation of a
// binomial draw over the total weight N, clamps at zero and renormalizes
// the result to sum to N. If every weight collapses to zero the input is
// returned unchanged.
func Resample(weights []float64, rng *rand.Rand) []float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	out := make([]float64, len(weights))
	if total <= 0 {
		copy(out, weights)
		return out
	}

	var sum float64
	for k, w := range weights {
		p := w / total
		sd := math.Sqrt(total * p * (1 - p))
		v := w + sd*rng.NormFloat64()
		if v < 0 {
			v = 0
		}
		out[k] = v
		sum += v
	}
	if sum <= 0 {
		copy(out, weights)
		return out
	}
	scale := total / sum
	for k := range out {
		out[k] *= scale
	}
	return out
}

// Percentiles returns the median and the 2.5th/97.5th percentile of values.
// values is sorted in place.
func Percentiles(values []float64) (median, lower, upper float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}
	sort.Float64s(values)
	hi := int(math.Floor(0.975 * float64(n)))
	if hi > n-1 {
		hi = n - 1
	}
	return values[n/2], values[int(math.Floor(0.025*float64(n)))], values[hi]
}

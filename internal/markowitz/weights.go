package markowitz

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
)

// WeightHints is the caller's starting allocation: either Unspecified, in which
// case a random allocation is drawn, or an Explicit ticker→weight map.
type WeightHints struct {
	explicit map[string]float64
}

// Unspecified returns hints that ask for a random starting allocation.
func Unspecified() WeightHints {
	return WeightHints{}
}

// Explicit returns hints for the given weights. Tickers absent from the map
// start at zero.
func Explicit(weights map[string]float64) WeightHints {
	return WeightHints{explicit: weights}
}

// IsExplicit reports whether h carries caller weights.
func (h WeightHints) IsExplicit() bool {
	return h.explicit != nil
}

// Resolve turns h into a positional vector aligned with tickers that sums to 1.
// An all-zero explicit map is treated as Unspecified.
func (h WeightHints) Resolve(tickers []string, rng *rand.Rand) ([]float64, error) {
	w := make([]float64, len(tickers))
	if h.explicit != nil {
		for ticker, v := range h.explicit {
			i := slices.IndexFunc(tickers, func(t string) bool { return strings.EqualFold(t, ticker) })
			if i < 0 {
				return nil, fmt.Errorf("%w: weight given for %s which is not in the ticker list", ErrInvalidInput, ticker)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("%w: weight for %s must be a non-negative number", ErrInvalidInput, ticker)
			}
			w[i] += v
		}
	}

	total := 0.0
	for _, v := range w {
		total += v
	}
	if total == 0 {
		w = randomWeights(len(tickers), rng)
		return w, nil
	}
	for i := range w {
		w[i] /= total
	}
	return w, nil
}

// randomWeights draws independent uniform(0,1) values and normalizes them.
func randomWeights(n int, rng *rand.Rand) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = rng.Float64()
	}
	return clipAndNormalize(w)
}

// newRand returns rng, or a randomly seeded generator when rng is nil.
func newRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

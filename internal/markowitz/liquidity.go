package markowitz

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// LiquidLabel is the only label value treated as liquid (case-insensitive).
const LiquidLabel = "liquid"

// IsLiquidLabel reports whether label marks an asset as liquid.
func IsLiquidLabel(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), LiquidLabel)
}

// LiquidityMask returns 1 for tickers labelled liquid and 0 otherwise,
// including tickers with no label.
func LiquidityMask(tickers []string, labels map[string]string) []float64 {
	mask := make([]float64, len(tickers))
	for i, t := range tickers {
		label, ok := labels[t]
		if !ok {
			label = labels[strings.ToUpper(t)]
		}
		if IsLiquidLabel(label) {
			mask[i] = 1
		}
	}
	return mask
}

// LiquidShare returns w·mask.
func LiquidShare(w, mask []float64) float64 {
	return floats.Dot(w, mask)
}

// NormalizeLiquidityTarget accepts a fraction in [0,1] or a percentage in (1,100].
func NormalizeLiquidityTarget(t float64) (float64, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return 0, fmt.Errorf("%w: liquidity target %v must be a non-negative number", ErrInvalidInput, t)
	}
	if t > 1 {
		t /= 100
	}
	if t > 1 {
		return 0, fmt.Errorf("%w: liquidity target %v%% exceeds 100%%", ErrInvalidInput, t*100)
	}
	return t, nil
}

// ProjectLiquidity tilts w toward a minimum liquid share of target. Mass moves
// from the illiquid bucket to the liquid bucket in proportion to each asset's
// existing share of its bucket. The result is only a warm start: it sums to 1
// and is non-negative but is not guaranteed to meet the target exactly.
func ProjectLiquidity(w, mask []float64, target float64) []float64 {
	out := clipAndNormalize(w)

	current := LiquidShare(out, mask)
	liquidCount := int(floats.Sum(mask))
	illiquidCount := len(mask) - liquidCount
	if current >= target || liquidCount == 0 || illiquidCount == 0 {
		return out
	}

	liquidMass := current
	illiquidMass := floats.Sum(out) - current

	// share of bucket; an empty bucket with members is spread uniformly
	share := func(i int) float64 {
		if mask[i] == 1 {
			if liquidMass == 0 {
				return 1 / float64(liquidCount)
			}
			return out[i] / liquidMass
		}
		if illiquidMass == 0 {
			return 1 / float64(illiquidCount)
		}
		return out[i] / illiquidMass
	}

	take := math.Min(target-liquidMass, illiquidMass)
	shifted := make([]float64, len(out))
	for i := range out {
		if mask[i] == 1 {
			shifted[i] = out[i] + take*share(i)
		} else {
			shifted[i] = out[i] - take*share(i)
		}
	}
	return clipAndNormalize(shifted)
}

// clipAndNormalize clips negatives to zero and scales to sum 1, falling back to
// equal weights when nothing positive remains.
func clipAndNormalize(w []float64) []float64 {
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = math.Max(0, v)
	}
	total := floats.Sum(out)
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	floats.Scale(1/total, out)
	return out
}

package markowitz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestProjectLiquidity_ShiftsToTarget(t *testing.T) {
	w := ProjectLiquidity([]float64{0.2, 0.8}, []float64{1, 0}, 0.5)

	assert.InDelta(t, 0.5, LiquidShare(w, []float64{1, 0}), 1e-12)
	assert.InDelta(t, 1.0, floats.Sum(w), 1e-12)
	for _, v := range w {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestProjectLiquidity_PreservesBucketProportions(t *testing.T) {
	mask := []float64{1, 1, 0, 0}
	w := ProjectLiquidity([]float64{0.1, 0.3, 0.2, 0.4}, mask, 0.7)

	assert.InDelta(t, 0.7, LiquidShare(w, mask), 1e-12)
	// 1:3 within the liquid bucket and 1:2 within the illiquid bucket.
	assert.InDelta(t, 3.0, w[1]/w[0], 1e-9)
	assert.InDelta(t, 2.0, w[3]/w[2], 1e-9)
}

func TestProjectLiquidity_Unchanged(t *testing.T) {
	tests := []struct {
		name   string
		w      []float64
		mask   []float64
		target float64
	}{
		{"already satisfied", []float64{0.6, 0.4}, []float64{1, 0}, 0.5},
		{"no liquid assets", []float64{0.6, 0.4}, []float64{0, 0}, 0.5},
		{"no illiquid assets", []float64{0.6, 0.4}, []float64{1, 1}, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectLiquidity(tt.w, tt.mask, tt.target)
			assert.InDeltaSlice(t, tt.w, got, 1e-12)
		})
	}
}

func TestProjectLiquidity_EmptyLiquidBucketSpreadsUniformly(t *testing.T) {
	mask := []float64{1, 1, 0}
	w := ProjectLiquidity([]float64{0, 0, 1}, mask, 0.4)

	assert.InDeltaSlice(t, []float64{0.2, 0.2, 0.6}, w, 1e-12)
}

func TestProjectLiquidity_ClipsAndNormalizes(t *testing.T) {
	w := ProjectLiquidity([]float64{-1, 2, 2}, []float64{1, 0, 0}, 0)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.5}, w, 1e-12)

	w = ProjectLiquidity([]float64{0, 0}, []float64{1, 0}, 0)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, w, 1e-12)
}

func TestProjectLiquidity_CapsAtIlliquidMass(t *testing.T) {
	w := ProjectLiquidity([]float64{0.5, 0.5}, []float64{1, 0}, 1)
	assert.InDeltaSlice(t, []float64{1, 0}, w, 1e-12)
}

func TestLiquidityMask(t *testing.T) {
	mask := LiquidityMask(
		[]string{"SPY", "BND", "PRIV", "GLD"},
		map[string]string{"SPY": "Liquid", "BND": " LIQUID ", "PRIV": "illiquid"},
	)
	assert.Equal(t, []float64{1, 1, 0, 0}, mask)
}

func TestNormalizeLiquidityTarget(t *testing.T) {
	v, err := NormalizeLiquidityTarget(0.3)
	assert.NoError(t, err)
	assert.Equal(t, 0.3, v)

	v, err = NormalizeLiquidityTarget(30)
	assert.NoError(t, err)
	assert.InDelta(t, 0.3, v, 1e-15)

	_, err = NormalizeLiquidityTarget(-0.1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NormalizeLiquidityTarget(150)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

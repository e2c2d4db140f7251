package markowitz

import (
	"fmt"
	"slices"

	"github.com/epeers/markowitz/internal/solver"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultFrontierPoints is the sweep resolution used when none is given.
const DefaultFrontierPoints = 300

// Portfolio is a weight vector with its daily return and daily risk.
type Portfolio struct {
	Weights []float64
	Return  float64
	Risk    float64
}

// FrontierRecord is one efficient portfolio with annualized return and risk.
// Return is compounded over a trading year.
type FrontierRecord struct {
	Weights []float64
	Return  float64
	Risk    float64
}

// FrontierParams configures ComputeEfficientFrontier.
type FrontierParams struct {
	Tickers []string
	Mean    []float64
	Cov     mat.Symmetric
	// Seed is a known minimum-variance (or otherwise optimal) portfolio. When nil
	// the global minimum-variance portfolio is solved for first.
	Seed      *Portfolio
	NumPoints int
	// Bounds defaults to [0,1] per asset.
	Bounds []solver.Bound
	Solver *solver.Settings
}

// ComputeEfficientFrontier sweeps target returns from max(0, min μ) to max μ and
// records the minimum-risk portfolio for each target that the solver converges
// on. The sweep is seeded with every pure asset whose expected return is
// non-negative and with the seed portfolio. Exact duplicates are removed and
// sweep order is preserved.
func ComputeEfficientFrontier(p FrontierParams) ([]FrontierRecord, error) {
	n := len(p.Tickers)
	if n < 2 {
		return nil, fmt.Errorf("%w: at least 2 assets are required, got %d", ErrInvalidInput, n)
	}
	if p.Cov == nil {
		return nil, fmt.Errorf("%w: covariance matrix is required", ErrInvalidInput)
	}
	if err := checkDims(make([]float64, n), p.Mean, p.Cov); err != nil {
		return nil, err
	}
	bounds := p.Bounds
	if bounds == nil {
		bounds = unitBounds(n)
	}
	if len(bounds) != n {
		return nil, fmt.Errorf("%w: %d bounds for %d assets", ErrInvalidInput, len(bounds), n)
	}
	numPoints := p.NumPoints
	if numPoints <= 0 {
		numPoints = DefaultFrontierPoints
	}

	seed := p.Seed
	if seed == nil {
		var err error
		seed, err = MinimumVariance(p.Mean, p.Cov, bounds, p.Solver)
		if err != nil {
			return nil, err
		}
	}
	if len(seed.Weights) != n {
		return nil, fmt.Errorf("%w: seed portfolio has %d weights for %d assets", ErrInvalidInput, len(seed.Weights), n)
	}

	records := make([]FrontierRecord, 0, n+1+numPoints)
	for i, m := range p.Mean {
		if m < 0 {
			continue
		}
		w := make([]float64, n)
		w[i] = 1
		records = append(records, annualizedRecord(w, p.Mean, p.Cov))
	}
	records = append(records, annualizedRecord(seed.Weights, p.Mean, p.Cov))

	swept := fold(returnTargets(p.Mean, numPoints), sweepState{warm: seed.Weights},
		func(st sweepState, target float64) sweepState {
			res, err := solveMinRisk(p.Mean, p.Cov, bounds, st.warm, []solver.Constraint{targetReturnConstraint(p.Mean, target)}, p.Solver)
			if err != nil || !res.Success {
				return st
			}
			w := cleanWeights(res.X, bounds)
			return sweepState{
				warm:    w,
				records: append(st.records, annualizedRecord(w, p.Mean, p.Cov)),
			}
		})

	return dedupeRecords(append(records, swept.records...)), nil
}

// MinimumVariance solves for the global minimum-variance portfolio.
func MinimumVariance(mu []float64, cov mat.Symmetric, bounds []solver.Bound, settings *solver.Settings) (*Portfolio, error) {
	n := len(mu)
	if bounds == nil {
		bounds = unitBounds(n)
	}
	start := make([]float64, n)
	for i := range start {
		start[i] = 1 / float64(n)
	}
	res, err := solveMinRisk(mu, cov, bounds, start, nil, settings)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: minimum variance: %s", ErrSolverFailed, res.Message)
	}
	w := cleanWeights(res.X, bounds)
	return &Portfolio{Weights: w, Return: PortfolioReturn(w, mu), Risk: PortfolioRisk(w, cov)}, nil
}

// sweepState is the accumulator threaded through the target grid: the warm start
// for the next solve and the records collected so far.
type sweepState struct {
	warm    []float64
	records []FrontierRecord
}

func fold[T, A any](xs []T, acc A, step func(A, T) A) A {
	for _, x := range xs {
		acc = step(acc, x)
	}
	return acc
}

// returnTargets spaces n daily targets over [max(0, min μ), max μ]. It is empty
// when every asset has a negative expected return.
func returnTargets(mu []float64, n int) []float64 {
	lo := max(0, floats.Min(mu))
	hi := floats.Max(mu)
	if hi < lo {
		return nil
	}
	if n == 1 {
		return []float64{hi}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// solveMinRisk minimizes annualized variance under sum(w)=1 plus extra.
func solveMinRisk(mu []float64, cov mat.Symmetric, bounds []solver.Bound, start []float64, extra []solver.Constraint, settings *solver.Settings) (*solver.Result, error) {
	problem := solver.Problem{
		Func: func(w []float64) float64 {
			return PortfolioVariance(w, cov) * TradingDaysPerYear
		},
		Grad: func(grad, w []float64) {
			varianceGradient(grad, w, cov, TradingDaysPerYear)
		},
		Constraints: append([]solver.Constraint{budgetConstraint()}, extra...),
		Bounds:      bounds,
	}
	return solver.Minimize(problem, start, settings)
}

func budgetConstraint() solver.Constraint {
	return solver.Constraint{
		Type: solver.Equality,
		Func: func(w []float64) float64 { return floats.Sum(w) - 1 },
		Grad: func(grad, _ []float64) {
			for i := range grad {
				grad[i] = 1
			}
		},
	}
}

// targetReturnConstraint pins w·μ to target. Both sides are annualized so the
// residual is on the same scale as the budget constraint.
func targetReturnConstraint(mu []float64, target float64) solver.Constraint {
	return solver.Constraint{
		Type: solver.Equality,
		Func: func(w []float64) float64 {
			return (PortfolioReturn(w, mu) - target) * TradingDaysPerYear
		},
		Grad: func(grad, _ []float64) {
			for i := range grad {
				grad[i] = mu[i] * TradingDaysPerYear
			}
		},
	}
}

// minShareConstraint requires w·mask >= target.
func minShareConstraint(mask []float64, target float64) solver.Constraint {
	return solver.Constraint{
		Type: solver.Inequality,
		Func: func(w []float64) float64 { return LiquidShare(w, mask) - target },
		Grad: func(grad, _ []float64) { copy(grad, mask) },
	}
}

func unitBounds(n int) []solver.Bound {
	b := make([]solver.Bound, n)
	for i := range b {
		b[i] = solver.Bound{Lower: 0, Upper: 1}
	}
	return b
}

// cleanWeights removes round-off from a converged solve: clamps into bounds and
// rescales to sum exactly 1.
func cleanWeights(x []float64, bounds []solver.Bound) []float64 {
	w := make([]float64, len(x))
	for i, v := range x {
		w[i] = min(max(v, bounds[i].Lower), bounds[i].Upper)
	}
	if total := floats.Sum(w); total > 0 {
		floats.Scale(1/total, w)
	}
	return w
}

func annualizedRecord(w, mu []float64, cov mat.Symmetric) FrontierRecord {
	return FrontierRecord{
		Weights: slices.Clone(w),
		Return:  AnnualizeCompound(PortfolioReturn(w, mu)),
		Risk:    AnnualizeRisk(PortfolioRisk(w, cov)),
	}
}

func dedupeRecords(records []FrontierRecord) []FrontierRecord {
	out := make([]FrontierRecord, 0, len(records))
	for _, r := range records {
		dup := slices.ContainsFunc(out, func(o FrontierRecord) bool {
			return o.Return == r.Return && o.Risk == r.Risk && slices.Equal(o.Weights, r.Weights)
		})
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

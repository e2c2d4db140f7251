package markowitz

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Simulation is a cloud of random long-only portfolios. The four slices have
// the same length. Sharpe is return over risk with no risk-free deduction, and
// is NaN when risk is zero.
type Simulation struct {
	Tickers      []string
	Weights      [][]float64
	Returns      []float64
	Risks        []float64
	Sharpes      []float64
	Observations int
	Truncated    bool
}

// SimulateRandomPortfolios draws count uniformly random weight vectors and
// reports annualized return, risk and return/risk for each. It never feeds
// back into optimization.
func SimulateRandomPortfolios(tickers []string, series []ReturnSeries, count int, rng *rand.Rand) (*Simulation, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidInput, count)
	}
	ordered, err := orderSeries(tickers, series)
	if err != nil {
		return nil, err
	}
	model, err := ComputeRiskModel(ordered)
	if err != nil {
		return nil, err
	}
	rng = newRand(rng)

	sim := &Simulation{
		Tickers:      tickers,
		Weights:      make([][]float64, count),
		Returns:      make([]float64, count),
		Risks:        make([]float64, count),
		Sharpes:      make([]float64, count),
		Observations: model.Observations,
		Truncated:    model.Truncated,
	}
	for k := range count {
		w := randomWeights(len(tickers), rng)
		ret := AnnualizeLinear(PortfolioReturn(w, model.Mean))
		risk := AnnualizeRisk(PortfolioRisk(w, model.Covariance))

		sim.Weights[k] = w
		sim.Returns[k] = ret
		sim.Risks[k] = risk
		sim.Sharpes[k] = math.NaN()
		if risk != 0 {
			sim.Sharpes[k] = ret / risk
		}
	}
	return sim, nil
}

package markowitz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/epeers/markowitz/internal/solver"
	"gonum.org/v1/gonum/floats"
)

// Objective selects what the orchestrator minimizes.
type Objective string

const (
	// MinRisk minimizes portfolio variance.
	MinRisk Objective = "min_risk"
	// MaxSharpe maximizes the Sharpe ratio (tangency portfolio).
	MaxSharpe Objective = "max_sharpe"
)

// ParseObjective maps a request value to an Objective. Empty means MinRisk.
func ParseObjective(s string) (Objective, error) {
	switch Objective(strings.ToLower(strings.TrimSpace(s))) {
	case "", MinRisk:
		return MinRisk, nil
	case MaxSharpe:
		return MaxSharpe, nil
	default:
		return "", fmt.Errorf("%w: unknown objective %q", ErrInvalidInput, s)
	}
}

// OptimizeInput is everything OptimizePortfolio needs. Series must contain one
// entry per ticker; RiskFreeRate is an annual decimal (0.03 for 3%).
type OptimizeInput struct {
	Tickers         []string
	Series          []ReturnSeries
	Hints           WeightHints
	RiskFreeRate    float64
	LiquidityTarget *float64
	LiquidityLabels map[string]string
	Objective       Objective
	FrontierPoints  int
	// Rand seeds random starting weights. Nil uses a randomly seeded source.
	Rand   *rand.Rand
	Solver *solver.Settings
}

// OptimizationReport is the result of a successful optimization. Weights are
// fractions aligned with Tickers; Return, Risk and Sharpe are annualized.
type OptimizationReport struct {
	Tickers      []string
	RiskFreeRate float64
	Weights      []float64
	Return       float64
	Risk         float64
	// Sharpe is nil when Risk is exactly zero.
	Sharpe   *float64
	Frontier []FrontierRecord
	// LiquidityTarget and LiquidityAchieved are nil when no target was requested.
	LiquidityTarget   *float64
	LiquidityAchieved *float64
	Observations      int
	Truncated         bool
	SolverIterations  int
}

// OptimizePortfolio builds the risk model, solves for the optimal long-only
// portfolio under a full-investment constraint and an optional liquidity
// floor, and sweeps the efficient frontier seeded by the solution.
func OptimizePortfolio(in OptimizeInput) (*OptimizationReport, error) {
	if len(in.Tickers) < 2 {
		return nil, fmt.Errorf("%w: at least 2 tickers are required, got %d", ErrInvalidInput, len(in.Tickers))
	}
	objective := in.Objective
	if objective == "" {
		objective = MinRisk
	}
	if objective != MinRisk && objective != MaxSharpe {
		return nil, fmt.Errorf("%w: unknown objective %q", ErrInvalidInput, objective)
	}

	series, err := orderSeries(in.Tickers, in.Series)
	if err != nil {
		return nil, err
	}
	model, err := ComputeRiskModel(series)
	if err != nil {
		return nil, err
	}
	n := len(in.Tickers)
	mask := LiquidityMask(in.Tickers, in.LiquidityLabels)

	var target *float64
	if in.LiquidityTarget != nil {
		t, err := NormalizeLiquidityTarget(*in.LiquidityTarget)
		if err != nil {
			return nil, err
		}
		if floats.Sum(mask) == 0 {
			return nil, fmt.Errorf("%w: liquidity target %.4g requested but none of %s is labelled liquid",
				ErrInfeasible, t, strings.Join(in.Tickers, ", "))
		}
		target = &t
	}

	start, err := in.Hints.Resolve(in.Tickers, newRand(in.Rand))
	if err != nil {
		return nil, err
	}
	constraints := []solver.Constraint{budgetConstraint()}
	if target != nil {
		start = ProjectLiquidity(start, mask, *target)
		constraints = append(constraints, minShareConstraint(mask, *target))
	}

	bounds := unitBounds(n)
	problem := solver.Problem{
		Func: func(w []float64) float64 {
			return PortfolioVariance(w, model.Covariance) * TradingDaysPerYear
		},
		Grad: func(grad, w []float64) {
			varianceGradient(grad, w, model.Covariance, TradingDaysPerYear)
		},
		Constraints: constraints,
		Bounds:      bounds,
	}
	if objective == MaxSharpe {
		problem.Func, problem.Grad = sharpeObjective(model.Mean, model.Covariance, in.RiskFreeRate/TradingDaysPerYear)
	}

	res, err := solver.Minimize(problem, start, in.Solver)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverFailed, err)
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s", ErrSolverFailed, res.Message)
	}

	w := cleanWeights(res.X, bounds)
	dailyReturn := PortfolioReturn(w, model.Mean)
	dailyRisk := PortfolioRisk(w, model.Covariance)

	report := &OptimizationReport{
		Tickers:          in.Tickers,
		RiskFreeRate:     in.RiskFreeRate,
		Weights:          w,
		Return:           AnnualizeLinear(dailyReturn),
		Risk:             AnnualizeRisk(dailyRisk),
		Observations:     model.Observations,
		Truncated:        model.Truncated,
		SolverIterations: res.Iterations,
	}
	if report.Risk != 0 {
		sharpe := (report.Return - in.RiskFreeRate) / report.Risk
		report.Sharpe = &sharpe
	}
	if target != nil {
		achieved := LiquidShare(w, mask)
		report.LiquidityTarget = target
		report.LiquidityAchieved = &achieved
	}

	report.Frontier, err = ComputeEfficientFrontier(FrontierParams{
		Tickers:   in.Tickers,
		Mean:      model.Mean,
		Cov:       model.Covariance,
		Seed:      &Portfolio{Weights: w, Return: dailyReturn, Risk: dailyRisk},
		NumPoints: in.FrontierPoints,
		Bounds:    bounds,
		Solver:    in.Solver,
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

package markowitz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TradingDaysPerYear is the annualization convention for daily statistics.
const TradingDaysPerYear = 252

// PortfolioVariance returns wᵀΣw.
func PortfolioVariance(w []float64, cov mat.Symmetric) float64 {
	v := mat.NewVecDense(len(w), w)
	return mat.Inner(v, cov, v)
}

// PortfolioRisk is the canonical portfolio risk: the standard deviation
// sqrt(wᵀΣw), with negative round-off clamped to zero.
func PortfolioRisk(w []float64, cov mat.Symmetric) float64 {
	return math.Sqrt(math.Max(0, PortfolioVariance(w, cov)))
}

// PortfolioReturn returns w·μ.
func PortfolioReturn(w, mu []float64) float64 {
	return floats.Dot(w, mu)
}

// NegativeSharpe returns -(w·μ - rf)/sqrt(wᵀΣw). rf must share μ's periodicity.
func NegativeSharpe(w, mu []float64, cov mat.Symmetric, rf float64) (float64, error) {
	risk := PortfolioRisk(w, cov)
	if risk == 0 {
		return 0, ErrZeroRisk
	}
	return -(PortfolioReturn(w, mu) - rf) / risk, nil
}

// AnnualizeLinear scales a daily return by the trading-day count.
func AnnualizeLinear(daily float64) float64 {
	return daily * TradingDaysPerYear
}

// AnnualizeCompound compounds a daily return over a trading year.
func AnnualizeCompound(daily float64) float64 {
	return math.Pow(1+daily, TradingDaysPerYear) - 1
}

// AnnualizeRisk scales a daily standard deviation to annual.
func AnnualizeRisk(daily float64) float64 {
	return daily * math.Sqrt(TradingDaysPerYear)
}

// varianceGradient writes scale·2Σw into grad.
func varianceGradient(grad, w []float64, cov mat.Symmetric, scale float64) {
	g := mat.NewVecDense(len(grad), grad)
	g.MulVec(cov, mat.NewVecDense(len(w), w))
	floats.Scale(2*scale, grad)
}

// sharpeObjective builds an annualized negative Sharpe objective and its
// gradient for the solver. Risk is floored so the function stays finite if an
// iterate passes through a zero-variance combination.
func sharpeObjective(mu []float64, cov mat.Symmetric, dailyRF float64) (func([]float64) float64, func(grad, x []float64)) {
	const riskFloor = 1e-12
	sqrtDays := math.Sqrt(TradingDaysPerYear)
	n := len(mu)
	sigmaW := mat.NewVecDense(n, nil)

	f := func(w []float64) float64 {
		sd := math.Max(PortfolioRisk(w, cov), riskFloor)
		return -sqrtDays * (PortfolioReturn(w, mu) - dailyRF) / sd
	}
	grad := func(g, w []float64) {
		sd := math.Max(PortfolioRisk(w, cov), riskFloor)
		excess := PortfolioReturn(w, mu) - dailyRF
		sigmaW.MulVec(cov, mat.NewVecDense(n, w))
		for i := range g {
			g[i] = -sqrtDays * (mu[i]/sd - excess*sigmaW.AtVec(i)/(sd*sd*sd))
		}
	}
	return f, grad
}

func checkDims(w, mu []float64, cov mat.Symmetric) error {
	if cov.SymmetricDim() != len(mu) || len(w) != len(mu) {
		return fmt.Errorf("%w: dimension mismatch between weights (%d), means (%d) and covariance (%d)",
			ErrInvalidInput, len(w), len(mu), cov.SymmetricDim())
	}
	return nil
}

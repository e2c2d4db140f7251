package markowitz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RiskModel is the per-asset mean daily return and the sample covariance of
// daily returns. It is rebuilt for every request.
type RiskModel struct {
	Tickers      []string
	Mean         []float64
	Covariance   *mat.SymDense
	Observations int
	Truncated    bool
}

// ComputeRiskModel aligns series and derives the mean vector and covariance matrix.
func ComputeRiskModel(series []ReturnSeries) (*RiskModel, error) {
	m, err := alignForModel(series)
	if err != nil {
		return nil, err
	}
	return NewRiskModel(m), nil
}

// NewRiskModel derives a RiskModel from an already aligned matrix.
func NewRiskModel(m *ReturnMatrix) *RiskModel {
	_, cols := m.Data.Dims()
	mean := make([]float64, cols)
	for j := range cols {
		mean[j] = stat.Mean(mat.Col(nil, j, m.Data), nil)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, m.Data, nil)

	return &RiskModel{
		Tickers:      m.Tickers,
		Mean:         mean,
		Covariance:   &cov,
		Observations: m.Observations,
		Truncated:    m.Truncated,
	}
}

// CovarianceCorrelation holds the sample covariance and Pearson correlation of a
// set of aligned series.
type CovarianceCorrelation struct {
	Tickers      []string
	Covariance   *mat.SymDense
	Correlation  *mat.SymDense
	Observations int
	Truncated    bool
	// ZeroVariance lists tickers whose returns are constant. Their correlation
	// with other assets is reported as 0.
	ZeroVariance []string
}

// ComputeCovarianceCorrelation aligns series with the same truncation policy as
// ComputeRiskModel and returns both matrices.
func ComputeCovarianceCorrelation(series []ReturnSeries) (*CovarianceCorrelation, error) {
	m, err := alignForModel(series)
	if err != nil {
		return nil, err
	}

	var cov, corr mat.SymDense
	stat.CovarianceMatrix(&cov, m.Data, nil)
	stat.CorrelationMatrix(&corr, m.Data, nil)

	out := &CovarianceCorrelation{
		Tickers:      m.Tickers,
		Covariance:   &cov,
		Correlation:  &corr,
		Observations: m.Observations,
		Truncated:    m.Truncated,
	}

	n := cov.SymmetricDim()
	for i := range n {
		if cov.At(i, i) == 0 {
			out.ZeroVariance = append(out.ZeroVariance, m.Tickers[i])
		}
		for j := i; j < n; j++ {
			if math.IsNaN(corr.At(i, j)) {
				v := 0.0
				if i == j {
					v = 1
				}
				corr.SetSym(i, j, v)
			}
		}
	}
	return out, nil
}

func alignForModel(series []ReturnSeries) (*ReturnMatrix, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("%w: at least 2 assets are required, got %d", ErrInvalidInput, len(series))
	}
	m, err := AlignReturns(series)
	if err != nil {
		return nil, err
	}
	if m.Observations < 2 {
		return nil, fmt.Errorf("%w: at least 2 common observations are required, got %d", ErrInvalidInput, m.Observations)
	}
	return m, nil
}

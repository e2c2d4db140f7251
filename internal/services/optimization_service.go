package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/epeers/markowitz/internal/markowitz"
	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/repository"
	"github.com/epeers/markowitz/internal/solver"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// MaxSimulationCount bounds the number of random portfolios per request.
const MaxSimulationCount = 200000

// OptimizationConfig holds request defaults.
type OptimizationConfig struct {
	FrontierPoints      int
	SimulationCount     int
	SolverMaxIterations int
}

// OptimizationService is the boundary between stored securities and the
// optimization core. It resolves tickers to return series, the rate choice to
// an annual rate, and maps core results to API responses.
type OptimizationService struct {
	securities *SecurityService
	rates      *RateService
	cfg        OptimizationConfig
	// newRand supplies the random source for starting weights and simulation.
	// It returns nil by default, which lets the core seed randomly.
	newRand func() *rand.Rand
}

// NewOptimizationService creates a new OptimizationService
func NewOptimizationService(securities *SecurityService, rates *RateService, cfg OptimizationConfig) *OptimizationService {
	if cfg.FrontierPoints <= 0 {
		cfg.FrontierPoints = markowitz.DefaultFrontierPoints
	}
	if cfg.SimulationCount <= 0 {
		cfg.SimulationCount = 50000
	}
	return &OptimizationService{
		securities: securities,
		rates:      rates,
		cfg:        cfg,
		newRand:    func() *rand.Rand { return nil },
	}
}

func (s *OptimizationService) solverSettings() *solver.Settings {
	st := solver.DefaultSettings()
	if s.cfg.SolverMaxIterations > 0 {
		st.MaxInnerIterations = s.cfg.SolverMaxIterations
	}
	return st
}

func requireTickers(raw []string) ([]string, error) {
	tickers := NormalizeTickers(raw)
	if len(tickers) < 2 {
		return nil, fmt.Errorf("%w: at least 2 distinct tickers are required, got %d", markowitz.ErrInvalidInput, len(tickers))
	}
	return tickers, nil
}

// Optimize solves for the optimal portfolio of the requested tickers and the
// efficient frontier around it.
func (s *OptimizationService) Optimize(ctx context.Context, req *models.OptimizeRequest) (*models.OptimizeResponse, error) {
	defer TrackTime("OptimizationService.Optimize", time.Now())

	tickers, err := requireTickers(req.Tickers)
	if err != nil {
		return nil, err
	}
	objective, err := markowitz.ParseObjective(req.Objective)
	if err != nil {
		return nil, err
	}
	rateType, err := ParseRateType(req.RiskFreeType)
	if err != nil {
		return nil, err
	}
	if req.FrontierPoints < 0 {
		return nil, fmt.Errorf("%w: frontierPoints must be positive", markowitz.ErrInvalidInput)
	}

	hintMap, err := req.Weights.ToMap(tickers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", markowitz.ErrInvalidInput, err)
	}
	hints := markowitz.Unspecified()
	if hasWeight(hintMap) {
		hints = markowitz.Explicit(hintMap)
	} else {
		AddWarning(ctx, models.WarnWeightsRandomized, "no starting weights given; a random allocation was used")
	}

	rate, err := s.rates.Resolve(ctx, rateType, req.RiskFree)
	if err != nil {
		return nil, err
	}

	series, labels, err := s.securities.LoadReturnSeries(ctx, tickers)
	if err != nil {
		return nil, err
	}
	for t, l := range req.LiquidityLabels {
		labels[NormalizeTicker(t)] = l
	}
	warnTruncation(ctx, series)

	points := req.FrontierPoints
	if points == 0 {
		points = s.cfg.FrontierPoints
	}
	report, err := markowitz.OptimizePortfolio(markowitz.OptimizeInput{
		Tickers:         tickers,
		Series:          series,
		Hints:           hints,
		RiskFreeRate:    rate.Rate,
		LiquidityTarget: req.LiquidityFactor,
		LiquidityLabels: labels,
		Objective:       objective,
		FrontierPoints:  points,
		Rand:            s.newRand(),
		Solver:          s.solverSettings(),
	})
	if err != nil {
		return nil, err
	}
	log.Infof("optimized %s (%s): return %.4f risk %.4f over %d observations, %d frontier points",
		strings.Join(tickers, ","), objective, report.Return, report.Risk, report.Observations, len(report.Frontier))

	resp := &models.OptimizeResponse{
		RiskFree:          rate.Rate,
		RiskFreeType:      rate.Type,
		Tickers:           tickers,
		OptimalWeights:    make([]float64, len(tickers)),
		WeightsByTicker:   make(map[string]float64, len(tickers)),
		OptimalReturn:     report.Return,
		OptimalRisk:       report.Risk,
		OptimalSharpe:     report.Sharpe,
		EfficientFrontier: frontierPoints(tickers, report.Frontier),
		LiquidityTarget:   report.LiquidityTarget,
		LiquidityAchieved: report.LiquidityAchieved,
		Observations:      report.Observations,
	}
	for i, t := range tickers {
		resp.OptimalWeights[i] = report.Weights[i] * 100
		resp.WeightsByTicker[t] = report.Weights[i] * 100
	}
	return resp, nil
}

func hasWeight(m map[string]float64) bool {
	for _, v := range m {
		if v != 0 {
			return true
		}
	}
	return false
}

// Frontier sweeps the efficient frontier seeded by the global minimum-variance portfolio.
func (s *OptimizationService) Frontier(ctx context.Context, req *models.FrontierRequest) (*models.FrontierResponse, error) {
	defer TrackTime("OptimizationService.Frontier", time.Now())

	tickers, err := requireTickers(req.Tickers)
	if err != nil {
		return nil, err
	}
	if req.NumPoints < 0 {
		return nil, fmt.Errorf("%w: num_points must be positive", markowitz.ErrInvalidInput)
	}
	series, _, err := s.securities.LoadReturnSeries(ctx, tickers)
	if err != nil {
		return nil, err
	}
	warnTruncation(ctx, series)

	model, err := markowitz.ComputeRiskModel(series)
	if err != nil {
		return nil, err
	}
	points := req.NumPoints
	if points == 0 {
		points = s.cfg.FrontierPoints
	}
	records, err := markowitz.ComputeEfficientFrontier(markowitz.FrontierParams{
		Tickers:   tickers,
		Mean:      model.Mean,
		Cov:       model.Covariance,
		NumPoints: points,
		Solver:    s.solverSettings(),
	})
	if err != nil {
		return nil, err
	}
	return &models.FrontierResponse{
		Tickers:           tickers,
		EfficientFrontier: frontierPoints(tickers, records),
		Observations:      model.Observations,
	}, nil
}

// CovarianceCorrelation returns both matrices for tickers. Tickers that are not
// stored yet are ingested first.
func (s *OptimizationService) CovarianceCorrelation(ctx context.Context, raw []string) (*models.CovarianceResponse, error) {
	defer TrackTime("OptimizationService.CovarianceCorrelation", time.Now())

	tickers, err := requireTickers(raw)
	if err != nil {
		return nil, err
	}
	if err := s.ensureStored(ctx, tickers); err != nil {
		return nil, err
	}
	series, _, err := s.securities.LoadReturnSeries(ctx, tickers)
	if err != nil {
		return nil, err
	}
	warnTruncation(ctx, series)

	cc, err := markowitz.ComputeCovarianceCorrelation(series)
	if err != nil {
		return nil, err
	}
	for _, t := range cc.ZeroVariance {
		AddWarning(ctx, models.WarnZeroVariance, "%s has constant returns; its correlations are reported as 0", t)
	}
	return &models.CovarianceResponse{
		Tickers:      tickers,
		Covariance:   symRows(cc.Covariance),
		Correlation:  symRows(cc.Correlation),
		Observations: cc.Observations,
	}, nil
}

func (s *OptimizationService) ensureStored(ctx context.Context, tickers []string) error {
	_, _, err := s.securities.LoadReturnSeries(ctx, tickers)
	if !errors.Is(err, repository.ErrSecurityNotFound) {
		return err
	}
	for _, t := range tickers {
		if _, err := s.securities.AddSecurity(ctx, t); err != nil && !errors.Is(err, ErrSecurityExists) {
			return err
		}
	}
	return nil
}

// Simulate samples count random long-only portfolios. Zero means the
// configured default.
func (s *OptimizationService) Simulate(ctx context.Context, raw []string, count int) (*models.SimulationResponse, error) {
	defer TrackTime("OptimizationService.Simulate", time.Now())

	tickers, err := requireTickers(raw)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		count = s.cfg.SimulationCount
	}
	if count < 0 || count > MaxSimulationCount {
		return nil, fmt.Errorf("%w: n_portfolios must be between 1 and %d", markowitz.ErrInvalidInput, MaxSimulationCount)
	}
	series, _, err := s.securities.LoadReturnSeries(ctx, tickers)
	if err != nil {
		return nil, err
	}
	warnTruncation(ctx, series)

	sim, err := markowitz.SimulateRandomPortfolios(tickers, series, count, s.newRand())
	if err != nil {
		return nil, err
	}
	sharpes := make([]*float64, len(sim.Sharpes))
	for i, v := range sim.Sharpes {
		if !math.IsNaN(v) {
			sharpes[i] = &v
		}
	}
	return &models.SimulationResponse{
		Tickers:      tickers,
		NPortfolios:  count,
		SimWeights:   sim.Weights,
		SimReturns:   sim.Returns,
		SimRisks:     sim.Risks,
		SharpeRatios: sharpes,
	}, nil
}

// warnTruncation records a warning when the series differ in length and will
// be cut to the shortest.
func warnTruncation(ctx context.Context, series []markowitz.ReturnSeries) {
	if len(series) == 0 {
		return
	}
	shortest, longest := series[0], series[0]
	for _, sr := range series[1:] {
		if len(sr.Returns) < len(shortest.Returns) {
			shortest = sr
		}
		if len(sr.Returns) > len(longest.Returns) {
			longest = sr
		}
	}
	if len(shortest.Returns) == len(longest.Returns) {
		return
	}
	AddWarning(ctx, models.WarnSeriesTruncated,
		"return series differ in length (%s has %d, %s has %d); the most recent %d observations were used",
		shortest.Ticker, len(shortest.Returns), longest.Ticker, len(longest.Returns), len(shortest.Returns))
}

func frontierPoints(tickers []string, records []markowitz.FrontierRecord) []models.FrontierPoint {
	out := make([]models.FrontierPoint, len(records))
	for i, r := range records {
		out[i] = models.FrontierPoint{Tickers: tickers, Weights: r.Weights, Return: r.Return, Risk: r.Risk}
	}
	return out
}

func symRows(m mat.Symmetric) [][]float64 {
	n := m.SymmetricDim()
	rows := make([][]float64, n)
	for i := range n {
		rows[i] = make([]float64, n)
		for j := range n {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

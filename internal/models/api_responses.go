package models

import (
	"time"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AddSecurityRequest is the body of POST /api/securities
type AddSecurityRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

// AddSecuritiesRequest is the body of POST /api/securities/bulk
type AddSecuritiesRequest struct {
	Tickers []string `json:"tickers" binding:"required"`
}

// AddSecurityResponse reports a stored security without its full return history.
type AddSecurityResponse struct {
	Message      string    `json:"message"`
	Ticker       string    `json:"ticker"`
	LongName     string    `json:"long_name"`
	Observations int       `json:"observations"`
	FirstDate    string    `json:"first_date"`
	LastDate     string    `json:"last_date"`
	FetchedOn    time.Time `json:"fetched_on"`
	Refreshed    bool      `json:"refreshed"`
}

// BulkAddResult is the outcome for one ticker of a bulk ingest.
type BulkAddResult struct {
	Ticker string               `json:"ticker"`
	Status string               `json:"status"` // "created", "refreshed", "exists" or "error"
	Error  string               `json:"error,omitempty"`
	Result *AddSecurityResponse `json:"result,omitempty"`
}

// BulkAddResponse is the response of POST /api/securities/bulk
type BulkAddResponse struct {
	Results []BulkAddResult `json:"results"`
}

// SecurityInfoResponse is GET /api/securities/:ticker. Statistics are annualized percentages.
type SecurityInfoResponse struct {
	Ticker         string    `json:"ticker"`
	LongName       string    `json:"long_name"`
	DailyReturns   []float64 `json:"daily_returns"`
	ExpectedReturn float64   `json:"expected_return"`
	VariancePct    float64   `json:"variance_pct"`
	StdDev         float64   `json:"std_dev"`
	FetchedOn      time.Time `json:"fetched_on"`
	LiquidityLabel string    `json:"liquidity_label"`
	ProxyCategory  string    `json:"proxy_category"`
}

// SecurityListResponse is GET /api/securities/all
type SecurityListResponse struct {
	Status string            `json:"status"`
	Data   []SecuritySummary `json:"data"`
}

// SetLiquidityRequest is the body of PUT /api/securities/:ticker/liquidity
type SetLiquidityRequest struct {
	LiquidityLabel string `json:"liquidity_label" binding:"required"`
	ProxyCategory  string `json:"proxy_category"`
}

// LiquidityImportResponse reports a CSV label upload.
type LiquidityImportResponse struct {
	Updated  int       `json:"updated"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// CovarianceResponse is GET /api/securities/covariance-correlation
type CovarianceResponse struct {
	Tickers      []string    `json:"tickers"`
	Covariance   [][]float64 `json:"covariance_matrix"`
	Correlation  [][]float64 `json:"correlation_matrix"`
	Observations int         `json:"observations"`
	Warnings     []Warning   `json:"warnings,omitempty"`
}

// OptimizeRequest is the body of POST /api/securities/optimal_portfolio.
// RiskFree is a percentage (3 means 3%); LiquidityFactor is a fraction or percentage.
type OptimizeRequest struct {
	Tickers         []string          `json:"tickers" binding:"required"`
	Weights         WeightInput       `json:"weights"`
	RiskFree        *float64          `json:"riskFree"`
	RiskFreeType    string            `json:"riskFree_Type"`
	LiquidityFactor *float64          `json:"liquidityFactor"`
	LiquidityLabels map[string]string `json:"liquidityLabels"`
	Objective       string            `json:"objective"`
	FrontierPoints  int               `json:"frontierPoints"`
}

// OptimizeResponse is the optimization report. Weights are percentages in
// ticker order; return, risk and the rate are annual decimals.
type OptimizeResponse struct {
	RiskFree          float64            `json:"riskFree"`
	RiskFreeType      RateType           `json:"riskFree_Type"`
	Tickers           []string           `json:"tickers"`
	OptimalWeights    []float64          `json:"optimal_weights"`
	WeightsByTicker   map[string]float64 `json:"weights_by_ticker"`
	OptimalReturn     float64            `json:"optimal_return"`
	OptimalRisk       float64            `json:"optimal_risk"`
	OptimalSharpe     *float64           `json:"optimal_sharpe"`
	EfficientFrontier []FrontierPoint    `json:"efficient_frontier"`
	LiquidityTarget   *float64           `json:"liquidity_target"`
	LiquidityAchieved *float64           `json:"liquidity_achieved"`
	Observations      int                `json:"observations"`
	Warnings          []Warning          `json:"warnings,omitempty"`
}

// FrontierRequest is the body of POST /api/securities/efficient_frontier
type FrontierRequest struct {
	Tickers   []string `json:"tickers" binding:"required"`
	NumPoints int      `json:"num_points"`
}

// FrontierResponse is the efficient frontier without an optimal portfolio.
type FrontierResponse struct {
	Tickers           []string        `json:"tickers"`
	EfficientFrontier []FrontierPoint `json:"efficient_frontier"`
	Observations      int             `json:"observations"`
	Warnings          []Warning       `json:"warnings,omitempty"`
}

// SimulationResponse is GET /api/securities/simulation. A nil Sharpe ratio
// means the sampled portfolio had zero risk.
type SimulationResponse struct {
	Tickers      []string    `json:"tickers"`
	NPortfolios  int         `json:"n_portfolios"`
	SimWeights   [][]float64 `json:"sim_weights"`
	SimReturns   []float64   `json:"sim_returns"`
	SimRisks     []float64   `json:"sim_risks"`
	SharpeRatios []*float64  `json:"sharpe_ratios"`
	Warnings     []Warning   `json:"warnings,omitempty"`
}

// RateResponse is GET /api/rates/:type
type RateResponse struct {
	RiskFreeRate
	Warnings []Warning `json:"warnings,omitempty"`
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/services"
	"github.com/gin-gonic/gin"
)

// OptimizationHandler handles portfolio optimization, analytics and rate endpoints
type OptimizationHandler struct {
	optSvc  *services.OptimizationService
	rateSvc *services.RateService
}

// NewOptimizationHandler creates a new OptimizationHandler
func NewOptimizationHandler(optSvc *services.OptimizationService, rateSvc *services.RateService) *OptimizationHandler {
	return &OptimizationHandler{
		optSvc:  optSvc,
		rateSvc: rateSvc,
	}
}

// queryTickers accepts repeated ?tickers= parameters, comma lists, or both.
func queryTickers(c *gin.Context) []string {
	var tickers []string
	for _, v := range c.QueryArray("tickers") {
		tickers = append(tickers, strings.Split(v, ",")...)
	}
	return services.NormalizeTickers(tickers)
}

// OptimalPortfolio handles POST /api/securities/optimal_portfolio
// @Summary Optimal portfolio and efficient frontier
// @Description Minimum-risk (or maximum-Sharpe) long-only portfolio with an optional liquidity floor, plus the efficient frontier
// @Tags optimization
// @Accept json
// @Produce json
// @Param request body models.OptimizeRequest true "Optimization parameters"
// @Success 200 {object} models.OptimizeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/securities/optimal_portfolio [post]
func (h *OptimizationHandler) OptimalPortfolio(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.optSvc.Optimize(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// OptimalPortfolioChart handles POST /api/securities/optimal_portfolio/chart
// @Summary Efficient frontier chart
// @Description Runs the same optimization as /optimal_portfolio and renders the frontier as a PNG
// @Tags optimization
// @Accept json
// @Produce png
// @Param request body models.OptimizeRequest true "Optimization parameters"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /api/securities/optimal_portfolio/chart [post]
func (h *OptimizationHandler) OptimalPortfolioChart(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.optSvc.Optimize(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	png, err := services.RenderFrontierChart(resp)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// EfficientFrontier handles POST /api/securities/efficient_frontier
// @Summary Efficient frontier
// @Description Sweep of minimum-risk portfolios seeded by the global minimum-variance portfolio
// @Tags optimization
// @Accept json
// @Produce json
// @Param request body models.FrontierRequest true "Frontier parameters"
// @Success 200 {object} models.FrontierResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/securities/efficient_frontier [post]
func (h *OptimizationHandler) EfficientFrontier(c *gin.Context) {
	var req models.FrontierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.optSvc.Frontier(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// CovarianceCorrelation handles GET /api/securities/covariance-correlation
// @Summary Covariance and correlation matrices
// @Tags optimization
// @Produce json
// @Param tickers query []string true "Tickers (repeat the parameter or pass a comma list)" collectionFormat(multi)
// @Success 200 {object} models.CovarianceResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/securities/covariance-correlation [get]
func (h *OptimizationHandler) CovarianceCorrelation(c *gin.Context) {
	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.optSvc.CovarianceCorrelation(ctx, queryTickers(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// Simulation handles GET /api/securities/simulation
// @Summary Monte Carlo portfolio cloud
// @Description Random long-only portfolios with annualized return, risk and return/risk ratio
// @Tags optimization
// @Produce json
// @Param tickers query []string true "Tickers (repeat the parameter or pass a comma list)" collectionFormat(multi)
// @Param n_portfolios query int false "Number of portfolios (default 50000, max 200000)"
// @Success 200 {object} models.SimulationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/securities/simulation [get]
func (h *OptimizationHandler) Simulation(c *gin.Context) {
	count := 0
	if raw := c.Query("n_portfolios"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "n_portfolios must be a positive integer")
			return
		}
		count = n
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.optSvc.Simulate(ctx, queryTickers(c), count)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// GetRate handles GET /api/rates/:type
// @Summary Resolve a risk-free rate
// @Tags rates
// @Produce json
// @Param type path string true "flat, us10y or estr"
// @Param value query number false "Percentage for flat rates"
// @Success 200 {object} models.RateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/rates/{type} [get]
func (h *OptimizationHandler) GetRate(c *gin.Context) {
	rateType, err := services.ParseRateType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	var flat *float64
	if raw := c.Query("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "value must be a number")
			return
		}
		flat = &v
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	rate, err := h.rateSvc.Resolve(ctx, rateType, flat)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RateResponse{RiskFreeRate: rate, Warnings: wc.GetWarnings()})
}

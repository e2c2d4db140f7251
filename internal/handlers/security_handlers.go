package handlers

import (
	"net/http"

	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/services"
	"github.com/gin-gonic/gin"
)

// SecurityHandler handles security ingest and lookup endpoints
type SecurityHandler struct {
	securitySvc *services.SecurityService
}

// NewSecurityHandler creates a new SecurityHandler
func NewSecurityHandler(securitySvc *services.SecurityService) *SecurityHandler {
	return &SecurityHandler{
		securitySvc: securitySvc,
	}
}

// AddSecurity handles POST /api/securities
// @Summary Add a security
// @Description Fetch five years of daily closes for a ticker and store its daily log returns. An existing ticker is refreshed only when newer data is available.
// @Tags securities
// @Accept json
// @Produce json
// @Param request body models.AddSecurityRequest true "Ticker to add"
// @Success 201 {object} models.AddSecurityResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/securities [post]
func (h *SecurityHandler) AddSecurity(c *gin.Context) {
	var req models.AddSecurityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.securitySvc.AddSecurity(c.Request.Context(), req.Ticker)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.Refreshed {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// AddSecurities handles POST /api/securities/bulk
// @Summary Add several securities
// @Description Ingest several tickers concurrently and report the outcome for each
// @Tags securities
// @Accept json
// @Produce json
// @Param request body models.AddSecuritiesRequest true "Tickers to add"
// @Success 200 {object} models.BulkAddResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/securities/bulk [post]
func (h *SecurityHandler) AddSecurities(c *gin.Context) {
	var req models.AddSecuritiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.securitySvc.AddSecurities(c.Request.Context(), req.Tickers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSecurities handles GET /api/securities/all
// @Summary List securities
// @Tags securities
// @Produce json
// @Success 200 {object} models.SecurityListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/securities/all [get]
func (h *SecurityHandler) ListSecurities(c *gin.Context) {
	list, err := h.securitySvc.ListSecurities(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SecurityListResponse{Status: "success", Data: list})
}

// GetSecurity handles GET /api/securities/:ticker
// @Summary Get a security
// @Description Daily returns plus annualized expected return, variance and standard deviation in percent
// @Tags securities
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Success 200 {object} models.SecurityInfoResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/securities/{ticker} [get]
func (h *SecurityHandler) GetSecurity(c *gin.Context) {
	info, err := h.securitySvc.GetSecurityInfo(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// SetLiquidity handles PUT /api/securities/:ticker/liquidity
// @Summary Label a security's liquidity
// @Tags securities
// @Accept json
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Param request body models.SetLiquidityRequest true "Liquidity label"
// @Success 200 {object} models.LiquidityUpdate
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/securities/{ticker}/liquidity [put]
func (h *SecurityHandler) SetLiquidity(c *gin.Context) {
	var req models.SetLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ticker := services.NormalizeTicker(c.Param("ticker"))
	if err := h.securitySvc.SetLiquidity(c.Request.Context(), ticker, req.LiquidityLabel, req.ProxyCategory); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LiquidityUpdate{
		Ticker:         ticker,
		LiquidityLabel: req.LiquidityLabel,
		ProxyCategory:  req.ProxyCategory,
	})
}

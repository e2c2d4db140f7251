package handlers

import (
	"net/http"

	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	securitySvc *services.SecurityService
	rateSvc     *services.RateService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(securitySvc *services.SecurityService, rateSvc *services.RateService) *AdminHandler {
	return &AdminHandler{
		securitySvc: securitySvc,
		rateSvc:     rateSvc,
	}
}

// ImportLiquidityLabels handles POST /api/admin/liquidity-labels
// @Summary Bulk liquidity labels
// @Description Upload a CSV with columns ticker, liquidity_label and optionally proxy_category
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} models.LiquidityImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/admin/liquidity-labels [post]
func (h *AdminHandler) ImportLiquidityLabels(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "a CSV file is required in the 'file' form field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer file.Close()

	updates, err := ParseLiquidityCSV(file)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	n, err := h.securitySvc.ImportLiquidityLabels(ctx, updates)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Infof("liquidity import: %d of %d rows applied from %s", n, len(updates), fileHeader.Filename)

	c.JSON(http.StatusOK, models.LiquidityImportResponse{
		Updated:  n,
		Warnings: wc.GetWarnings(),
	})
}

// ClearRateCache handles DELETE /api/admin/rate-cache
// @Summary Invalidate cached risk-free rates
// @Tags admin
// @Produce json
// @Param type query string false "Rate type to invalidate; all when omitted"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/admin/rate-cache [delete]
func (h *AdminHandler) ClearRateCache(c *gin.Context) {
	var rateType models.RateType
	if raw := c.Query("type"); raw != "" {
		rt, err := services.ParseRateType(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		if rt == models.RateFlat {
			badRequest(c, "flat rates are not cached")
			return
		}
		rateType = rt
	}

	h.rateSvc.Invalidate(rateType)

	scope := string(rateType)
	if scope == "" {
		scope = "all"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "invalidated": scope})
}

package handlers

import (
	"net/http"

	"github.com/epeers/markowitz/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API endpoint on r. Admin routes are guarded by adminKey.
func RegisterRoutes(r *gin.Engine, sec *SecurityHandler, opt *OptimizationHandler, admin *AdminHandler, adminKey string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	securities := api.Group("/securities")
	securities.POST("", sec.AddSecurity)
	securities.POST("/bulk", sec.AddSecurities)
	securities.GET("/all", sec.ListSecurities)
	securities.GET("/covariance-correlation", opt.CovarianceCorrelation)
	securities.GET("/simulation", opt.Simulation)
	securities.POST("/optimal_portfolio", opt.OptimalPortfolio)
	securities.POST("/optimal_portfolio/chart", opt.OptimalPortfolioChart)
	securities.POST("/efficient_frontier", opt.EfficientFrontier)
	securities.GET("/:ticker", sec.GetSecurity)
	securities.PUT("/:ticker/liquidity", sec.SetLiquidity)

	api.GET("/rates/:type", opt.GetRate)

	adminGroup := api.Group("/admin", middleware.RequireAdminKey(adminKey))
	adminGroup.POST("/liquidity-labels", admin.ImportLiquidityLabels)
	adminGroup.DELETE("/rate-cache", admin.ClearRateCache)
}

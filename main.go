package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/markowitz/config"
	_ "github.com/epeers/markowitz/docs"
	"github.com/epeers/markowitz/internal/alphavantage"
	"github.com/epeers/markowitz/internal/cache"
	"github.com/epeers/markowitz/internal/database"
	"github.com/epeers/markowitz/internal/ecb"
	"github.com/epeers/markowitz/internal/handlers"
	"github.com/epeers/markowitz/internal/middleware"
	"github.com/epeers/markowitz/internal/repository"
	"github.com/epeers/markowitz/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Markowitz Portfolio API
// @version 1.0
// @description Mean-variance portfolio optimization: efficient frontier, optimal weights under a liquidity floor, and Monte Carlo portfolio clouds.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	// Create context for initialization
	ctx := context.Background()

	// Initialize security store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	// Initialize market data clients
	avClient := alphavantage.NewClient(cfg.AVKey)
	ecbClient := ecb.NewClient()
	if cfg.ECBBaseURL != "" {
		ecbClient = ecb.NewClientWithBaseURL(cfg.ECBBaseURL)
	}

	// Initialize rate cache
	rateCache := cache.NewMemoryCache(cfg.RateCacheTTL)

	// Initialize services
	rateSvc := services.NewRateService(rateCache, avClient, ecbClient)
	securitySvc := services.NewSecurityService(store, avClient)
	optSvc := services.NewOptimizationService(securitySvc, rateSvc, services.OptimizationConfig{
		FrontierPoints:      cfg.FrontierPoints,
		SimulationCount:     cfg.SimulationCount,
		SolverMaxIterations: cfg.SolverMaxIterations,
	})

	// Warm the rate cache without holding up startup
	go func() {
		prefetchCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rateSvc.Prefetch(prefetchCtx); err != nil {
			log.Warnf("Rate prefetch incomplete: %v", err)
		}
	}()

	// Initialize handlers
	securityHandler := handlers.NewSecurityHandler(securitySvc)
	optHandler := handlers.NewOptimizationHandler(optSvc, rateSvc)
	adminHandler := handlers.NewAdminHandler(securitySvc, rateSvc)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{"Origin", "Content-Type", middleware.AdminKeyHeader},
			MaxAge:       12 * time.Hour,
		}))
	}

	handlers.RegisterRoutes(router, securityHandler, optHandler, adminHandler, cfg.AdminKey)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s (store: %s)", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	fmt.Println("Server exited")
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config) (repository.SecurityStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		m, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewMongoSecurityStore(m.Database)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = m.Close(ctx)
			return nil, nil, err
		}
		return store, func() { _ = m.Close(context.Background()) }, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewSQLiteSecurityStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil
	}

	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewPostgresSecurityStore(db.Pool)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}

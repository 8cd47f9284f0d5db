package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/joho/godotenv"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"threadledger/internal/caching"
	"threadledger/internal/categories"
	"threadledger/internal/config"
	"threadledger/internal/handlers"
	"threadledger/internal/jobs"
	appMiddleware "threadledger/internal/middleware"
	"threadledger/internal/repositories"
	"threadledger/internal/services"
	"threadledger/pkg/database"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatalw("failed to load configuration", "error", err)
	}

	pool, err := database.NewPool(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Repositories
	txRepo := repositories.NewTransactionRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	adjustmentRepo := repositories.NewAdjustmentRepo(pool)
	agencyRepo := repositories.NewAgencyRepo(pool)

	// Services
	standardizer := categories.NewStandardizer()
	syncSvc := services.NewSyncService(txRepo, productRepo, standardizer, cacheSvc, logger)
	stockSvc := services.NewStockService(txRepo, productRepo, standardizer, cacheSvc, logger)
	adjustmentSvc := services.NewAdjustmentService(adjustmentRepo, productRepo, cacheSvc, logger)

	// Handlers
	syncHandlers := handlers.NewSyncHandlers(syncSvc)
	stockHandlers := handlers.NewStockHandlers(stockSvc)
	adjustmentHandlers := handlers.NewAdjustmentHandlers(adjustmentSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs. Feed sources are registered by deployment-specific
	// integrations; the cycle is a no-op until at least one is configured.
	var feedSources []jobs.FeedSource
	feedSync := jobs.NewFeedSyncJob(syncSvc, agencyRepo, feedSources, cfg.Sync.MaxBatchSize, logger)
	scheduler, err := jobs.NewScheduler(feedSync, stockSvc, agencyRepo,
		time.Duration(cfg.Sync.IntervalMinutes)*time.Minute, logger)
	if err != nil {
		logger.Fatalw("failed to create job scheduler", "error", err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Protected API routes
	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(appMiddleware.JWTConfig(cfg.Auth.JWTSecret)))
	v1.Use(appMiddleware.AgencyScope())

	v1.POST("/sync/:source", syncHandlers.IngestBatch)

	v1.GET("/stock", stockHandlers.ListStock)
	v1.GET("/stock/:ref", stockHandlers.GetStock)
	v1.GET("/categories", stockHandlers.ListCategories)
	v1.GET("/transactions", stockHandlers.ListTransactions)

	v1.POST("/adjustments", adjustmentHandlers.CreateAdjustment)
	v1.GET("/adjustments", adjustmentHandlers.ListAdjustments)
	v1.POST("/adjustments/:id/approve", adjustmentHandlers.ApproveAdjustment)
	v1.POST("/adjustments/:id/reject", adjustmentHandlers.RejectAdjustment)

	logger.Infow("starting server", "version", version, "port", cfg.Server.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}

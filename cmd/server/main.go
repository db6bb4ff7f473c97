package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logistics/internal/config"
	"logistics/internal/database"
	"logistics/internal/handlers"
	"logistics/internal/history"
	"logistics/internal/logger"
	"logistics/internal/migrations"
	"logistics/internal/redis"
	"logistics/internal/repository"
	"logistics/internal/services"
	"logistics/pkg/ocrspace"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migrations.RunMigrations(db, cfg.DefaultAdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional: without it sessions are not revocable and OCR
	// results are not cached.
	var (
		sessions handlers.SessionStore
		ocrCache services.TextCache
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		sessions, ocrCache = redisClient, redisClient
	} else {
		log.Warn().Msg("REDIS_URL not set, running without session store and OCR cache")
	}

	if cfg.OCRSpaceAPIKey == "" {
		log.Warn().Msg("no OCR.space API key configured, label scanning will fail")
	}
	ocrClient := ocrspace.NewClient(cfg.OCRSpaceURL, cfg.OCRSpaceAPIKey)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	routeRepo := repository.NewRouteRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	routeService := services.NewRouteService(routeRepo, orderRepo, decimal.NewFromFloat(cfg.DefaultRatePerKg))
	orderService := services.NewOrderService(orderRepo, warehouseRepo, routeService)
	warehouseService := services.NewWarehouseService(warehouseRepo, orderRepo)
	undoService := services.NewUndoService(history.New(cfg.HistoryCapacity), orderService, warehouseService, routeService, log)
	ocrService := services.NewOCRService(ocrClient, ocrCache, time.Duration(cfg.CacheTTL)*time.Second, log)
	reportService := services.NewReportService(orderRepo)

	apiHandler := handlers.NewAPIHandler(
		userService,
		orderService,
		warehouseService,
		routeService,
		undoService,
		ocrService,
		reportService,
		sessions,
		cfg.JWTSecret,
		time.Duration(cfg.SessionTimeout)*time.Second,
		log,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	apiHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
		Handler: router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownCompleted := make(chan struct{})
	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		close(shutdownCompleted)
	}()

	// Start server
	log.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("failed to start server")
	}
	<-shutdownCompleted

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

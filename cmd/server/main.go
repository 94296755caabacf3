package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/analytics"
	"github.com/andresuchdata/hypnoscale/internal/api"
	"github.com/andresuchdata/hypnoscale/internal/cache"
	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/repository/postgres"
	"github.com/andresuchdata/hypnoscale/internal/service"
	"github.com/andresuchdata/hypnoscale/internal/storage"
	"github.com/andresuchdata/hypnoscale/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	viewCache, err := cache.NewViewCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("View cache unavailable, serving uncached")
		viewCache = cache.NewNoopViewCache()
	}
	loader := service.NewViewLoader(viewCache)

	// Initialize services
	forecaster := analytics.NewForecaster(nil, analytics.DefaultProductMetadata, cfg.Fetch.SalesLookbackDays)
	finance := service.NewFinanceService(postgres.NewFinanceRepository(db), loader, cfg.Fetch, cfg.Finance)
	inventory := service.NewInventoryService(postgres.NewInventoryRepository(db), postgres.NewMappingRepository(db), loader, forecaster, cfg.Fetch)

	services := &api.Services{
		Finance:   finance,
		Inventory: inventory,
		Insights:  service.NewInsightService(postgres.NewFinanceRepository(db), postgres.NewInsightRepository(db), cfg.Fetch),
		Retention: service.NewRetentionService(postgres.NewRetentionRepository(db), loader),
		Team:      service.NewTeamService(postgres.NewOperatingCostRepository(db), inventory, loader, cfg.Finance),
	}

	if snapshots := newSnapshotService(cfg, finance); snapshots != nil {
		services.Snapshots = snapshots
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newSnapshotService returns nil when object storage is not configured.
func newSnapshotService(cfg *config.Config, finance *service.FinanceService) *service.SnapshotService {
	if cfg.Storage.Endpoint == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := storage.NewMinioClient(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Snapshot storage unavailable")
		return nil
	}

	return service.NewSnapshotService(finance, storage.NewSnapshotStore(client, cfg.Storage.Prefix))
}

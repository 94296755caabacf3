package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/api/handlers"
	"github.com/andresuchdata/hypnoscale/internal/api/middleware"
	"github.com/andresuchdata/hypnoscale/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Finance   handlers.FinanceReader
	Snapshots handlers.SnapshotExporter
	Inventory handlers.InventoryManager
	Insights  handlers.InsightGenerator
	Retention handlers.RetentionReader
	Team      handlers.TeamReader
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.SessionHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Finance != nil {
		financeHandler := handlers.NewFinanceHandler(services.Finance, services.Snapshots)
		financeGroup := apiGroup.Group("/finance")
		{
			financeGroup.GET("/dashboard", financeHandler.GetDashboard)
			financeGroup.GET("/daily", financeHandler.GetDaily)
			financeGroup.GET("/snapshots", financeHandler.ListSnapshots)
			financeGroup.POST("/snapshots", financeHandler.ExportSnapshot)
		}
	}

	if services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.GET("/dashboard", inventoryHandler.GetDashboard)
			inventoryGroup.POST("/batches", inventoryHandler.CreateBatch)
			inventoryGroup.POST("/mappings/:product_id/verify", inventoryHandler.VerifyMapping)
		}
	}

	if services.Insights != nil {
		insightHandler := handlers.NewInsightHandler(services.Insights)
		apiGroup.GET("/insights/latest", insightHandler.GetLatest)
		apiGroup.POST("/insights/generate", insightHandler.Generate)
	}

	if services.Retention != nil {
		retentionHandler := handlers.NewRetentionHandler(services.Retention)
		apiGroup.GET("/retention/churn", retentionHandler.GetChurn)
		apiGroup.GET("/retention/cohorts", retentionHandler.GetCohorts)
	}

	if services.Team != nil {
		teamHandler := handlers.NewTeamHandler(services.Team)
		apiGroup.GET("/team/burn", teamHandler.GetBurn)
		apiGroup.GET("/cfo/overview", teamHandler.GetCFOOverview)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

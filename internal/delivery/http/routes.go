package http

import (
	"github.com/gin-gonic/gin"

	"github.com/chargematch/backend/config"
	"github.com/chargematch/backend/internal/observability"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, metrics *observability.Metrics) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware(metrics))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check and scrape endpoints sit outside the rate limiter
	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/chargers/match", handler.MatchChargers)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/audit", handler.AuditCatalog)
			catalog.GET("/audit/export", handler.ExportAudit)
		}
	}

	return router
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/marketlens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", handler.Analyze)
		v1.POST("/scrape", handler.Scrape)
		v1.GET("/sample", handler.Sample)

		export := v1.Group("/export")
		{
			export.POST("/csv", handler.ExportCSV)
			export.POST("/json", handler.ExportJSON)
		}
	}

	return router
}

package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vigil-dev/vigil/internal/handlers"
	"github.com/vigil-dev/vigil/internal/middleware"
	"github.com/vigil-dev/vigil/internal/types"
	"go.uber.org/zap"
)

func NewRouter(logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.Metrics())

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		monitor := api.Group("/monitor")
		{
			monitor.POST("", handlers.CreateMonitor)
			monitor.GET("/statuses", handlers.ListMonitorStatuses)
			monitor.GET("/statuses/by-tags", handlers.ListMonitorStatusesByTags)
			monitor.POST("/:monitor_id/state", handlers.SetMonitorState)
			monitor.GET("/:monitor_id/state", handlers.GetMonitorState)
			monitor.GET("/:monitor_id/state/badge.png", handlers.GetMonitorStateBadge)
			monitor.GET("/:monitor_id/history", handlers.GetMonitorHistory)
			monitor.DELETE("/:monitor_id", handlers.DeleteMonitor)
		}
	}

	return r
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-assistant/internal/config"
	"github.com/stemsi/exstem-assistant/internal/handler"
	"github.com/stemsi/exstem-assistant/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Assist *handler.AssistHandler
}

// SetupRouter configures the projection API routes.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/stream/status", handlers.Assist.GetStreamStatus)
		api.GET("/sessions", handlers.Assist.ListSessions)
		api.POST("/sessions/:client_id/expand", handlers.Assist.ToggleExpanded)
		api.POST("/sessions/:client_id/answers", handlers.Assist.SubmitAnswer)
	}

	return router
}

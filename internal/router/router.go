package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workdeck/avatarproxy/internal/handlers"
	"github.com/workdeck/avatarproxy/internal/middleware"
)

// New assembles the gin engine with the middleware chain and all routes.
func New(logger *slog.Logger, avatarHandler *handlers.AvatarHandler, statsHandler *handlers.StatsHandler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.WithLogging(logger))
	r.Use(middleware.WithMetrics())

	r.GET("/avatar/:userId", avatarHandler.Get)
	r.GET("/health", handlers.HealthCheck)
	r.GET("/stats", statsHandler.Get)
	r.GET("/metrics", middleware.MetricsHandler)

	return r
}

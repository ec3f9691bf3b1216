package main

import (
	"log/slog"
	"net/http"

	"casedesk/internal/bootstrap"
	"casedesk/internal/cache"
	"casedesk/internal/config"
	"casedesk/internal/location"

	"github.com/gin-gonic/gin"

	_ "casedesk/docs" // Ensure docs are imported
)

// App encapsulates application dependencies
type App struct {
	router    *gin.Engine
	logger    *slog.Logger
	locations *location.Service
	redis     *cache.RedisClient
	cfg       *config.Config
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, components *bootstrap.Components, logger *slog.Logger) *App {
	// Set Gin mode from configuration
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	app := &App{
		router:    router,
		logger:    logger.With("component", "api"),
		locations: components.Service,
		redis:     components.Redis,
		cfg:       cfg,
	}

	app.registerRoutes()

	return app
}

// Handler exposes the router for http.Server and tests.
func (app *App) Handler() http.Handler {
	return app.router
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoints
	app.router.GET("/ping", app.handlePing)
	app.router.GET("/health", app.handleHealth)

	// Stateless list lookups
	lists := app.router.Group("/locations/countries")
	lists.GET("", app.handleListCountries)
	lists.GET("/:country/states", app.handleListStates)
	lists.GET("/:country/cities", app.handleListCities)

	// Form sessions
	sessions := app.router.Group("/location-sessions")
	sessions.POST("", app.handleCreateSession)
	sessions.GET("/:id", app.handleGetSession)
	sessions.DELETE("/:id", app.handleDeleteSession)
	sessions.PUT("/:id/country", app.handleSetCountry)
	sessions.PUT("/:id/state", app.handleSetState)
	sessions.PUT("/:id/city", app.handleSetCity)
	sessions.PUT("/:id/address", app.handleSetAddress)
	sessions.POST("/:id/city-search", app.handleSearchCity)
	sessions.GET("/:id/address-suggestions", app.handleAddressSuggestions)
	sessions.POST("/:id/coordinates", app.handleRegenerateCoordinates)

	app.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PingResponse represents the response for the ping endpoint
type PingResponse struct {
	Message string `json:"message" example:"pong"` // Response message
}

// HealthResponse reports the state of optional dependencies.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Sessions int    `json:"sessions" example:"3"`
	Cache    string `json:"cache" example:"memory"` // memory, redis or redis-unavailable
}

// handlePing godoc
// @Summary Ping health check
// @Description Check if the API is running
// @Tags health
// @Produce json
// @Success 200 {object} PingResponse
// @Router /ping [get]
func (app *App) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}

// handleHealth godoc
// @Summary Service health
// @Description Report open sessions and the list cache backend. A redis outage degrades the cache but not the service.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (app *App) handleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Sessions: app.locations.Len(),
		Cache:    "memory",
	}
	if app.redis != nil {
		resp.Cache = "redis"
		if err := app.redis.Health(c.Request.Context()); err != nil {
			app.logger.Warn("redis health check failed", "error", err)
			resp.Cache = "redis-unavailable"
		}
	}
	c.JSON(http.StatusOK, resp)
}

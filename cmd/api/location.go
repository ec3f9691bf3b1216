package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"casedesk/internal/location"
	"casedesk/internal/types"

	"github.com/gin-gonic/gin"
)

// maxWait bounds how long GET /location-sessions/:id?wait=true blocks.
const maxWait = 15 * time.Second

// CountriesResponse is a country list and whether it came from the bundled
// dataset.
type CountriesResponse struct {
	Items   []types.Country `json:"items"`
	Offline bool            `json:"offline" example:"false"`
}

type StatesResponse struct {
	Items   []types.State `json:"items"`
	Offline bool          `json:"offline" example:"false"`
}

type CitiesResponse struct {
	Items   []types.City `json:"items"`
	Offline bool         `json:"offline" example:"false"`
}

// SessionResponse carries a session id and its current state.
type SessionResponse struct {
	ID       string            `json:"id" example:"0b8f6c1e-2f0a-4d0e-9a59-1f2d7b8e4c11"`
	Snapshot location.Snapshot `json:"snapshot"`
}

// ValueInput sets a single form field.
type ValueInput struct {
	Value string `json:"value" example:"Germany"`
	// Suggestion marks a city picked from the search suggestions.
	Suggestion bool `json:"suggestion,omitempty" example:"false"`
}

// SearchInput is a partial city name.
type SearchInput struct {
	Query string `json:"query" binding:"required" example:"lond"`
}

type AddressSuggestionsResponse struct {
	Items []string `json:"items"`
}

// handleListCountries godoc
// @Summary List countries
// @Description List all countries, from the remote provider or the bundled dataset
// @Tags locations
// @Produce json
// @Success 200 {object} CountriesResponse
// @Router /locations/countries [get]
func (app *App) handleListCountries(c *gin.Context) {
	res := app.locations.ListCountries(c.Request.Context())
	c.JSON(http.StatusOK, CountriesResponse{Items: res.Items, Offline: res.Offline})
}

// handleListStates godoc
// @Summary List states of a country
// @Tags locations
// @Produce json
// @Param country path string true "Country code or name" example(DE)
// @Success 200 {object} StatesResponse
// @Router /locations/countries/{country}/states [get]
func (app *App) handleListStates(c *gin.Context) {
	res := app.locations.ListStates(c.Request.Context(), c.Param("country"))
	c.JSON(http.StatusOK, StatesResponse{Items: res.Items, Offline: res.Offline})
}

// handleListCities godoc
// @Summary List cities of a country or state
// @Tags locations
// @Produce json
// @Param country path string true "Country code or name" example(DE)
// @Param state query string false "State code or name" example(BY)
// @Success 200 {object} CitiesResponse
// @Router /locations/countries/{country}/cities [get]
func (app *App) handleListCities(c *gin.Context) {
	res := app.locations.ListCities(c.Request.Context(), c.Param("country"), c.Query("state"))
	c.JSON(http.StatusOK, CitiesResponse{Items: res.Items, Offline: res.Offline})
}

// handleCreateSession godoc
// @Summary Open a location session
// @Description Open a session for one form. A body with an existing location opens it in edit mode.
// @Tags sessions
// @Accept json
// @Produce json
// @Param location body types.FormLocation false "Existing location"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Router /location-sessions [post]
func (app *App) handleCreateSession(c *gin.Context) {
	// An empty body, chunked or not, starts a blank form.
	var initial *types.FormLocation
	var loc types.FormLocation
	switch err := c.ShouldBindJSON(&loc); {
	case errors.Is(err, io.EOF):
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		initial = &loc
	}

	id, ctrl, err := app.locations.Create(initial)
	if err != nil {
		app.logger.Error("failed to create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{ID: id, Snapshot: ctrl.Snapshot()})
}

// handleGetSession godoc
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param wait query bool false "Block until pending lookups settle"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id} [get]
func (app *App) handleGetSession(c *gin.Context) {
	ctrl, ok := app.session(c)
	if !ok {
		return
	}

	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), maxWait)
		defer cancel()
		// A timeout still returns the current state.
		_ = ctrl.Wait(ctx)
	}
	c.JSON(http.StatusOK, SessionResponse{ID: c.Param("id"), Snapshot: ctrl.Snapshot()})
}

// handleDeleteSession godoc
// @Summary Close a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id} [delete]
func (app *App) handleDeleteSession(c *gin.Context) {
	if err := app.locations.Delete(c.Param("id")); err != nil {
		app.sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleSetCountry godoc
// @Summary Set the country
// @Description Clears state, city, address and coordinates and loads the country's states
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param value body ValueInput true "Country name"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/country [put]
func (app *App) handleSetCountry(c *gin.Context) {
	app.setField(c, func(ctrl *location.Controller, in ValueInput) error {
		return ctrl.SetCountry(in.Value)
	})
}

// handleSetState godoc
// @Summary Set the state
// @Description Clears city, address and coordinates and loads the state's cities
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param value body ValueInput true "State name"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/state [put]
func (app *App) handleSetState(c *gin.Context) {
	app.setField(c, func(ctrl *location.Controller, in ValueInput) error {
		return ctrl.SetState(in.Value)
	})
}

// handleSetCity godoc
// @Summary Set the city
// @Description Sets the city and generates coordinates when none are set
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param value body ValueInput true "City name"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/city [put]
func (app *App) handleSetCity(c *gin.Context) {
	app.setField(c, func(ctrl *location.Controller, in ValueInput) error {
		if in.Suggestion {
			return ctrl.SelectSuggestion(in.Value)
		}
		return ctrl.SetCity(in.Value)
	})
}

// handleSetAddress godoc
// @Summary Set the address line
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param value body ValueInput true "Address"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/address [put]
func (app *App) handleSetAddress(c *gin.Context) {
	app.setField(c, func(ctrl *location.Controller, in ValueInput) error {
		return ctrl.SetAddress(in.Value)
	})
}

// handleSearchCity godoc
// @Summary Search cities
// @Description Updates the session's city suggestions for a partial name. Poll the session for results.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param query body SearchInput true "Partial city name"
// @Success 202 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/city-search [post]
func (app *App) handleSearchCity(c *gin.Context) {
	ctrl, ok := app.session(c)
	if !ok {
		return
	}

	var in SearchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctrl.SearchCity(in.Query); err != nil {
		app.sessionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, SessionResponse{ID: c.Param("id"), Snapshot: ctrl.Snapshot()})
}

// handleAddressSuggestions godoc
// @Summary Suggest addresses
// @Description Match sample addresses of the selected city
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param q query string false "Partial address"
// @Success 200 {object} AddressSuggestionsResponse
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/address-suggestions [get]
func (app *App) handleAddressSuggestions(c *gin.Context) {
	ctrl, ok := app.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, AddressSuggestionsResponse{Items: ctrl.AddressSuggestions(c.Query("q"))})
}

// handleRegenerateCoordinates godoc
// @Summary Regenerate coordinates
// @Description Replace the coordinates with the selected country's representative point
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} SessionResponse
// @Failure 404 {object} map[string]string
// @Router /location-sessions/{id}/coordinates [post]
func (app *App) handleRegenerateCoordinates(c *gin.Context) {
	ctrl, ok := app.session(c)
	if !ok {
		return
	}
	if err := ctrl.RegenerateCoordinates(); err != nil {
		app.sessionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, SessionResponse{ID: c.Param("id"), Snapshot: ctrl.Snapshot()})
}

func (app *App) setField(c *gin.Context, set func(*location.Controller, ValueInput) error) {
	ctrl, ok := app.session(c)
	if !ok {
		return
	}

	var in ValueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := set(ctrl, in); err != nil {
		app.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: c.Param("id"), Snapshot: ctrl.Snapshot()})
}

func (app *App) session(c *gin.Context) (*location.Controller, bool) {
	ctrl, err := app.locations.Get(c.Param("id"))
	if err != nil {
		app.sessionError(c, err)
		return nil, false
	}
	return ctrl, true
}

func (app *App) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, location.ErrSessionNotFound), errors.Is(err, location.ErrClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, location.ErrAlreadyHydrated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		app.logger.Error("session operation failed", "session_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

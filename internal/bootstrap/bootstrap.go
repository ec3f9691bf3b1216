// Package bootstrap assembles the location service from configuration. The
// HTTP server and the CLI share it so both degrade to the bundled dataset the
// same way.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"casedesk/internal/cache"
	"casedesk/internal/config"
	"casedesk/internal/coordinates"
	"casedesk/internal/fallback"
	"casedesk/internal/location"
	"casedesk/internal/providers/countrystatecity"
	"casedesk/internal/providers/openstreetmap"
	"casedesk/internal/timezone"
)

type Options struct {
	// Offline skips every remote dependency.
	Offline bool
}

type Components struct {
	Dataset   *fallback.Dataset
	Generator *coordinates.Generator
	Service   *location.Service
	Redis     *cache.RedisClient // nil unless a redis URL is configured and reachable
}

// New builds the location service. Remote lookups are attempted unless
// opts.Offline is set; a missing API key makes them fail over to the dataset.
func New(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*Components, error) {
	dataset, err := fallback.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback dataset: %w", err)
	}

	c := &Components{Dataset: dataset}

	var provider location.Provider
	switch {
	case opts.Offline:
		logger.Info("offline mode, using bundled dataset")
	default:
		if cfg.Location.APIKey == "" {
			logger.Warn("no location API key configured, requests will be sent without one")
		}
		client := countrystatecity.NewClient(cfg.Location.BaseURL, cfg.Location.APIKey, logger)
		store := c.newStore(ctx, cfg.Cache, logger)
		cached := cache.NewProvider(client, store, cfg.Cache.TTL, logger)
		if cfg.Location.RequestTimeout > 0 {
			cached.WithFetchTimeout(cfg.Location.RequestTimeout)
		}
		provider = cached
	}

	var geocoder coordinates.Geocoder
	if !opts.Offline && cfg.Location.GeocoderEnabled {
		geocoder = openstreetmap.NewClient(cfg.Location.GeocoderURL, logger)
	}

	var zones coordinates.ZoneFinder
	if cfg.Location.TimezonesEnabled {
		tz, err := timezone.NewService()
		if err != nil {
			logger.Warn("timezone lookup disabled", "error", err)
		} else {
			zones = tz
		}
	}

	c.Generator = coordinates.NewGeneratorWithProviders(dataset, geocoder, zones, cfg.Location.CoordinateLatency, logger)
	c.Service = location.NewService(provider, dataset, c.Generator, LocationConfig(cfg), logger)
	return c, nil
}

// LocationConfig maps the location section onto the controller settings.
func LocationConfig(cfg *config.Config) location.Config {
	return location.Config{
		RequestTimeout:  cfg.Location.RequestTimeout,
		CitySelectDelay: cfg.Location.CitySelectDelay,
		SearchDebounce:  cfg.Location.SearchDebounce,
		SuggestionLimit: cfg.Location.SearchLimit,
		SessionTTL:      cfg.Location.SessionTTL,
	}
}

// newStore prefers redis and falls back to process memory when redis is not
// configured or not reachable.
func (c *Components) newStore(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) cache.Store {
	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		URL:         cfg.RedisURL,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		logger.Warn("redis unavailable, caching lists in memory", "error", err)
		return cache.NewMemoryStore()
	}
	if client == nil {
		return cache.NewMemoryStore()
	}
	c.Redis = client
	logger.Info("caching location lists in redis")
	return cache.NewRedisStore(client)
}

// Close closes every session and the redis connection.
func (c *Components) Close() {
	if c.Service != nil {
		c.Service.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

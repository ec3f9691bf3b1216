// Package coordinates produces a representative point for a country. It
// never resolves below country level: every city in a country gets the same
// point.
package coordinates

import (
	"context"
	"log/slog"
	"time"

	"casedesk/internal/fallback"
	"casedesk/internal/metrics"
	"casedesk/internal/types"
)

const DefaultLatency = time.Second

type Source string

const (
	SourceTable    Source = "table"
	SourceGeocoder Source = "geocoder"
	SourceUnknown  Source = "unknown"
)

// Geocoder resolves a country name to a point. Implemented by the
// openstreetmap client.
type Geocoder interface {
	Geocode(ctx context.Context, country string) (types.Coords, error)
}

// ZoneFinder is implemented by timezone.Service.
type ZoneFinder interface {
	ForCoords(coords types.Coords) (string, error)
}

type Result struct {
	Country  string       `json:"country"`
	Coords   types.Coords `json:"coords"`
	Source   Source       `json:"source"`
	Timezone string       `json:"timezone,omitempty"`
}

type Generator struct {
	dataset  *fallback.Dataset
	geocoder Geocoder
	zones    ZoneFinder
	latency  time.Duration
	logger   *slog.Logger
}

func NewGenerator(dataset *fallback.Dataset, latency time.Duration, logger *slog.Logger) *Generator {
	return NewGeneratorWithProviders(dataset, nil, nil, latency, logger)
}

// NewGeneratorWithProviders allows an optional geocoder for countries
// missing from the table and an optional zone finder. Either may be nil.
func NewGeneratorWithProviders(dataset *fallback.Dataset, geocoder Geocoder, zones ZoneFinder, latency time.Duration, logger *slog.Logger) *Generator {
	if latency < 0 {
		latency = 0
	}
	return &Generator{
		dataset:  dataset,
		geocoder: geocoder,
		zones:    zones,
		latency:  latency,
		logger:   logger.With("component", "coordinate-generator"),
	}
}

// Generate waits the configured latency and returns the country's point.
// Unknown countries yield (0, 0) with SourceUnknown. The only error is the
// context's.
func (g *Generator) Generate(ctx context.Context, country string) (Result, error) {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	res := Result{Country: country, Source: SourceUnknown}

	if coords, ok := g.dataset.Coordinates(country); ok {
		res.Coords, res.Source = coords, SourceTable
	} else if g.geocoder != nil && country != "" {
		coords, err := g.geocoder.Geocode(ctx, country)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			g.logger.Warn("geocoding failed, using origin", "country", country, "error", err)
		} else {
			res.Coords, res.Source = coords, SourceGeocoder
		}
	}

	if res.Source != SourceUnknown && g.zones != nil {
		if tz, err := g.zones.ForCoords(res.Coords); err == nil {
			res.Timezone = tz
		} else {
			g.logger.Debug("no timezone for generated coordinates", "country", country, "error", err)
		}
	}

	metrics.CoordinateGenerations.WithLabelValues(string(res.Source)).Inc()
	g.logger.Debug("generated coordinates",
		"country", country,
		"latitude", res.Coords.Latitude,
		"longitude", res.Coords.Longitude,
		"source", res.Source,
	)
	return res, nil
}

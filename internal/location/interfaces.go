package location

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"casedesk/internal/coordinates"
	"casedesk/internal/search"
	"casedesk/internal/types"
)

// Provider is the remote hierarchical location API, optionally behind the
// list cache.
type Provider interface {
	ListCountries(ctx context.Context) ([]types.Country, error)
	ListStates(ctx context.Context, countryCode string) ([]types.State, error)
	ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error)
}

// CoordinateGenerator produces the representative point for a country.
type CoordinateGenerator interface {
	Generate(ctx context.Context, country string) (coordinates.Result, error)
}

// CitySearcher is the debounced free-text city search of one session.
type CitySearcher interface {
	Search(query, countryCode, stateCode string, deliver func(search.Result))
	Cancel() bool
	Close()
}

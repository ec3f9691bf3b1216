package location

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"casedesk/internal/fallback"
	"casedesk/internal/metrics"
	"casedesk/internal/types"
)

// Scope names a position in the hierarchy. Codes are used for remote
// lookups; names are kept so the bundled dataset can still be searched when
// a code is unknown to it.
type Scope struct {
	CountryCode string
	CountryName string
	StateCode   string
	StateName   string
}

// ListResult is a resolved list and where it came from.
type ListResult[T any] struct {
	Items   []T  `json:"items"`
	Offline bool `json:"offline"`
}

// Resolver answers list lookups from the remote provider and substitutes the
// bundled dataset for any failure. It never returns an error.
type Resolver struct {
	provider Provider
	dataset  *fallback.Dataset
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	byName map[string]types.Country
	byCode map[string]types.Country
}

// NewResolver creates a resolver. A nil provider answers everything from the
// dataset. timeout bounds each remote call; zero disables the deadline.
func NewResolver(provider Provider, dataset *fallback.Dataset, timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		dataset:  dataset,
		timeout:  timeout,
		logger:   logger.With("component", "location-resolver"),
		byName:   make(map[string]types.Country),
		byCode:   make(map[string]types.Country),
	}
}

func (r *Resolver) Countries(ctx context.Context) ListResult[types.Country] {
	if r.provider != nil {
		countries, err := fetch(ctx, r, "countries", func(ctx context.Context) ([]types.Country, error) {
			return r.provider.ListCountries(ctx)
		})
		if err == nil {
			r.index(countries)
			metrics.LocationLookups.WithLabelValues("countries", metrics.OutcomeRemote).Inc()
			return ListResult[types.Country]{Items: countries}
		}
		r.logger.Warn("country lookup failed, using bundled dataset", "error", err)
	}
	return offline("countries", r.dataset.Countries())
}

// CountryCode maps a country display name (or code) to the code used by the
// remote provider. It only consults data already in memory. An empty string
// means the country is unknown.
func (r *Resolver) CountryCode(name string) string {
	key := normalize(name)
	if key == "" {
		return ""
	}

	r.mu.RLock()
	c, ok := r.byName[key]
	if !ok {
		c, ok = r.byCode[strings.ToUpper(key)]
	}
	r.mu.RUnlock()
	if ok {
		return c.Code
	}

	code, _ := r.dataset.CountryCode(name)
	return code
}

// States lists the subdivisions of scope's country.
func (r *Resolver) States(ctx context.Context, scope Scope) ListResult[types.State] {
	if r.provider != nil && scope.CountryCode != "" {
		states, err := fetch(ctx, r, "states", func(ctx context.Context) ([]types.State, error) {
			return r.provider.ListStates(ctx, scope.CountryCode)
		})
		if err == nil {
			metrics.LocationLookups.WithLabelValues("states", metrics.OutcomeRemote).Inc()
			return ListResult[types.State]{Items: states}
		}
		r.logger.Warn("state lookup failed, using bundled dataset",
			"country", scope.CountryName,
			"country_code", scope.CountryCode,
			"error", err,
		)
	}
	return offline("states", r.dataset.States(r.fallbackCountry(scope)))
}

// Cities lists the cities of scope's state, or of the whole country when
// scope has no state.
func (r *Resolver) Cities(ctx context.Context, scope Scope) ListResult[types.City] {
	stateKnown := scope.StateName == "" || scope.StateCode != ""
	if r.provider != nil && scope.CountryCode != "" && stateKnown {
		cities, err := fetch(ctx, r, "cities", func(ctx context.Context) ([]types.City, error) {
			return r.provider.ListCities(ctx, scope.CountryCode, scope.StateCode)
		})
		if err == nil {
			metrics.LocationLookups.WithLabelValues("cities", metrics.OutcomeRemote).Inc()
			return ListResult[types.City]{Items: cities}
		}
		r.logger.Warn("city lookup failed, using bundled dataset",
			"country", scope.CountryName,
			"state", scope.StateName,
			"country_code", scope.CountryCode,
			"state_code", scope.StateCode,
			"error", err,
		)
	}

	country := r.fallbackCountry(scope)
	state := ""
	if scope.StateCode != "" || scope.StateName != "" {
		state = scope.StateName
		if _, ok := r.dataset.StateCode(country, scope.StateCode); ok && scope.StateCode != "" {
			state = scope.StateCode
		}
	}
	return offline("cities", r.dataset.Cities(country, state))
}

// fallbackCountry prefers the canonical code and resolves by name when the
// dataset does not know the code.
func (r *Resolver) fallbackCountry(scope Scope) string {
	if scope.CountryCode != "" {
		if _, ok := r.dataset.CountryCode(scope.CountryCode); ok {
			return scope.CountryCode
		}
	}
	return scope.CountryName
}

func (r *Resolver) index(countries []types.Country) {
	byName := make(map[string]types.Country, len(countries))
	byCode := make(map[string]types.Country, len(countries))
	for _, c := range countries {
		byName[normalize(c.Name)] = c
		byCode[strings.ToUpper(c.Code)] = c
	}

	r.mu.Lock()
	r.byName, r.byCode = byName, byCode
	r.mu.Unlock()
}

func fetch[T any](ctx context.Context, r *Resolver, op string, call func(context.Context) ([]T, error)) ([]T, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Debug("fetching location list", "op", op)
	start := time.Now()
	items, err := call(ctx)
	metrics.LookupLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func offline[T any](op string, items []T) ListResult[T] {
	outcome := metrics.OutcomeFallback
	if len(items) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.LocationLookups.WithLabelValues(op, outcome).Inc()
	return ListResult[T]{Items: items, Offline: true}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

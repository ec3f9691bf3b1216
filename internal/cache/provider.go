package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"casedesk/internal/metrics"
	"casedesk/internal/types"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 6 * time.Hour
	// DefaultFetchTimeout bounds a shared upstream call.
	DefaultFetchTimeout = 10 * time.Second
)

// Upstream is the remote location provider being cached.
type Upstream interface {
	ListCountries(ctx context.Context) ([]types.Country, error)
	ListStates(ctx context.Context, countryCode string) ([]types.State, error)
	ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error)
}

// Provider caches successful upstream list responses. Concurrent misses for
// the same key share one upstream call. Failures are never cached, so the
// caller's fallback decision is made fresh every time.
type Provider struct {
	next         Upstream
	store        Store
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	logger       *slog.Logger
}

func NewProvider(next Upstream, store Store, ttl time.Duration, logger *slog.Logger) *Provider {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		next:         next,
		store:        store,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		logger:       logger.With("component", "location-cache"),
	}
}

// WithFetchTimeout sets the deadline of shared upstream calls. Zero disables
// it.
func (p *Provider) WithFetchTimeout(d time.Duration) *Provider {
	p.fetchTimeout = d
	return p
}

func (p *Provider) ListCountries(ctx context.Context) ([]types.Country, error) {
	return cached(ctx, p, "countries", func(ctx context.Context) ([]types.Country, error) {
		return p.next.ListCountries(ctx)
	})
}

func (p *Provider) ListStates(ctx context.Context, countryCode string) ([]types.State, error) {
	return cached(ctx, p, "states:"+countryCode, func(ctx context.Context) ([]types.State, error) {
		return p.next.ListStates(ctx, countryCode)
	})
}

func (p *Provider) ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error) {
	key := fmt.Sprintf("cities:%s:%s", countryCode, stateCode)
	return cached(ctx, p, key, func(ctx context.Context) ([]types.City, error) {
		return p.next.ListCities(ctx, countryCode, stateCode)
	})
}

func cached[T any](ctx context.Context, p *Provider, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if b, err := p.store.Get(ctx, key); err == nil {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return out, nil
		}
		p.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrMiss) {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		p.logger.Warn("cache read failed", "key", key, "error", err)
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	ch := p.group.DoChan(key, func() (any, error) {
		// The call is shared, so it outlives the caller that started it.
		fetchCtx := context.WithoutCancel(ctx)
		if p.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, p.fetchTimeout)
			defer cancel()
		}

		items, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(items); err == nil {
			if err := p.store.Set(fetchCtx, key, b, p.ttl); err != nil {
				p.logger.Warn("cache write failed", "key", key, "error", err)
			}
		}
		return items, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		p.logger.Debug("shared in-flight upstream call", "key", key)
	}
	items := res.Val.([]T)
	return append(make([]T, 0, len(items)), items...), nil
}

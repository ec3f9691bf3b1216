// Package search implements the debounced free-text city search used while a
// user types into the city field before a city list is available.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"casedesk/internal/dedupe"
	"casedesk/internal/fallback"
	"casedesk/internal/metrics"
	"casedesk/internal/types"
)

const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultLimit          = 10
	DefaultMinQueryLength = 2
)

// CityLister is the subset of the remote location provider the index needs.
type CityLister interface {
	ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error)
}

type Config struct {
	Debounce       time.Duration
	Limit          int
	MinQueryLength int
	// RequestTimeout bounds each remote call. Zero means no deadline.
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.MinQueryLength <= 0 {
		c.MinQueryLength = DefaultMinQueryLength
	}
	return c
}

// Result is a batch of city suggestions for one query.
type Result struct {
	Query   string
	Country string
	State   string
	Cities  []types.City
	// Offline is set when the suggestions came from the bundled dataset.
	Offline bool
}

// Index debounces searches for one session. Only the last query of a typing
// burst is dispatched; a dispatched request is never cancelled by a later
// query.
type Index struct {
	provider  CityLister
	dataset   *fallback.Dataset
	tracker   *dedupe.Tracker
	debouncer *Debouncer
	cfg       Config
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	deliver map[dedupe.RequestKey]func(Result)
}

// NewIndex creates a search index. provider may be nil, in which case every
// search is answered from the dataset.
func NewIndex(provider CityLister, dataset *fallback.Dataset, tracker *dedupe.Tracker, cfg Config, logger *slog.Logger) *Index {
	cfg = cfg.withDefaults()
	if tracker == nil {
		tracker = dedupe.NewTracker()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Index{
		provider:  provider,
		dataset:   dataset,
		tracker:   tracker,
		debouncer: NewDebouncer(cfg.Debounce),
		cfg:       cfg,
		logger:    logger.With("component", "search-index"),
		ctx:       ctx,
		cancel:    cancel,
		deliver:   make(map[dedupe.RequestKey]func(Result)),
	}
}

// Search schedules a lookup of query within the given country and optional
// state. deliver is called at most once for this call: not at all when a
// later Search supersedes it, synchronously when the query is too short, and
// from a background goroutine otherwise.
func (ix *Index) Search(query, countryCode, stateCode string, deliver func(Result)) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < ix.cfg.MinQueryLength {
		ix.debouncer.Immediate(func() {
			deliver(Result{Query: q, Country: countryCode, State: stateCode, Cities: []types.City{}})
		})
		return
	}

	ix.debouncer.Debounce(func() {
		ix.dispatch(q, countryCode, stateCode, deliver)
	})
}

// Cancel drops the pending (not yet dispatched) search, if any.
func (ix *Index) Cancel() bool {
	return ix.debouncer.Cancel()
}

// Close cancels the pending search and any in-flight request, then waits
// for dispatched work to finish. Deliveries after Close are dropped.
func (ix *Index) Close() {
	ix.mu.Lock()
	ix.closed = true
	ix.mu.Unlock()

	ix.debouncer.Cancel()
	ix.cancel()
	ix.wg.Wait()
}

func (ix *Index) dispatch(query, countryCode, stateCode string, deliver func(Result)) {
	key := dedupe.SearchKey(strings.ToLower(query), countryCode, stateCode)

	ix.mu.Lock()
	if ix.closed {
		ix.mu.Unlock()
		return
	}
	// The newest caller always receives the result for its key, including
	// when an identical request is already in flight.
	ix.deliver[key] = deliver
	if !ix.tracker.TryAcquire(key) {
		ix.mu.Unlock()
		metrics.DedupeRejections.WithLabelValues("search").Inc()
		ix.logger.Debug("search already in flight", "key", key)
		return
	}
	ix.wg.Add(1)
	ix.mu.Unlock()
	defer ix.wg.Done()

	metrics.SearchDispatches.Inc()
	res := ix.lookup(query, countryCode, stateCode)

	ix.mu.Lock()
	fn := ix.deliver[key]
	delete(ix.deliver, key)
	ix.tracker.Release(key)
	closed := ix.closed
	ix.mu.Unlock()

	if closed || fn == nil {
		return
	}
	fn(res)
}

func (ix *Index) lookup(query, countryCode, stateCode string) Result {
	res := Result{Query: query, Country: countryCode, State: stateCode}

	if ix.provider != nil {
		ctx := ix.ctx
		if ix.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, ix.cfg.RequestTimeout)
			defer cancel()
		}

		ix.logger.Debug("searching cities", "query", query, "country", countryCode, "state", stateCode)
		start := time.Now()
		cities, err := ix.provider.ListCities(ctx, countryCode, stateCode)
		metrics.LookupLatency.WithLabelValues("search").Observe(time.Since(start).Seconds())
		if err == nil {
			res.Cities = fallback.FilterCities(cities, query, ix.cfg.Limit)
			metrics.LocationLookups.WithLabelValues("search", metrics.OutcomeRemote).Inc()
			return res
		}
		ix.logger.Warn("city search failed, using bundled dataset",
			"query", query,
			"country", countryCode,
			"state", stateCode,
			"error", err,
		)
	}

	res.Offline = true
	res.Cities = ix.dataset.SearchCities(query, countryCode, stateCode, ix.cfg.Limit)
	outcome := metrics.OutcomeFallback
	if len(res.Cities) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.LocationLookups.WithLabelValues("search", outcome).Inc()
	return res
}

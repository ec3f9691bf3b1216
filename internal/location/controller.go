package location

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"casedesk/internal/dedupe"
	"casedesk/internal/fallback"
	"casedesk/internal/metrics"
	"casedesk/internal/search"
	"casedesk/internal/types"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultRequestTimeout  = 10 * time.Second
	DefaultCitySelectDelay = 100 * time.Millisecond
	DefaultSuggestionLimit = 10
	DefaultAddressLimit    = 5
)

type Config struct {
	// RequestTimeout bounds every remote call. Zero disables the deadline.
	RequestTimeout  time.Duration
	CitySelectDelay time.Duration
	SearchDebounce  time.Duration
	SuggestionLimit int
	SessionTTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout:  DefaultRequestTimeout,
		CitySelectDelay: DefaultCitySelectDelay,
		SearchDebounce:  search.DefaultDebounce,
		SuggestionLimit: DefaultSuggestionLimit,
		SessionTTL:      DefaultSessionTTL,
	}
}

// Snapshot is a copy of a session's state, safe to hand to other goroutines.
type Snapshot struct {
	Location    types.FormLocation `json:"location"`
	Phase       Phase              `json:"phase"`
	States      []types.State      `json:"states"`
	Cities      []types.City       `json:"cities"`
	Suggestions []types.City       `json:"suggestions"`

	LoadingStates         bool `json:"loadingStates"`
	LoadingCities         bool `json:"loadingCities"`
	Searching             bool `json:"searching"`
	GeneratingCoordinates bool `json:"generatingCoordinates"`

	// Offline is set once any list of this session came from the bundled
	// dataset.
	Offline bool `json:"offline"`
	// FreeText is set when no city list is available for the current scope
	// and the city must be typed.
	FreeText bool   `json:"freeText"`
	Timezone string `json:"timezone,omitempty"`
}

// generations counts requests per scope. A result is applied only when it
// carries the current generation of its scope.
type generations struct {
	states uint64
	cities uint64
	search uint64
	coords uint64
}

// Controller drives one form's country, state, city and coordinate fields.
// Operations return immediately; lookups run in the background and their
// results are applied under the controller's lock.
type Controller struct {
	resolver  *Resolver
	dataset   *fallback.Dataset
	generator CoordinateGenerator
	searcher  CitySearcher
	tracker   *dedupe.Tracker
	cfg       Config
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// searchMu orders calls into the searcher so the last caller is the
	// last query it sees. Acquired before mu.
	searchMu sync.Mutex

	mu          sync.Mutex
	phase       Phase
	form        types.FormLocation
	countryCode string
	stateCode   string
	states      []types.State
	cities      []types.City
	citiesReady bool
	suggestions []types.City
	offline     bool
	freeText    bool
	timezone    string

	loadingStates bool
	loadingCities bool
	searching     bool
	generating    bool

	gens       generations
	wanted     map[dedupe.RequestKey]uint64
	coordTimer *time.Timer

	touched bool
	closed  bool
	pending int
	idle    chan struct{}
}

// NewController creates a controller with its own deduplicator and search
// index.
func NewController(resolver *Resolver, generator CoordinateGenerator, cfg Config, logger *slog.Logger) *Controller {
	tracker := dedupe.NewTracker()
	var lister search.CityLister
	if resolver.provider != nil {
		lister = resolver.provider
	}
	searcher := search.NewIndex(lister, resolver.dataset, tracker, search.Config{
		Debounce:       cfg.SearchDebounce,
		Limit:          cfg.SuggestionLimit,
		RequestTimeout: cfg.RequestTimeout,
	}, logger)
	return NewControllerWithSearcher(resolver, generator, searcher, tracker, cfg, logger)
}

// NewControllerWithSearcher creates a controller with a custom searcher.
// tracker must be the one the searcher deduplicates against.
func NewControllerWithSearcher(
	resolver *Resolver,
	generator CoordinateGenerator,
	searcher CitySearcher,
	tracker *dedupe.Tracker,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = DefaultSuggestionLimit
	}
	if cfg.CitySelectDelay < 0 {
		cfg.CitySelectDelay = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	return &Controller{
		resolver:  resolver,
		dataset:   resolver.dataset,
		generator: generator,
		searcher:  searcher,
		tracker:   tracker,
		cfg:       cfg,
		logger:    logger.With("component", "location-controller"),
		ctx:       ctx,
		cancel:    cancel,
		wanted:    make(map[dedupe.RequestKey]uint64),
		idle:      idle,
	}
}

// SetCountry selects a country, clearing everything below it, and loads its
// states. An empty name returns the session to idle.
func (c *Controller) SetCountry(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.touched = true

	c.form = types.FormLocation{Country: name}
	c.countryCode, c.stateCode = "", ""
	c.states, c.cities, c.citiesReady = nil, nil, false
	c.freeText, c.timezone = false, ""
	c.cancelCoordinatesLocked()
	c.cancelSearchLocked()
	c.invalidateCitiesLocked()

	if strings.TrimSpace(name) == "" {
		c.gens.states++
		c.loadingStates = false
		c.apply(EventCountryCleared)
		return nil
	}

	c.countryCode = c.resolver.CountryCode(name)
	c.apply(EventCountrySet)
	c.requestStatesLocked()
	return nil
}

// SetState selects a state, clearing city, address and coordinates, and
// loads its cities.
func (c *Controller) SetState(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.touched = true

	c.form.State = name
	c.form.City, c.form.Address = "", ""
	c.form.ClearCoordinates()
	c.cities, c.citiesReady = nil, false
	c.freeText, c.timezone = false, ""
	c.cancelCoordinatesLocked()
	c.cancelSearchLocked()
	c.invalidateCitiesLocked()

	if strings.TrimSpace(name) == "" {
		c.stateCode = ""
		c.apply(EventStateCleared)
		return nil
	}

	c.stateCode = c.stateCodeLocked(name)
	c.apply(EventStateSet)
	c.requestCitiesLocked()
	return nil
}

// SetCity sets the city. Choosing a city while coordinates are empty
// schedules coordinate generation; existing coordinates are never replaced.
func (c *Controller) SetCity(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.touched = true
	c.setCityLocked(name)
	return nil
}

// SelectSuggestion sets the city from a search suggestion. The suggestion's
// canonical spelling is used when it matches one.
func (c *Controller) SelectSuggestion(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.touched = true

	for _, s := range c.suggestions {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			name = s.Name
			break
		}
	}
	c.setCityLocked(name)
	return nil
}

func (c *Controller) setCityLocked(name string) {
	c.form.City = name
	c.cancelSearchLocked()

	if strings.TrimSpace(name) == "" {
		// A generation that already started still completes.
		if c.coordTimer != nil && c.coordTimer.Stop() {
			c.gens.coords++
			c.generating = false
			c.endLocked()
		}
		c.coordTimer = nil
		c.apply(EventCityCleared)
		return
	}

	switch {
	case c.generating:
		c.apply(EventCitySet)
	case c.form.HasCoordinates():
		c.apply(EventCityConfirmed)
	default:
		c.scheduleCoordinatesLocked(c.cfg.CitySelectDelay)
		c.apply(EventCitySet)
	}
}

// RegenerateCoordinates discards the current coordinates and generates new
// ones for the selected country.
func (c *Controller) RegenerateCoordinates() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.touched = true

	if strings.TrimSpace(c.form.Country) == "" {
		return nil
	}
	c.cancelCoordinatesLocked()
	c.form.ClearCoordinates()
	c.timezone = ""
	c.scheduleCoordinatesLocked(0)
	c.apply(EventCoordinatesRequested)
	return nil
}

// SearchCity looks up city suggestions for a partial name. A loaded city
// list is filtered locally; otherwise the query goes to the debounced
// search index.
func (c *Controller) SearchCity(query string) error {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.touched = true

	if c.citiesReady && len(c.cities) > 0 {
		c.cancelSearchLocked()
		c.suggestions = fallback.FilterCities(c.cities, query, c.cfg.SuggestionLimit)
		c.mu.Unlock()
		return nil
	}

	c.gens.search++
	gen := c.gens.search
	if !c.searching {
		c.searching = true
		c.beginLocked()
	}
	country, state := c.countryCode, c.stateCode
	if country == "" {
		country = c.form.Country
	}
	if state == "" {
		state = c.form.State
	}
	c.mu.Unlock()

	c.searcher.Search(query, country, state, func(res search.Result) {
		c.applySearch(gen, res)
	})
	return nil
}

func (c *Controller) applySearch(gen uint64, res search.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gens.search || c.closed {
		c.logger.Debug("discarding stale search result", "query", res.Query)
		return
	}
	c.searching = false
	c.endLocked()
	c.suggestions = res.Cities
	if res.Offline {
		c.offline = true
	}
}

// SetAddress sets the free-text address line.
func (c *Controller) SetAddress(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.touched = true
	c.form.Address = value
	return nil
}

// AddressSuggestions matches query against the bundled sample addresses of
// the selected city.
func (c *Controller) AddressSuggestions(query string) []string {
	c.mu.Lock()
	city := c.form.City
	c.mu.Unlock()

	if strings.TrimSpace(city) == "" {
		return []string{}
	}
	return c.dataset.MatchAddresses(city, query, DefaultAddressLimit)
}

// Hydrate populates the session from an existing record without the resets
// SetCountry and SetState perform, then loads the lists for that record.
// It is accepted once, and only before any other change.
func (c *Controller) Hydrate(loc types.FormLocation) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.touched || c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrAlreadyHydrated
	}
	c.touched = true
	c.form = loc

	if strings.TrimSpace(loc.Country) == "" {
		c.mu.Unlock()
		return nil
	}

	c.countryCode = c.resolver.CountryCode(loc.Country)
	c.stateCode = ""
	if loc.State != "" {
		c.stateCode = c.stateCodeLocked(loc.State)
	}
	c.apply(EventHydrate)

	c.gens.states++
	c.gens.cities++
	statesKey := dedupe.StatesKey(c.countryKeyLocked())
	citiesKey := dedupe.CitiesKey(c.countryKeyLocked(), c.stateKeyLocked())
	c.wanted[statesKey] = c.gens.states
	c.wanted[citiesKey] = c.gens.cities
	// A fresh session has nothing in flight, so both keys are free.
	c.tracker.TryAcquire(statesKey)
	c.tracker.TryAcquire(citiesKey)
	c.loadingStates = true
	c.loadingCities = loc.State != ""
	scope := c.scopeLocked()
	c.beginLocked()
	c.mu.Unlock()

	go c.hydrate(scope, statesKey, citiesKey)
	return nil
}

func (c *Controller) hydrate(scope Scope, statesKey, citiesKey dedupe.RequestKey) {
	var (
		states       ListResult[types.State]
		cities       ListResult[types.City]
		citiesLoaded bool
	)

	// With a known state code both lists load together. Otherwise the state
	// is looked up in the loaded states first.
	concurrent := scope.StateName != "" && scope.StateCode != ""

	g, ctx := errgroup.WithContext(c.ctx)
	g.Go(func() error {
		states = c.resolver.States(ctx, scope)
		return nil
	})
	if concurrent {
		g.Go(func() error {
			cities = c.resolver.Cities(ctx, scope)
			citiesLoaded = true
			return nil
		})
	}
	_ = g.Wait()

	if !citiesLoaded && c.ctx.Err() == nil {
		switch {
		case scope.StateName != "":
			scope.StateCode = findStateCode(states.Items, scope.StateName)
			cities = c.resolver.Cities(c.ctx, scope)
			citiesLoaded = true
		case len(states.Items) == 0:
			// Countries without subdivisions list cities at country level.
			cities = c.resolver.Cities(c.ctx, scope)
			citiesLoaded = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.endLocked()

	c.tracker.Release(statesKey)
	c.tracker.Release(citiesKey)
	wantStates, wantCities := c.wanted[statesKey], c.wanted[citiesKey]
	delete(c.wanted, statesKey)
	delete(c.wanted, citiesKey)

	if c.closed {
		return
	}

	// A cascade change made during hydration may have adopted these keys;
	// results are then applied the ordinary way.
	hydrating := c.phase == PhaseHydrating
	if wantStates == c.gens.states {
		if hydrating {
			c.loadingStates = false
			c.states = states.Items
			c.offline = c.offline || states.Offline
		} else {
			c.applyStatesLocked(states)
		}
	}
	if citiesLoaded && wantCities == c.gens.cities {
		if hydrating {
			c.loadingCities = false
			c.cities = cities.Items
			c.citiesReady = true
			c.freeText = len(cities.Items) == 0
			c.offline = c.offline || cities.Offline
			if scope.StateCode != "" {
				c.stateCode = scope.StateCode
			}
		} else {
			c.applyCitiesLocked(cities)
		}
	}

	if !hydrating {
		c.logger.Debug("hydration superseded", "phase", c.phase)
		return
	}
	c.loadingStates, c.loadingCities = false, false

	c.apply(EventHydrated)
	if c.form.State != "" || (len(c.states) == 0 && c.citiesReady) {
		c.apply(EventStateSet)
	}
	if c.citiesReady {
		c.apply(EventCitiesLoaded)
	}
	// A city without coordinates waits in SelectingCity for the user to
	// confirm or change it; hydration never generates.
	switch {
	case c.form.City == "":
	case c.generating:
		c.apply(EventCitySet)
	case c.form.HasCoordinates():
		c.apply(EventCityConfirmed)
	}
}

func findStateCode(states []types.State, name string) string {
	key := normalize(name)
	for _, s := range states {
		if normalize(s.Name) == key || strings.EqualFold(s.Code, key) {
			return s.Code
		}
	}
	return ""
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Location:              c.form,
		Phase:                 c.phase,
		States:                cloneOrEmpty(c.states),
		Cities:                cloneOrEmpty(c.cities),
		Suggestions:           cloneOrEmpty(c.suggestions),
		LoadingStates:         c.loadingStates,
		LoadingCities:         c.loadingCities,
		Searching:             c.searching,
		GeneratingCoordinates: c.generating,
		Offline:               c.offline,
		FreeText:              c.freeText,
		Timezone:              c.timezone,
	}
}

// Wait blocks until no lookup, search or coordinate generation is
// outstanding, or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels pending timers and in-flight lookups and waits for
// background work to stop. Further mutations return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelCoordinatesLocked()
	c.cancelSearchLocked()
	c.cancel()
	c.mu.Unlock()

	c.searcher.Close()
	_ = c.Wait(context.Background())
}

func (c *Controller) requestStatesLocked() {
	c.gens.states++
	gen := c.gens.states
	key := dedupe.StatesKey(c.countryKeyLocked())
	c.wanted[key] = gen
	c.loadingStates = true

	if !c.tracker.TryAcquire(key) {
		metrics.DedupeRejections.WithLabelValues("states").Inc()
		c.logger.Debug("states request already in flight", "key", key)
		return
	}

	scope := c.scopeLocked()
	c.beginLocked()
	go func() {
		res := c.resolver.States(c.ctx, scope)

		c.mu.Lock()
		defer c.mu.Unlock()
		defer c.endLocked()

		c.tracker.Release(key)
		want := c.wanted[key]
		delete(c.wanted, key)
		if c.closed || want != c.gens.states {
			c.logger.Debug("discarding stale states", "key", key)
			return
		}
		c.applyStatesLocked(res)
	}()
}

func (c *Controller) applyStatesLocked(res ListResult[types.State]) {
	c.loadingStates = false
	c.states = res.Items
	c.offline = c.offline || res.Offline

	if len(res.Items) > 0 {
		c.apply(EventStatesLoaded)
		return
	}
	c.apply(EventStatesEmpty)
	c.requestCountryCitiesLocked()
}

func (c *Controller) requestCitiesLocked() {
	c.requestCitiesForLocked(c.scopeLocked(), c.stateKeyLocked())
}

// requestCountryCitiesLocked loads the cities of the whole country. A state
// typed before the empty state list arrived does not qualify the request.
func (c *Controller) requestCountryCitiesLocked() {
	c.stateCode = ""
	scope := c.scopeLocked()
	scope.StateCode, scope.StateName = "", ""
	c.requestCitiesForLocked(scope, "")
}

func (c *Controller) requestCitiesForLocked(scope Scope, stateKey string) {
	c.gens.cities++
	gen := c.gens.cities
	key := dedupe.CitiesKey(c.countryKeyLocked(), stateKey)
	c.wanted[key] = gen
	c.loadingCities = true

	if !c.tracker.TryAcquire(key) {
		metrics.DedupeRejections.WithLabelValues("cities").Inc()
		c.logger.Debug("cities request already in flight", "key", key)
		return
	}

	c.beginLocked()
	go func() {
		res := c.resolver.Cities(c.ctx, scope)

		c.mu.Lock()
		defer c.mu.Unlock()
		defer c.endLocked()

		c.tracker.Release(key)
		want := c.wanted[key]
		delete(c.wanted, key)
		if c.closed || want != c.gens.cities {
			c.logger.Debug("discarding stale cities", "key", key)
			return
		}
		c.applyCitiesLocked(res)
	}()
}

func (c *Controller) applyCitiesLocked(res ListResult[types.City]) {
	c.loadingCities = false
	c.cities = res.Items
	c.citiesReady = true
	c.offline = c.offline || res.Offline
	c.freeText = len(res.Items) == 0
	if c.freeText {
		c.logger.Warn("no cities available, free text entry required",
			"country", c.form.Country,
			"state", c.form.State,
		)
	}
	c.apply(EventCitiesLoaded)
}

func (c *Controller) scheduleCoordinatesLocked(delay time.Duration) {
	c.gens.coords++
	gen := c.gens.coords
	country := c.form.Country
	c.generating = true
	c.beginLocked()
	c.coordTimer = time.AfterFunc(delay, func() {
		c.generateCoordinates(gen, country)
	})
}

func (c *Controller) generateCoordinates(gen uint64, country string) {
	res, err := c.generator.Generate(c.ctx, country)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.endLocked()

	if c.closed || gen != c.gens.coords {
		return
	}
	c.generating = false
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("coordinate generation failed", "country", country, "error", err)
		}
		return
	}
	if c.form.HasCoordinates() {
		return
	}

	c.form.Latitude, c.form.Longitude = res.Coords.Strings()
	c.timezone = res.Timezone
	c.apply(EventCoordinatesSet)
}

// cancelCoordinatesLocked stops a scheduled generation and discards the
// result of one already running.
func (c *Controller) cancelCoordinatesLocked() {
	if c.coordTimer != nil && c.coordTimer.Stop() {
		c.endLocked()
	}
	c.coordTimer = nil
	c.gens.coords++
	c.generating = false
}

func (c *Controller) cancelSearchLocked() {
	c.searcher.Cancel()
	c.gens.search++
	c.suggestions = nil
	if c.searching {
		c.searching = false
		c.endLocked()
	}
}

func (c *Controller) invalidateCitiesLocked() {
	c.gens.cities++
	c.loadingCities = false
}

func (c *Controller) stateCodeLocked(name string) string {
	if code := findStateCode(c.states, name); code != "" {
		return code
	}
	country := c.countryCode
	if country == "" {
		country = c.form.Country
	}
	if code, ok := c.dataset.StateCode(country, name); ok {
		return code
	}
	code, _ := c.dataset.StateCode(c.form.Country, name)
	return code
}

func (c *Controller) scopeLocked() Scope {
	return Scope{
		CountryCode: c.countryCode,
		CountryName: c.form.Country,
		StateCode:   c.stateCode,
		StateName:   c.form.State,
	}
}

// countryKeyLocked and stateKeyLocked identify the scope for deduplication,
// preferring codes.
func (c *Controller) countryKeyLocked() string {
	if c.countryCode != "" {
		return c.countryCode
	}
	return normalize(c.form.Country)
}

func (c *Controller) stateKeyLocked() string {
	if c.stateCode != "" {
		return c.stateCode
	}
	return normalize(c.form.State)
}

func (c *Controller) apply(e Event) {
	next, ok := transition(c.phase, e)
	if !ok {
		c.logger.Debug("ignoring event", "phase", c.phase, "event", e)
		return
	}
	c.phase = next
}

func (c *Controller) beginLocked() {
	if c.pending == 0 {
		c.idle = make(chan struct{})
	}
	c.pending++
}

func (c *Controller) endLocked() {
	c.pending--
	if c.pending == 0 {
		close(c.idle)
	}
}

func cloneOrEmpty[T any](items []T) []T {
	return append(make([]T, 0, len(items)), items...)
}

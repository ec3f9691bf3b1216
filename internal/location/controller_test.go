package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"casedesk/internal/coordinates"
	"casedesk/internal/fallback"
	"casedesk/internal/location/mocks"
	"casedesk/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeProvider serves fixed lists keyed by "states:CC" and "cities:CC/SS".
// A gate registered for a key blocks that call until the gate is closed or
// the request context ends.
type fakeProvider struct {
	mu     sync.Mutex
	states map[string][]types.State
	cities map[string][]types.City
	fail   bool
	gates  map[string]chan struct{}
	calls  map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		states: map[string][]types.State{
			"US": {{Code: "CA", Name: "California"}, {Code: "NY", Name: "New York"}},
			"DE": {{Code: "BY", Name: "Bavaria"}, {Code: "BE", Name: "Berlin"}},
			"SG": {},
		},
		cities: map[string][]types.City{
			"US/CA": {{ID: 1, Name: "Los Angeles"}, {ID: 2, Name: "San Francisco"}, {ID: 3, Name: "San Diego"}},
			"US/NY": {{ID: 4, Name: "New York City"}, {ID: 5, Name: "Buffalo"}},
			"DE/BY": {{ID: 6, Name: "Munich"}, {ID: 7, Name: "Nuremberg"}},
			"SG/":   {{ID: 8, Name: "Singapore"}},
		},
		gates: map[string]chan struct{}{},
		calls: map[string]int{},
	}
}

func (f *fakeProvider) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeProvider) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *fakeProvider) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeProvider) enter(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls[key]++
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return lookupErr(key)
	}
	return nil
}

func (f *fakeProvider) ListCountries(ctx context.Context) ([]types.Country, error) {
	if err := f.enter(ctx, "countries"); err != nil {
		return nil, err
	}
	return []types.Country{{Code: "US", Name: "United States"}, {Code: "DE", Name: "Germany"}}, nil
}

func (f *fakeProvider) ListStates(ctx context.Context, countryCode string) ([]types.State, error) {
	key := "states:" + countryCode
	if err := f.enter(ctx, key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.states[countryCode]; ok {
		return s, nil
	}
	return nil, lookupErr(key)
}

func (f *fakeProvider) ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error) {
	key := "cities:" + countryCode + "/" + stateCode
	if err := f.enter(ctx, key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cities[countryCode+"/"+stateCode]; ok {
		return c, nil
	}
	return nil, lookupErr(key)
}

func testConfig() Config {
	return Config{
		RequestTimeout:  time.Second,
		CitySelectDelay: 0,
		SearchDebounce:  20 * time.Millisecond,
		SuggestionLimit: 10,
	}
}

func newTestController(t *testing.T, provider Provider, generator CoordinateGenerator) *Controller {
	t.Helper()
	if generator == nil {
		generator = coordinates.NewGenerator(fallback.MustLoad(), 0, discardLogger())
	}
	var p Provider
	if provider != nil {
		p = provider
	}
	resolver := NewResolver(p, fallback.MustLoad(), time.Second, discardLogger())
	c := NewController(resolver, generator, testConfig(), discardLogger())
	t.Cleanup(c.Close)
	return c
}

func settle(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx), "controller did not settle")
	return c.Snapshot()
}

func stateNames(states []types.State) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, s.Name)
	}
	return out
}

func cityNames(cities []types.City) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		out = append(out, c.Name)
	}
	return out
}

func TestController_SetCountry_LoadsStates(t *testing.T) {
	provider := newFakeProvider()
	gate := provider.gate("states:US")
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("United States"))
	snap := c.Snapshot()
	assert.True(t, snap.LoadingStates)
	assert.Equal(t, PhaseAwaitingStates, snap.Phase)
	close(gate)

	snap = settle(t, c)
	assert.Equal(t, PhaseSelectingState, snap.Phase)
	assert.Equal(t, []string{"California", "New York"}, stateNames(snap.States))
	assert.False(t, snap.LoadingStates)
	assert.False(t, snap.Offline)
	assert.Equal(t, 1, provider.count("states:US"))
}

func TestController_SetCountry_ResetsDependentFields(t *testing.T) {
	c := newTestController(t, newFakeProvider(), nil)

	require.NoError(t, c.SetCountry("United States"))
	settle(t, c)
	require.NoError(t, c.SetState("California"))
	settle(t, c)
	require.NoError(t, c.SetCity("Los Angeles"))
	require.NoError(t, c.SetAddress("200 N Spring St"))
	snap := settle(t, c)
	require.True(t, snap.Location.HasCoordinates())

	require.NoError(t, c.SetCountry("Germany"))
	snap = c.Snapshot()
	assert.Equal(t, types.FormLocation{Country: "Germany"}, snap.Location)
	assert.Empty(t, snap.Cities)
	assert.Empty(t, snap.Suggestions)

	snap = settle(t, c)
	assert.Equal(t, []string{"Bavaria", "Berlin"}, stateNames(snap.States))
}

func TestController_SetCountry_Empty(t *testing.T) {
	c := newTestController(t, newFakeProvider(), nil)

	require.NoError(t, c.SetCountry("Germany"))
	require.NoError(t, c.SetCountry(""))

	snap := settle(t, c)
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Empty(t, snap.States, "late states for the cleared country must be discarded")
}

func TestController_StatesFailureUsesFallback(t *testing.T) {
	provider := newFakeProvider()
	provider.setFail(true)
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("Germany"))
	snap := settle(t, c)

	assert.True(t, snap.Offline)
	assert.Equal(t, []string{"Bavaria", "Berlin", "Hamburg"}, stateNames(snap.States))
	assert.Equal(t, PhaseSelectingState, snap.Phase)

	require.NoError(t, c.SetState("Bavaria"))
	snap = settle(t, c)
	assert.Equal(t, []string{"Munich", "Nuremberg", "Augsburg"}, cityNames(snap.Cities))
	assert.Equal(t, PhaseSelectingCity, snap.Phase)
}

func TestController_NoStatesLoadsCountryCities(t *testing.T) {
	provider := newFakeProvider()
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("Singapore"))
	snap := settle(t, c)

	assert.Empty(t, snap.States)
	assert.Equal(t, []string{"Singapore"}, cityNames(snap.Cities))
	assert.Equal(t, PhaseSelectingCity, snap.Phase)
	assert.Equal(t, 1, provider.count("cities:SG/"))
}

func TestController_UnknownCountryAllowsFreeText(t *testing.T) {
	provider := newFakeProvider()
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("Atlantis"))
	snap := settle(t, c)

	assert.Empty(t, snap.States)
	assert.Empty(t, snap.Cities)
	assert.True(t, snap.FreeText)
	assert.True(t, snap.Offline)

	require.NoError(t, c.SetCity("Poseidonis"))
	snap = settle(t, c)
	assert.Equal(t, "Poseidonis", snap.Location.City)
	assert.Equal(t, "0", snap.Location.Latitude)
	assert.Equal(t, "0", snap.Location.Longitude)
}

func TestController_SetState_ClearsCityAndCoordinates(t *testing.T) {
	c := newTestController(t, newFakeProvider(), nil)

	require.NoError(t, c.SetCountry("United States"))
	settle(t, c)
	require.NoError(t, c.SetState("California"))
	settle(t, c)
	require.NoError(t, c.SetCity("San Diego"))
	settle(t, c)

	require.NoError(t, c.SetState("New York"))
	snap := c.Snapshot()
	assert.Equal(t, "New York", snap.Location.State)
	assert.Empty(t, snap.Location.City)
	assert.Empty(t, snap.Location.Latitude)
	assert.Empty(t, snap.Location.Longitude)

	snap = settle(t, c)
	assert.Equal(t, []string{"New York City", "Buffalo"}, cityNames(snap.Cities))
}

func TestController_SetCity_GeneratesCoordinatesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockCoordinateGenerator(ctrl)
	generator.EXPECT().Generate(gomock.Any(), "United States").Return(coordinates.Result{
		Country:  "United States",
		Coords:   types.NewCoords(39.8283, -98.5795),
		Source:   coordinates.SourceTable,
		Timezone: "America/Chicago",
	}, nil).Times(1)

	c := newTestController(t, newFakeProvider(), generator)

	require.NoError(t, c.SetCountry("United States"))
	settle(t, c)
	require.NoError(t, c.SetState("California"))
	settle(t, c)

	require.NoError(t, c.SetCity("Los Angeles"))
	snap := settle(t, c)
	assert.Equal(t, "39.8283", snap.Location.Latitude)
	assert.Equal(t, "-98.5795", snap.Location.Longitude)
	assert.Equal(t, "America/Chicago", snap.Timezone)
	assert.Equal(t, PhaseReady, snap.Phase)

	// Existing coordinates are never replaced by another city choice.
	require.NoError(t, c.SetCity("San Francisco"))
	snap = settle(t, c)
	assert.Equal(t, "San Francisco", snap.Location.City)
	assert.Equal(t, "39.8283", snap.Location.Latitude)
	assert.Equal(t, PhaseReady, snap.Phase)
}

func TestController_RegenerateCoordinates(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockCoordinateGenerator(ctrl)
	gomock.InOrder(
		generator.EXPECT().Generate(gomock.Any(), "Germany").Return(coordinates.Result{Coords: types.NewCoords(51.1657, 10.4515)}, nil),
		generator.EXPECT().Generate(gomock.Any(), "Germany").Return(coordinates.Result{Coords: types.NewCoords(48.1351, 11.582)}, nil),
	)

	c := newTestController(t, newFakeProvider(), generator)
	require.NoError(t, c.SetCountry("Germany"))
	settle(t, c)
	require.NoError(t, c.SetCity("Munich"))
	snap := settle(t, c)
	require.Equal(t, "51.1657", snap.Location.Latitude)

	require.NoError(t, c.RegenerateCoordinates())

	snap = settle(t, c)
	assert.Equal(t, "48.1351", snap.Location.Latitude)
	assert.Equal(t, "11.582", snap.Location.Longitude)
}

func TestController_RegenerateWithoutCountryIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockCoordinateGenerator(ctrl)

	c := newTestController(t, newFakeProvider(), generator)
	require.NoError(t, c.RegenerateCoordinates())
	assert.Equal(t, PhaseIdle, settle(t, c).Phase)
}

func TestController_StaleStatesDiscarded(t *testing.T) {
	provider := newFakeProvider()
	usGate := provider.gate("states:US")
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("United States"))
	require.NoError(t, c.SetCountry("Germany"))

	// Let Germany's answer arrive first, then release the slow one.
	require.Eventually(t, func() bool {
		return len(c.Snapshot().States) == 2
	}, 2*time.Second, 5*time.Millisecond)
	close(usGate)

	snap := settle(t, c)
	assert.Equal(t, "Germany", snap.Location.Country)
	assert.Equal(t, []string{"Bavaria", "Berlin"}, stateNames(snap.States))
}

func TestController_InFlightRequestIsAdopted(t *testing.T) {
	provider := newFakeProvider()
	usGate := provider.gate("states:US")
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("United States"))
	require.NoError(t, c.SetCountry("Germany"))
	require.NoError(t, c.SetCountry("United States"))

	close(usGate)
	snap := settle(t, c)

	assert.Equal(t, 1, provider.count("states:US"), "identical in-flight request must not be repeated")
	assert.Equal(t, []string{"California", "New York"}, stateNames(snap.States))
	assert.Equal(t, PhaseSelectingState, snap.Phase)
	assert.False(t, snap.LoadingStates)
}

func TestController_StaleCitiesDiscarded(t *testing.T) {
	provider := newFakeProvider()
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("United States"))
	settle(t, c)

	caGate := provider.gate("cities:US/CA")
	require.NoError(t, c.SetState("California"))
	require.NoError(t, c.SetState("New York"))
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Cities) == 2
	}, 2*time.Second, 5*time.Millisecond)
	close(caGate)

	snap := settle(t, c)
	assert.Equal(t, []string{"New York City", "Buffalo"}, cityNames(snap.Cities))
}

func TestController_Hydrate(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No Generate expectation: hydration must not trigger generation.
	generator := mocks.NewMockCoordinateGenerator(ctrl)
	provider := newFakeProvider()
	c := newTestController(t, provider, generator)

	record := types.FormLocation{
		Country:   "United States",
		State:     "California",
		City:      "San Diego",
		Address:   "202 C St",
		Latitude:  "32.7157",
		Longitude: "-117.1611",
	}
	require.NoError(t, c.Hydrate(record))

	snap := settle(t, c)
	assert.Equal(t, record, snap.Location, "hydration must not reset dependent fields")
	assert.Equal(t, []string{"California", "New York"}, stateNames(snap.States))
	assert.Equal(t, []string{"Los Angeles", "San Francisco", "San Diego"}, cityNames(snap.Cities))
	assert.Equal(t, PhaseReady, snap.Phase)

	assert.ErrorIs(t, c.Hydrate(record), ErrAlreadyHydrated)

	// After hydration a country change resets as usual.
	require.NoError(t, c.SetCountry("Germany"))
	assert.Equal(t, types.FormLocation{Country: "Germany"}, c.Snapshot().Location)
}

func TestController_HydrateWithoutCoordinatesWaitsForCityChoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockCoordinateGenerator(ctrl)
	c := newTestController(t, newFakeProvider(), generator)

	require.NoError(t, c.Hydrate(types.FormLocation{Country: "Singapore", City: "Singapore"}))
	snap := settle(t, c)

	assert.Empty(t, snap.Location.Latitude)
	assert.Equal(t, []string{"Singapore"}, cityNames(snap.Cities))
	assert.Equal(t, PhaseSelectingCity, snap.Phase, "no coordinates, so the record is not ready")

	generator.EXPECT().
		Generate(gomock.Any(), "Singapore").
		Return(coordinates.Result{Country: "Singapore", Coords: types.NewCoords(1.3521, 103.8198), Source: coordinates.SourceTable}, nil).
		Times(1)
	require.NoError(t, c.SetCity("Singapore"))
	snap = settle(t, c)
	assert.Equal(t, "1.3521", snap.Location.Latitude)
	assert.Equal(t, PhaseReady, snap.Phase)
}

func TestController_StateTypedBeforeEmptyStateListLoadsCountryCities(t *testing.T) {
	provider := newFakeProvider()
	gate := provider.gate("states:SG")
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("Singapore"))
	require.NoError(t, c.SetState("Central"))
	close(gate)

	snap := settle(t, c)
	assert.Equal(t, []string{"Singapore"}, cityNames(snap.Cities))
	assert.False(t, snap.FreeText)
	assert.Equal(t, 1, provider.count("cities:SG/"), "cities must be requested without a state qualifier")
	assert.Equal(t, PhaseSelectingCity, snap.Phase)
}

func TestController_HydrateRejectedAfterEdit(t *testing.T) {
	c := newTestController(t, newFakeProvider(), nil)

	require.NoError(t, c.SetAddress("somewhere"))
	assert.ErrorIs(t, c.Hydrate(types.FormLocation{Country: "Germany"}), ErrAlreadyHydrated)
}

func TestController_HydrateThenReselectSameCountry(t *testing.T) {
	provider := newFakeProvider()
	gate := provider.gate("states:DE")
	c := newTestController(t, provider, nil)

	require.NoError(t, c.Hydrate(types.FormLocation{Country: "Germany", State: "Bavaria"}))
	require.NoError(t, c.SetCountry("Germany"))
	close(gate)

	snap := settle(t, c)
	assert.Equal(t, 1, provider.count("states:DE"))
	assert.Equal(t, []string{"Bavaria", "Berlin"}, stateNames(snap.States))
	assert.Empty(t, snap.Location.State)
	assert.Equal(t, PhaseSelectingState, snap.Phase)
}

func TestController_SearchCity_FiltersLoadedList(t *testing.T) {
	provider := newFakeProvider()
	c := newTestController(t, provider, nil)

	require.NoError(t, c.SetCountry("United States"))
	settle(t, c)
	require.NoError(t, c.SetState("California"))
	settle(t, c)
	before := provider.count("cities:US/CA")

	require.NoError(t, c.SearchCity("SAN"))
	snap := settle(t, c)

	assert.Equal(t, []string{"San Francisco", "San Diego"}, cityNames(snap.Suggestions))
	assert.Equal(t, before, provider.count("cities:US/CA"), "local filtering must not hit the network")
}

func TestController_SearchCity_UsesDebouncedIndex(t *testing.T) {
	provider := newFakeProvider()
	gate := provider.gate("states:US")
	c := newTestController(t, provider, nil)

	// States are still loading, so no city list exists yet.
	require.NoError(t, c.SetCountry("United States"))
	require.NoError(t, c.SearchCity("ne"))
	require.NoError(t, c.SearchCity("new"))
	assert.True(t, c.Snapshot().Searching)

	require.Eventually(t, func() bool {
		return !c.Snapshot().Searching
	}, 2*time.Second, 5*time.Millisecond)

	// The fake has no country-level US list, so the bundled dataset answers.
	snap := c.Snapshot()
	assert.Equal(t, 1, provider.count("cities:US/"))
	assert.Equal(t, []string{"New York City"}, cityNames(snap.Suggestions))
	assert.True(t, snap.Offline)

	require.NoError(t, c.SelectSuggestion("new york city"))
	assert.Equal(t, "New York City", c.Snapshot().Location.City)

	close(gate)
	snap = settle(t, c)
	assert.Equal(t, []string{"California", "New York"}, stateNames(snap.States))
	assert.Equal(t, "New York City", snap.Location.City)
	assert.True(t, snap.Location.HasCoordinates())
}

func TestController_SearchSuggestionsFromFallback(t *testing.T) {
	provider := newFakeProvider()
	statesGate := provider.gate("states:DE")
	c := newTestController(t, provider, nil)
	defer close(statesGate)

	require.NoError(t, c.SetCountry("Germany"))
	require.NoError(t, c.SearchCity("munich"))

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Suggestions) > 0
	}, 2*time.Second, 5*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, []string{"Munich"}, cityNames(snap.Suggestions))
	assert.True(t, snap.Offline)

	require.NoError(t, c.SelectSuggestion("MUNICH"))
	snap = c.Snapshot()
	assert.Equal(t, "Munich", snap.Location.City)
	assert.Empty(t, snap.Suggestions)
	assert.Contains(t, []Phase{PhaseAwaitingCoordinates, PhaseReady}, snap.Phase)
}

func TestController_AddressSuggestions(t *testing.T) {
	c := newTestController(t, newFakeProvider(), nil)

	assert.Empty(t, c.AddressSuggestions("1"))

	require.NoError(t, c.SetCountry("United Kingdom"))
	require.NoError(t, c.SetCity("London"))
	settle(t, c)

	assert.Equal(t, []string{"221B Baker St"}, c.AddressSuggestions("baker"))
	assert.Len(t, c.AddressSuggestions(""), 3)
}

func TestController_Close(t *testing.T) {
	provider := newFakeProvider()
	provider.gate("states:US")
	resolver := NewResolver(provider, fallback.MustLoad(), 0, discardLogger())
	c := NewController(resolver, coordinates.NewGenerator(fallback.MustLoad(), time.Hour, discardLogger()), testConfig(), discardLogger())

	require.NoError(t, c.SetCountry("United States"))
	require.NoError(t, c.SetCity("Somewhere"))

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return")
	}

	for name, op := range map[string]func() error{
		"SetCountry": func() error { return c.SetCountry("Germany") },
		"SetState":   func() error { return c.SetState("Bavaria") },
		"SetCity":    func() error { return c.SetCity("Munich") },
		"SearchCity": func() error { return c.SearchCity("mun") },
		"SetAddress": func() error { return c.SetAddress("x") },
		"Regenerate": c.RegenerateCoordinates,
	} {
		if err := op(); !errors.Is(err, ErrClosed) {
			t.Errorf("%s after Close() error = %v, want ErrClosed", name, err)
		}
	}
	c.Close()
}

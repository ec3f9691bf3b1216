package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"casedesk/internal/dedupe"
	"casedesk/internal/fallback"
	"casedesk/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLister struct {
	mu      sync.Mutex
	calls   []string
	cities  []types.City
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeLister) ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error) {
	f.mu.Lock()
	f.calls = append(f.calls, countryCode+"/"+stateCode)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.cities, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newIndex(t *testing.T, lister CityLister) *Index {
	t.Helper()
	ix := NewIndex(lister, fallback.MustLoad(), dedupe.NewTracker(), Config{Debounce: 30 * time.Millisecond},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(ix.Close)
	return ix
}

func collect() (func(Result), <-chan Result) {
	ch := make(chan Result, 4)
	return func(r Result) { ch <- r }, ch
}

func await(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for search result")
		return Result{}
	}
}

func names(cities []types.City) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		out = append(out, c.Name)
	}
	return out
}

func TestIndex_DebouncesTypingBurst(t *testing.T) {
	lister := &fakeLister{cities: []types.City{{ID: 1, Name: "London"}, {ID: 2, Name: "Longford"}}}
	ix := newIndex(t, lister)

	deliverLon, lonCh := collect()
	deliverLond, londCh := collect()
	ix.Search("lon", "GB", "", deliverLon)
	ix.Search("lond", "GB", "", deliverLond)

	res := await(t, londCh)
	assert.Equal(t, "lond", res.Query)
	assert.Equal(t, []string{"London"}, names(res.Cities))
	assert.False(t, res.Offline)
	assert.Equal(t, 1, lister.callCount())

	select {
	case r := <-lonCh:
		t.Fatalf("superseded query delivered %+v", r)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestIndex_ShortQueryDeliversEmptyImmediately(t *testing.T) {
	lister := &fakeLister{}
	ix := newIndex(t, lister)

	deliverLong, longCh := collect()
	ix.Search("lond", "GB", "", deliverLong)

	var got *Result
	ix.Search("l", "GB", "", func(r Result) { got = &r })

	require.NotNil(t, got, "short query must deliver synchronously")
	assert.Empty(t, got.Cities)

	select {
	case r := <-longCh:
		t.Fatalf("pending search was not cancelled, delivered %+v", r)
	case <-time.After(80 * time.Millisecond):
	}
	assert.Zero(t, lister.callCount())
}

func TestIndex_CapsResults(t *testing.T) {
	var cities []types.City
	for i := 0; i < 25; i++ {
		cities = append(cities, types.City{ID: i, Name: fmt.Sprintf("Springfield %d", i)})
	}
	ix := newIndex(t, &fakeLister{cities: cities})

	deliver, ch := collect()
	ix.Search("SPRING", "US", "", deliver)

	res := await(t, ch)
	assert.Len(t, res.Cities, DefaultLimit)
	assert.Equal(t, "Springfield 0", res.Cities[0].Name)
}

func TestIndex_FallsBackOnFailure(t *testing.T) {
	ix := newIndex(t, &fakeLister{err: errors.New("503")})

	deliver, ch := collect()
	ix.Search("lond", "GB", "", deliver)

	res := await(t, ch)
	assert.True(t, res.Offline)
	assert.Equal(t, []string{"London"}, names(res.Cities))
}

func TestIndex_NilProviderUsesDataset(t *testing.T) {
	ix := newIndex(t, nil)

	deliver, ch := collect()
	ix.Search("mun", "DE", "BY", deliver)

	res := await(t, ch)
	assert.True(t, res.Offline)
	assert.Equal(t, []string{"Munich"}, names(res.Cities))
}

func TestIndex_InFlightKeyDeliversToNewestCaller(t *testing.T) {
	lister := &fakeLister{
		cities:  []types.City{{ID: 1, Name: "London"}},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ix := newIndex(t, lister)

	first, firstCh := collect()
	second, secondCh := collect()

	ix.Search("lond", "GB", "", first)
	<-lister.started

	// Same key while the first request is still outstanding.
	ix.Search("LOND", "GB", "", second)
	time.Sleep(80 * time.Millisecond)
	close(lister.release)

	res := await(t, secondCh)
	assert.Equal(t, []string{"London"}, names(res.Cities))
	assert.Equal(t, 1, lister.callCount())

	select {
	case r := <-firstCh:
		t.Fatalf("superseded caller received %+v", r)
	default:
	}
}

func TestIndex_CloseCancelsInFlight(t *testing.T) {
	lister := &fakeLister{started: make(chan struct{}, 1), release: make(chan struct{})}
	ix := NewIndex(lister, fallback.MustLoad(), nil, Config{Debounce: 10 * time.Millisecond},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	deliver, ch := collect()
	ix.Search("lond", "GB", "", deliver)
	<-lister.started

	ix.Close()

	select {
	case r := <-ch:
		t.Fatalf("delivery after Close: %+v", r)
	default:
	}
}

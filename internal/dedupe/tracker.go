// Package dedupe suppresses duplicate in-flight location requests.
//
// A Tracker only guarantees that at most one request per key is outstanding.
// It says nothing about whether the eventual result is still wanted; callers
// that care about freshness must check that themselves.
package dedupe

import (
	"fmt"
	"sync"
)

// RequestKey identifies a logical location request.
type RequestKey string

func StatesKey(country string) RequestKey {
	return RequestKey(fmt.Sprintf("states-%s", country))
}

// CitiesKey builds the key for a city list. state may be empty for a
// country-level request.
func CitiesKey(country, state string) RequestKey {
	return RequestKey(fmt.Sprintf("cities-%s-%s", country, state))
}

func SearchKey(query, country, state string) RequestKey {
	return RequestKey(fmt.Sprintf("search-%s-%s-%s", query, country, state))
}

// Tracker is a set of in-flight request keys. The zero value is ready to use.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[RequestKey]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[RequestKey]struct{})}
}

// TryAcquire marks key as in flight. It returns false, and the caller must
// not issue the request, when the key is already held.
func (t *Tracker) TryAcquire(key RequestKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight == nil {
		t.inFlight = make(map[RequestKey]struct{})
	}
	if _, held := t.inFlight[key]; held {
		return false
	}
	t.inFlight[key] = struct{}{}
	return true
}

// Release clears key. Releasing a key that is not held is a no-op.
func (t *Tracker) Release(key RequestKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, key)
}

func (t *Tracker) InFlight(key RequestKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, held := t.inFlight[key]
	return held
}

// Len reports the number of keys currently in flight.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight)
}

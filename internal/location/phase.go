package location

import "fmt"

// Phase is the cascade step a session is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseHydrating
	PhaseAwaitingStates
	PhaseSelectingState
	PhaseAwaitingCities
	PhaseSelectingCity
	PhaseAwaitingCoordinates
	PhaseReady
)

var phaseNames = [...]string{
	PhaseIdle:                "idle",
	PhaseHydrating:           "hydrating",
	PhaseAwaitingStates:      "awaiting_states",
	PhaseSelectingState:      "selecting_state",
	PhaseAwaitingCities:      "awaiting_cities",
	PhaseSelectingCity:       "selecting_city",
	PhaseAwaitingCoordinates: "awaiting_coordinates",
	PhaseReady:               "ready",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Event is an input to the phase machine.
type Event int

const (
	EventCountrySet Event = iota
	EventCountryCleared
	EventHydrate
	EventHydrated
	EventStatesLoaded
	EventStatesEmpty
	EventStateSet
	EventStateCleared
	EventCitiesLoaded
	EventCitySet
	EventCityConfirmed
	EventCityCleared
	EventCoordinatesRequested
	EventCoordinatesSet
)

var eventNames = [...]string{
	EventCountrySet:           "country_set",
	EventCountryCleared:       "country_cleared",
	EventHydrate:              "hydrate",
	EventHydrated:             "hydrated",
	EventStatesLoaded:         "states_loaded",
	EventStatesEmpty:          "states_empty",
	EventStateSet:             "state_set",
	EventStateCleared:         "state_cleared",
	EventCitiesLoaded:         "cities_loaded",
	EventCitySet:              "city_set",
	EventCityConfirmed:        "city_confirmed",
	EventCityCleared:          "city_cleared",
	EventCoordinatesRequested: "coordinates_requested",
	EventCoordinatesSet:       "coordinates_set",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

// transition returns the phase reached by applying e in p. ok is false when
// e is not legal in p, in which case the phase must not change.
//
// EventCitySet means a city was chosen and coordinates must be generated;
// EventCityConfirmed means a city was chosen and coordinates are already
// present. A city may be chosen from search suggestions before any list has
// loaded, so both are accepted from every phase after a country is set.
func transition(p Phase, e Event) (next Phase, ok bool) {
	// Changing or clearing the country restarts the cascade from anywhere.
	switch e {
	case EventCountrySet:
		return PhaseAwaitingStates, true
	case EventCountryCleared:
		return PhaseIdle, true
	}

	switch p {
	case PhaseIdle:
		if e == EventHydrate {
			return PhaseHydrating, true
		}
	case PhaseHydrating:
		switch e {
		case EventHydrated:
			return PhaseSelectingState, true
		case EventStateSet:
			return PhaseAwaitingCities, true
		case EventStateCleared:
			return PhaseSelectingState, true
		}
	case PhaseAwaitingStates:
		switch e {
		case EventStatesLoaded:
			return PhaseSelectingState, true
		case EventStatesEmpty, EventStateSet:
			return PhaseAwaitingCities, true
		case EventCitySet:
			return PhaseAwaitingCoordinates, true
		case EventCityConfirmed:
			return PhaseReady, true
		}
	case PhaseSelectingState:
		switch e {
		case EventStateSet:
			return PhaseAwaitingCities, true
		case EventCitySet:
			return PhaseAwaitingCoordinates, true
		case EventCityConfirmed:
			return PhaseReady, true
		}
	case PhaseAwaitingCities:
		switch e {
		case EventCitiesLoaded:
			return PhaseSelectingCity, true
		case EventStateSet:
			return PhaseAwaitingCities, true
		case EventStateCleared:
			return PhaseSelectingState, true
		case EventCitySet:
			return PhaseAwaitingCoordinates, true
		case EventCityConfirmed:
			return PhaseReady, true
		}
	case PhaseSelectingCity:
		switch e {
		case EventCitySet:
			return PhaseAwaitingCoordinates, true
		case EventCityConfirmed:
			return PhaseReady, true
		case EventStateSet:
			return PhaseAwaitingCities, true
		case EventStateCleared:
			return PhaseSelectingState, true
		}
	case PhaseAwaitingCoordinates:
		switch e {
		case EventCoordinatesSet:
			return PhaseReady, true
		case EventCitySet, EventCoordinatesRequested:
			return PhaseAwaitingCoordinates, true
		case EventCityCleared:
			return PhaseSelectingCity, true
		case EventStateSet:
			return PhaseAwaitingCities, true
		case EventStateCleared:
			return PhaseSelectingState, true
		}
	case PhaseReady:
		switch e {
		case EventCitySet, EventCoordinatesRequested:
			return PhaseAwaitingCoordinates, true
		case EventCityConfirmed:
			return PhaseReady, true
		case EventCityCleared:
			return PhaseSelectingCity, true
		case EventStateSet:
			return PhaseAwaitingCities, true
		case EventStateCleared:
			return PhaseSelectingState, true
		}
	}
	return p, false
}

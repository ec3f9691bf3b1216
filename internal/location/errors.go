package location

import "errors"

var (
	ErrSessionNotFound = errors.New("location session not found")
	// ErrAlreadyHydrated is returned when edit-mode population is attempted
	// on a session that was already populated or modified.
	ErrAlreadyHydrated = errors.New("location session already populated")
	ErrClosed          = errors.New("location session closed")
)

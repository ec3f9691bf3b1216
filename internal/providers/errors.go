// Package providers holds what every external location source has in common.
package providers

import (
	"errors"
	"fmt"
)

// ErrLocationLookupFailed is the single failure condition of a location
// provider. Timeouts, transport errors, non-success statuses and undecodable
// bodies all map to it; callers do not distinguish between them.
var ErrLocationLookupFailed = errors.New("location lookup failed")

// LookupError describes one failed provider call.
type LookupError struct {
	Provider string // e.g. "countrystatecity", "openstreetmap"
	Op       string // e.g. "list_states"
	Key      string // request parameters, for logs
	Status   int    // HTTP status, 0 when no response was received
	Err      error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("provider %s: %s", e.Provider, e.Op)
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LookupError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLocationLookupFailed}
	}
	return []error{ErrLocationLookupFailed, e.Err}
}

// NewLookupError builds a LookupError for a provider operation.
func NewLookupError(provider, op, key string, status int, err error) *LookupError {
	return &LookupError{
		Provider: provider,
		Op:       op,
		Key:      key,
		Status:   status,
		Err:      err,
	}
}

// IsLookupFailure reports whether err came from a failed provider call.
func IsLookupFailure(err error) bool {
	return errors.Is(err, ErrLocationLookupFailed)
}

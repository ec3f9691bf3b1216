// Package timezone resolves IANA zone names for generated coordinates.
package timezone

import (
	"errors"
	"fmt"
	"sync"

	"casedesk/internal/types"

	"github.com/ringsaturn/tzf"
)

// ErrNoZone is returned for points tzf cannot place in any zone.
var ErrNoZone = errors.New("no timezone for coordinates")

type Service interface {
	GetTimezone(latitude, longitude float64) (string, error)
	ForCoords(coords types.Coords) (string, error)
}

type service struct {
	finder tzf.F
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService returns the process-wide timezone service. tzf keeps its
// polygon data in memory, so the finder is built once.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// GetTimezone returns names like "America/Chicago" or "Europe/Berlin".
func (s *service) GetTimezone(latitude, longitude float64) (string, error) {
	tz := s.finder.GetTimezoneName(longitude, latitude)
	if tz == "" {
		return "", fmt.Errorf("%w: lat=%f, lon=%f", ErrNoZone, latitude, longitude)
	}
	return tz, nil
}

func (s *service) ForCoords(coords types.Coords) (string, error) {
	if !coords.Valid() {
		return "", fmt.Errorf("%w: invalid coordinates %+v", ErrNoZone, coords)
	}
	return s.GetTimezone(coords.Latitude, coords.Longitude)
}

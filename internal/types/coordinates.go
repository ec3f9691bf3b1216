package types

import (
	"strconv"

	"github.com/golang/geo/s2"
)

type Coords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewCoords(latitude, longitude float64) Coords {
	return Coords{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// Valid reports whether the point lies within [-90,90] x [-180,180].
func (c Coords) Valid() bool {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// Strings formats the coordinates the way FormLocation stores them,
// using the shortest decimal that round-trips (39.8283, 0).
func (c Coords) Strings() (latitude, longitude string) {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64), strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

package types

import "testing"

func TestCoords_Strings(t *testing.T) {
	tests := []struct {
		name    string
		coords  Coords
		wantLat string
		wantLon string
	}{
		{
			name:    "united states centroid",
			coords:  NewCoords(39.8283, -98.5795),
			wantLat: "39.8283",
			wantLon: "-98.5795",
		},
		{
			name:    "origin",
			coords:  NewCoords(0, 0),
			wantLat: "0",
			wantLon: "0",
		},
		{
			name:    "southern hemisphere",
			coords:  NewCoords(-25.2744, 133.7751),
			wantLat: "-25.2744",
			wantLon: "133.7751",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := tt.coords.Strings()
			if lat != tt.wantLat {
				t.Errorf("latitude = %q, want %q", lat, tt.wantLat)
			}
			if lon != tt.wantLon {
				t.Errorf("longitude = %q, want %q", lon, tt.wantLon)
			}
		})
	}
}

func TestCoords_Valid(t *testing.T) {
	tests := []struct {
		name   string
		coords Coords
		want   bool
	}{
		{name: "valid", coords: NewCoords(51.1657, 10.4515), want: true},
		{name: "latitude too large", coords: NewCoords(91, 0), want: false},
		{name: "longitude too small", coords: NewCoords(0, -181), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.coords.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormLocation_Coordinates(t *testing.T) {
	loc := FormLocation{Country: "Germany", Latitude: "51.1657", Longitude: "10.4515"}
	if !loc.HasCoordinates() {
		t.Fatal("HasCoordinates() = false, want true")
	}

	loc.ClearCoordinates()
	if loc.HasCoordinates() {
		t.Error("HasCoordinates() = true after ClearCoordinates")
	}
	if loc.Country != "Germany" {
		t.Errorf("Country = %q, ClearCoordinates must not touch other fields", loc.Country)
	}
}

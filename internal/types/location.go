package types

// Country is a top-level location entry. Code is an ISO-style identifier
// (e.g. "US"), Name is the display value stored on the case form.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// State is a subdivision of exactly one Country.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// City is scoped to a Country and, when present, a State.
type City struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// FormLocation is the location value handed to the case form.
// Every field is a display string; coordinates are decimal strings.
type FormLocation struct {
	Country   string `json:"country"`
	State     string `json:"state"`
	City      string `json:"city"`
	Address   string `json:"address"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// HasCoordinates reports whether both coordinate fields are populated.
func (l FormLocation) HasCoordinates() bool {
	return l.Latitude != "" && l.Longitude != ""
}

// ClearCoordinates empties latitude and longitude.
func (l *FormLocation) ClearCoordinates() {
	l.Latitude = ""
	l.Longitude = ""
}

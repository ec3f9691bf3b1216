// Package fallback provides the bundled offline location dataset used when
// the remote location provider is unavailable.
//
// The dataset is indexed by code. A name index maps display names back to
// codes so callers holding only the form's display value can still resolve
// the canonical entry.
package fallback

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"casedesk/internal/types"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed data/locations.yaml
var bundled []byte

// maxFuzzyDistance bounds the edit distance accepted when no substring match
// exists for a city query.
const maxFuzzyDistance = 2

type fileFormat struct {
	Countries   []countryRecord       `yaml:"countries"`
	Coordinates map[string][2]float64 `yaml:"coordinates"`
}

type countryRecord struct {
	Code   string        `yaml:"code"`
	Name   string        `yaml:"name"`
	States []stateRecord `yaml:"states"`
	Cities []cityRecord  `yaml:"cities"`
}

type stateRecord struct {
	Code   string       `yaml:"code"`
	Name   string       `yaml:"name"`
	Cities []cityRecord `yaml:"cities"`
}

type cityRecord struct {
	Name      string   `yaml:"name"`
	Addresses []string `yaml:"addresses"`
}

type country struct {
	types.Country
	states      []*state
	stateByCode map[string]*state
	stateByName map[string]*state
	cities      []types.City // country-level cities, for countries without states
}

type state struct {
	types.State
	cities []types.City
}

// Dataset is an immutable, read-only view over the bundled tables.
// It is safe for concurrent use.
type Dataset struct {
	countries   []*country
	byCode      map[string]*country
	byName      map[string]*country
	coordinates map[string]types.Coords
	addresses   map[string][]string
}

// Load parses the dataset compiled into the binary.
func Load() (*Dataset, error) {
	return Parse(bundled)
}

// MustLoad is Load for package-level initialisation and tests.
func MustLoad() *Dataset {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Parse builds a Dataset from YAML in the bundled format.
func Parse(data []byte) (*Dataset, error) {
	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode fallback dataset: %w", err)
	}

	d := &Dataset{
		byCode:      make(map[string]*country, len(file.Countries)),
		byName:      make(map[string]*country, len(file.Countries)),
		coordinates: make(map[string]types.Coords, len(file.Coordinates)),
		addresses:   make(map[string][]string),
	}

	nextID := 1
	newCity := func(rec cityRecord, region, countryName string) types.City {
		c := types.City{ID: nextID, Name: rec.Name, Region: region, Country: countryName}
		nextID++
		key := normalize(rec.Name)
		d.addresses[key] = append(d.addresses[key], rec.Addresses...)
		return c
	}

	for _, cr := range file.Countries {
		if cr.Code == "" || cr.Name == "" {
			return nil, fmt.Errorf("fallback dataset: country entry missing code or name (code=%q, name=%q)", cr.Code, cr.Name)
		}
		code := strings.ToUpper(cr.Code)
		if _, dup := d.byCode[code]; dup {
			return nil, fmt.Errorf("fallback dataset: duplicate country code %q", code)
		}

		c := &country{
			Country:     types.Country{Code: code, Name: cr.Name},
			stateByCode: make(map[string]*state, len(cr.States)),
			stateByName: make(map[string]*state, len(cr.States)),
		}
		for _, sr := range cr.States {
			s := &state{State: types.State{Code: strings.ToUpper(sr.Code), Name: sr.Name}}
			for _, rec := range sr.Cities {
				s.cities = append(s.cities, newCity(rec, sr.Name, cr.Name))
			}
			c.states = append(c.states, s)
			c.stateByCode[s.Code] = s
			c.stateByName[normalize(s.Name)] = s
		}
		for _, rec := range cr.Cities {
			c.cities = append(c.cities, newCity(rec, "", cr.Name))
		}

		d.countries = append(d.countries, c)
		d.byCode[code] = c
		d.byName[normalize(cr.Name)] = c
	}

	for name, point := range file.Coordinates {
		coords := types.NewCoords(point[0], point[1])
		if !coords.Valid() {
			return nil, fmt.Errorf("fallback dataset: invalid coordinates for %q: %v", name, point)
		}
		d.coordinates[normalize(name)] = coords
	}

	sort.Slice(d.countries, func(i, j int) bool {
		return d.countries[i].Name < d.countries[j].Name
	})

	return d, nil
}

// Countries returns every country, ordered by name.
func (d *Dataset) Countries() []types.Country {
	out := make([]types.Country, 0, len(d.countries))
	for _, c := range d.countries {
		out = append(out, c.Country)
	}
	return out
}

// States returns the subdivisions of a country given by code or name.
// An unknown country or one without subdivisions yields an empty slice.
func (d *Dataset) States(countryKey string) []types.State {
	c := d.country(countryKey)
	if c == nil {
		return []types.State{}
	}
	out := make([]types.State, 0, len(c.states))
	for _, s := range c.states {
		out = append(out, s.State)
	}
	return out
}

// Cities returns the cities of a country, optionally narrowed to one state.
// With an empty stateKey all cities of the country are returned, country-level
// entries first.
func (d *Dataset) Cities(countryKey, stateKey string) []types.City {
	c := d.country(countryKey)
	if c == nil {
		return []types.City{}
	}

	if stateKey != "" {
		s := c.state(stateKey)
		if s == nil {
			return []types.City{}
		}
		return append([]types.City{}, s.cities...)
	}

	out := append([]types.City{}, c.cities...)
	for _, s := range c.states {
		out = append(out, s.cities...)
	}
	return out
}

// CountryCode resolves a country display name (or code) to its code.
func (d *Dataset) CountryCode(key string) (string, bool) {
	c := d.country(key)
	if c == nil {
		return "", false
	}
	return c.Code, true
}

// StateCode resolves a state display name (or code) within a country.
func (d *Dataset) StateCode(countryKey, stateKey string) (string, bool) {
	c := d.country(countryKey)
	if c == nil {
		return "", false
	}
	s := c.state(stateKey)
	if s == nil {
		return "", false
	}
	return s.Code, true
}

// MatchAddresses filters the addresses of a city by a case-insensitive
// substring, returning at most limit entries. An empty query matches all.
func (d *Dataset) MatchAddresses(city, query string, limit int) []string {
	q := normalize(query)
	out := []string{}
	for _, a := range d.addresses[normalize(city)] {
		if limit > 0 && len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(a), q) {
			out = append(out, a)
		}
	}
	return out
}

// Coordinates returns the representative point for a country display name.
func (d *Dataset) Coordinates(countryName string) (types.Coords, bool) {
	if c, ok := d.coordinates[normalize(countryName)]; ok {
		return c, true
	}
	// Allow lookups by code for countries present in both tables.
	if c := d.country(countryName); c != nil {
		coords, ok := d.coordinates[normalize(c.Name)]
		return coords, ok
	}
	return types.Coords{}, false
}

// SearchCities filters the country's (or state's) cities the same way the
// remote search does. When nothing matches by substring it falls back to
// names within a small edit distance of the query.
func (d *Dataset) SearchCities(query, countryKey, stateKey string, limit int) []types.City {
	cities := d.Cities(countryKey, stateKey)
	if matches := FilterCities(cities, query, limit); len(matches) > 0 {
		return matches
	}

	q := normalize(query)
	if len([]rune(q)) <= maxFuzzyDistance {
		return []types.City{}
	}

	type scored struct {
		city types.City
		dist int
	}
	var near []scored
	for _, c := range cities {
		if dist := levenshtein.ComputeDistance(q, normalize(c.Name)); dist <= maxFuzzyDistance {
			near = append(near, scored{city: c, dist: dist})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })

	out := make([]types.City, 0, len(near))
	for _, s := range near {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, s.city)
	}
	return out
}

// FilterCities keeps cities whose name contains query, case-insensitively,
// preserving order and returning at most limit entries (limit <= 0: no cap).
func FilterCities(cities []types.City, query string, limit int) []types.City {
	q := normalize(query)
	out := []types.City{}
	for _, c := range cities {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

func (d *Dataset) country(key string) *country {
	if c, ok := d.byCode[strings.ToUpper(strings.TrimSpace(key))]; ok {
		return c
	}
	return d.byName[normalize(key)]
}

func (c *country) state(key string) *state {
	if s, ok := c.stateByCode[strings.ToUpper(strings.TrimSpace(key))]; ok {
		return s
	}
	return c.stateByName[normalize(key)]
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

package openstreetmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"casedesk/internal/providers"
	"casedesk/internal/types"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Sample request: https://nominatim.openstreetmap.org/search?country=Germany&format=json&limit=1
const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	providerName   = "openstreetmap"

	// Nominatim's usage policy requires an identifying User-Agent.
	userAgent = "casedesk-locations/1.0"
)

// ErrNoMatch is returned when Nominatim answers successfully with no places.
var ErrNoMatch = errors.New("no matching place")

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		logger:     logger.With("component", "openstreetmap-client"),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Search returns the best matching place for a country name.
func (c *Client) Search(ctx context.Context, country string) (*SearchAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, providers.NewLookupError(providerName, "search", country, 0, fmt.Errorf("failed to parse base URL: %w", err))
	}
	u = u.JoinPath("search")

	q := u.Query()
	q.Set("country", country)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providers.NewLookupError(providerName, "search", country, 0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("geocoding country", "country", country)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to geocode country", "country", country, "error", err)
		return nil, providers.NewLookupError(providerName, "search", country, 0, fmt.Errorf("failed to fetch: %w", err))
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Nominatim API returned error",
			"country", country,
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, providers.NewLookupError(providerName, "search", country, resp.StatusCode,
			fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body)))
	}

	var places []SearchAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, providers.NewLookupError(providerName, "search", country, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(places) == 0 {
		return nil, providers.NewLookupError(providerName, "search", country, resp.StatusCode, ErrNoMatch)
	}

	return &places[0], nil
}

// Geocode resolves a country name to a point.
func (c *Client) Geocode(ctx context.Context, country string) (types.Coords, error) {
	place, err := c.Search(ctx, country)
	if err != nil {
		return types.Coords{}, err
	}
	return place.Coords()
}

// Coords parses the string-encoded latitude and longitude of a place.
func (r *SearchAPIResponse) Coords() (types.Coords, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return types.Coords{}, fmt.Errorf("failed to parse latitude %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return types.Coords{}, fmt.Errorf("failed to parse longitude %q: %w", r.Lon, err)
	}
	coords := types.NewCoords(lat, lon)
	if !coords.Valid() {
		return types.Coords{}, fmt.Errorf("coordinates out of range: %s, %s", r.Lat, r.Lon)
	}
	return coords, nil
}

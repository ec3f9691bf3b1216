package countrystatecity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"casedesk/internal/providers"
	"casedesk/internal/types"
)

// API Docs: https://countrystatecity.in/docs/
// Sample request: curl -H "X-CSCAPI-KEY: $KEY" https://api.countrystatecity.in/v1/countries/DE/states
const (
	DefaultBaseURL = "https://api.countrystatecity.in"
	APIKeyHeader   = "X-CSCAPI-KEY"
	providerName   = "countrystatecity"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a client for the hierarchical location API. An empty
// apiKey is allowed: requests are still attempted and are expected to fail
// over to the bundled dataset.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger.With("component", "countrystatecity-client"),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) ListCountries(ctx context.Context) ([]types.Country, error) {
	var apiResp []CountryAPIResponse
	if err := c.get(ctx, "list_countries", "", "/v1/countries", &apiResp); err != nil {
		return nil, err
	}

	countries := make([]types.Country, 0, len(apiResp))
	for _, r := range apiResp {
		countries = append(countries, types.Country{Code: r.ISO2, Name: r.Name})
	}
	return countries, nil
}

func (c *Client) ListStates(ctx context.Context, countryCode string) ([]types.State, error) {
	path := fmt.Sprintf("/v1/countries/%s/states", url.PathEscape(countryCode))

	var apiResp []StateAPIResponse
	if err := c.get(ctx, "list_states", countryCode, path, &apiResp); err != nil {
		return nil, err
	}

	states := make([]types.State, 0, len(apiResp))
	for _, r := range apiResp {
		states = append(states, types.State{Code: r.ISO2, Name: r.Name})
	}
	return states, nil
}

// ListCities lists the cities of a state, or of the whole country when
// stateCode is empty.
func (c *Client) ListCities(ctx context.Context, countryCode, stateCode string) ([]types.City, error) {
	path := fmt.Sprintf("/v1/countries/%s/cities", url.PathEscape(countryCode))
	key := countryCode
	if stateCode != "" {
		path = fmt.Sprintf("/v1/countries/%s/states/%s/cities", url.PathEscape(countryCode), url.PathEscape(stateCode))
		key = countryCode + "/" + stateCode
	}

	var apiResp []CityAPIResponse
	if err := c.get(ctx, "list_cities", key, path, &apiResp); err != nil {
		return nil, err
	}

	cities := make([]types.City, 0, len(apiResp))
	for _, r := range apiResp {
		cities = append(cities, types.City{ID: r.ID, Name: r.Name})
	}
	return cities, nil
}

func (c *Client) get(ctx context.Context, op, key, path string, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return providers.NewLookupError(providerName, op, key, 0, fmt.Errorf("failed to parse base URL: %w", err))
	}
	u = u.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return providers.NewLookupError(providerName, op, key, 0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching locations", "op", op, "key", key, "url", u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch locations", "op", op, "key", key, "error", err)
		return providers.NewLookupError(providerName, op, key, 0, fmt.Errorf("failed to fetch: %w", err))
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("location API returned error",
			"op", op,
			"key", key,
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return providers.NewLookupError(providerName, op, key, resp.StatusCode,
			fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("failed to decode location response", "op", op, "key", key, "error", err)
		return providers.NewLookupError(providerName, op, key, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.Debug("successfully fetched locations", "op", op, "key", key)
	return nil
}

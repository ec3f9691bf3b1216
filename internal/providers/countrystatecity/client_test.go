package countrystatecity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"casedesk/internal/providers"
	"casedesk/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, wantKey string, routes map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(APIKeyHeader); got != wantKey {
			http.Error(w, `{"error":"Unauthorized. You shouldn't be here."}`, http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListCountries(t *testing.T) {
	srv := newTestServer(t, "secret", map[string]any{
		"/v1/countries": []CountryAPIResponse{
			{ID: 82, Name: "Germany", ISO2: "DE"},
			{ID: 233, Name: "United States", ISO2: "US"},
		},
	})

	client := NewClient(srv.URL, "secret", testLogger())
	got, err := client.ListCountries(context.Background())
	if err != nil {
		t.Fatalf("ListCountries() unexpected error = %v", err)
	}

	want := []types.Country{{Code: "DE", Name: "Germany"}, {Code: "US", Name: "United States"}}
	if len(got) != len(want) {
		t.Fatalf("ListCountries() returned %d countries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListCountries()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestClient_ListStates(t *testing.T) {
	srv := newTestServer(t, "secret", map[string]any{
		"/v1/countries/DE/states": []StateAPIResponse{
			{ID: 3009, Name: "Bavaria", ISO2: "BY"},
			{ID: 3010, Name: "Berlin", ISO2: "BE"},
		},
	})

	client := NewClient(srv.URL, "secret", testLogger())
	got, err := client.ListStates(context.Background(), "DE")
	if err != nil {
		t.Fatalf("ListStates() unexpected error = %v", err)
	}
	if len(got) != 2 || got[0] != (types.State{Code: "BY", Name: "Bavaria"}) {
		t.Errorf("ListStates() = %+v", got)
	}
}

func TestClient_ListCities(t *testing.T) {
	srv := newTestServer(t, "secret", map[string]any{
		"/v1/countries/DE/states/BY/cities": []CityAPIResponse{{ID: 1, Name: "Munich"}, {ID: 2, Name: "Nuremberg"}},
		"/v1/countries/SG/cities":           []CityAPIResponse{{ID: 3, Name: "Singapore"}},
	})
	client := NewClient(srv.URL, "secret", testLogger())

	tests := []struct {
		name      string
		country   string
		state     string
		wantNames []string
	}{
		{name: "state scoped", country: "DE", state: "BY", wantNames: []string{"Munich", "Nuremberg"}},
		{name: "country level when state empty", country: "SG", state: "", wantNames: []string{"Singapore"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.ListCities(context.Background(), tt.country, tt.state)
			if err != nil {
				t.Fatalf("ListCities() unexpected error = %v", err)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("ListCities() returned %d cities, want %d", len(got), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if got[i].Name != name {
					t.Errorf("ListCities()[%d].Name = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestClient_Failures(t *testing.T) {
	routes := map[string]any{"/v1/countries": []CountryAPIResponse{}}

	tests := []struct {
		name   string
		client func(t *testing.T) *Client
	}{
		{
			name: "missing api key",
			client: func(t *testing.T) *Client {
				return NewClient(newTestServer(t, "secret", routes).URL, "", testLogger())
			},
		},
		{
			name: "server error",
			client: func(t *testing.T) *Client {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "boom", http.StatusInternalServerError)
				}))
				t.Cleanup(srv.Close)
				return NewClient(srv.URL, "secret", testLogger())
			},
		},
		{
			name: "malformed body",
			client: func(t *testing.T) *Client {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte("<html>maintenance</html>"))
				}))
				t.Cleanup(srv.Close)
				return NewClient(srv.URL, "secret", testLogger())
			},
		},
		{
			name: "timeout",
			client: func(t *testing.T) *Client {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					select {
					case <-r.Context().Done():
					case <-time.After(time.Second):
					}
				}))
				t.Cleanup(srv.Close)
				return NewClient(srv.URL, "secret", testLogger()).
					WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond})
			},
		},
		{
			name: "unreachable",
			client: func(t *testing.T) *Client {
				srv := httptest.NewServer(http.NotFoundHandler())
				url := srv.URL
				srv.Close()
				return NewClient(url, "secret", testLogger())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.client(t).ListCountries(context.Background())
			if err == nil {
				t.Fatal("ListCountries() expected error but got none")
			}
			if !providers.IsLookupFailure(err) {
				t.Errorf("ListCountries() error = %v, want ErrLocationLookupFailed", err)
			}
		})
	}
}

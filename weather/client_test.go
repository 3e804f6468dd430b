package weather

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newServer(t *testing.T, forecast string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("units") != "metric" || q.Get("appid") != "key" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("lat") != "51.5" || q.Get("lon") != "-0.12" {
			t.Errorf("unexpected coordinates %s", r.URL.RawQuery)
		}
		switch r.URL.Path {
		case "/data/2.5/weather":
			w.Write([]byte(`{"name":"London","main":{"temp":18.5,"humidity":77,"pressure":1009},"wind":{"speed":5},"weather":[{"main":"Clouds","description":"broken clouds"}]}`))
		case "/data/2.5/forecast":
			if q.Get("cnt") != "8" {
				t.Errorf("expected cnt=8, got %q", q.Get("cnt"))
			}
			w.WriteHeader(status)
			w.Write([]byte(forecast))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name     string
		forecast string
		rain     bool
	}{
		{"rain in forecast", `{"list":[{"weather":[{"main":"Clouds"}]},{"weather":[{"main":"Rain"}]}]}`, true},
		{"dry forecast", `{"list":[{"weather":[{"main":"Clear"}]}]}`, false},
		{"empty forecast", `{"list":[]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.forecast, http.StatusOK)
			defer srv.Close()

			got, err := NewClient(srv.URL, "key").Current(context.Background(), 51.5, -0.12)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Location != "London" || got.Temperature != 18.5 || got.Humidity != 77 || got.Pressure != 1009 {
				t.Errorf("unexpected conditions: %+v", got)
			}
			if math.Abs(got.WindSpeed-18) > 1e-9 {
				t.Errorf("expected wind 18 km/h, got %v", got.WindSpeed)
			}
			if got.Description != "broken clouds" {
				t.Errorf("unexpected description %q", got.Description)
			}
			if got.HasRainForecast != tt.rain {
				t.Errorf("HasRainForecast = %v, want %v", got.HasRainForecast, tt.rain)
			}
		})
	}
}

func TestCurrentForecastFailure(t *testing.T) {
	srv := newServer(t, `{"cod":401}`, http.StatusUnauthorized)
	defer srv.Close()

	if _, err := NewClient(srv.URL, "key").Current(context.Background(), 51.5, -0.12); err == nil {
		t.Fatal("expected an error when the forecast call fails")
	}
}

func TestCurrentWithoutConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/2.5/weather":
			w.Write([]byte(`{"name":"London","main":{"temp":18.5,"humidity":77,"pressure":1009},"wind":{"speed":5},"weather":[]}`))
		default:
			w.Write([]byte(`{"list":[]}`))
		}
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "key").Current(context.Background(), 51.5, -0.12); err == nil {
		t.Fatal("expected an error when the response has no weather entries")
	}
}

func TestFallback(t *testing.T) {
	f := Fallback()
	if f.Temperature != 24 || f.Humidity != 65 || f.Location != "Unknown Location" || f.HasRainForecast {
		t.Errorf("unexpected fallback: %+v", f)
	}
}

package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels/42/feeds/last.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "secret" {
			t.Errorf("expected api_key=secret, got %q", got)
		}
		w.Write([]byte(`{"created_at":"2025-06-01T10:00:00Z","field1":"12.5","field2":"230","field3":"55","field4":"garbled"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "42", "secret").Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Angle != 12.5 || got.VocVal != 230 || got.SoilVal != 55 || got.LightVal != 0 {
		t.Errorf("unexpected reading: %+v", got)
	}
	if got.Timestamp != "2025-06-01T10:00:00Z" {
		t.Errorf("unexpected timestamp %q", got.Timestamp)
	}
}

func TestLatestNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel not found", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "1", "").Latest(context.Background()); err == nil {
		t.Fatal("expected an error for 404")
	}
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("results"); got != "20" {
			t.Errorf("expected default results=20, got %q", got)
		}
		w.Write([]byte(`{"feeds":[
			{"created_at":"2025-06-01T10:00:00Z","field1":"0","field2":"170","field3":"40","field4":"1200"},
			{"created_at":"2025-06-01T10:15:00Z","field1":"15","field2":"180","field3":"42","field4":null}
		]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "7", "").History(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Timestamps) != 2 || len(got.SoilData) != 2 {
		t.Fatalf("expected 2 points, got %+v", got)
	}
	if got.VocData[1] != 180 || got.AngleData[1] != 15 || got.LightData[1] != 0 {
		t.Errorf("unexpected series: %+v", got)
	}
	want := clockLabel(time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC))
	if got.Timestamps[1] != want {
		t.Errorf("expected label %q, got %q", want, got.Timestamps[1])
	}
}

func TestHistoryCapsResults(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{5, "5"},
		{MaxHistoryResults, "8000"},
		{MaxHistoryResults + 1, "8000"},
		{1 << 30, "8000"},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("results"); got != tt.expected {
				t.Errorf("n=%d: expected results=%s, got %q", tt.n, tt.expected, got)
			}
			w.Write([]byte(`{"feeds":[]}`))
		}))
		if _, err := NewClient(srv.URL, "7", "").History(context.Background(), tt.n); err != nil {
			t.Errorf("n=%d: unexpected error: %v", tt.n, err)
		}
		srv.Close()
	}
}

func TestNonFiniteFieldsReadAsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"created_at":"2025-06-01T10:00:00Z","field1":"-Inf","field2":"NaN","field3":"Infinity","field4":"+Inf"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "42", "").Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Angle != 0 || got.VocVal != 0 || got.SoilVal != 0 || got.LightVal != 0 {
		t.Errorf("expected non-finite fields to read as 0, got %+v", got)
	}
}

func TestFallbacks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := FallbackLatest(now)
	if l.VocVal != 180 || l.SoilVal != 42 || l.LightVal != 1250 {
		t.Errorf("unexpected fallback reading: %+v", l)
	}
	h := FallbackHistory(now)
	for name, n := range map[string]int{
		"timestamps": len(h.Timestamps),
		"soil":       len(h.SoilData),
		"light":      len(h.LightData),
		"voc":        len(h.VocData),
		"angle":      len(h.AngleData),
	} {
		if n != 10 {
			t.Errorf("%s: expected 10 points, got %d", name, n)
		}
	}
	if h.Timestamps[9] != clockLabel(now) {
		t.Errorf("last fallback point should be now, got %s", h.Timestamps[9])
	}
}

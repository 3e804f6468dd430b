package plantid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		disease  string
		conf     float64
		symptoms string
		treat    string
	}{
		{
			name:     "biological treatment preferred",
			body:     `{"health_assessment":{"diseases":[{"name":"leaf rust","probability":0.82,"disease_details":{"description":"orange pustules","treatment":{"biological":["neem oil"],"chemical":["fungicide"]}}}]}}`,
			disease:  "leaf rust",
			conf:     0.82,
			symptoms: "orange pustules",
			treat:    "neem oil",
		},
		{
			name:     "chemical when no biological",
			body:     `{"health_assessment":{"diseases":[{"name":"blight","probability":0.6,"disease_details":{"description":"lesions","treatment":{"chemical":["copper spray"]}}}]}}`,
			disease:  "blight",
			conf:     0.6,
			symptoms: "lesions",
			treat:    "copper spray",
		},
		{
			name:     "sparse disease entry",
			body:     `{"health_assessment":{"diseases":[{}]}}`,
			disease:  "Unknown Disease",
			conf:     0.5,
			symptoms: "Symptoms not available",
			treat:    "Treatment information not available",
		},
		{
			name:     "healthy plant",
			body:     `{"health_assessment":{"diseases":[]}}`,
			disease:  "No Disease Detected",
			conf:     0.95,
			symptoms: Healthy().Symptoms,
			treat:    Healthy().Treatment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v3/health_assessment" || r.Method != http.MethodPost {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Api-Key") != "k" {
					t.Errorf("missing Api-Key header")
				}
				var req assessmentReq
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("bad request body: %v", err)
					return
				}
				if len(req.Images) != 1 || !strings.HasPrefix(req.Images[0], "data:image/png;base64,") {
					t.Errorf("unexpected images %v", req.Images)
				}
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewClient(srv.URL, "k").Assess(context.Background(), "image/png", []byte{0x89, 'P', 'N', 'G'})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DiseaseName != tt.disease || got.Confidence != tt.conf || got.Symptoms != tt.symptoms || got.Treatment != tt.treat {
				t.Errorf("unexpected detection: %+v", got)
			}
		})
	}
}

func TestAssessErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.Assess(context.Background(), "image/jpeg", []byte("x")); err == nil {
		t.Error("expected an error for 429")
	}
	if _, err := c.Assess(context.Background(), "image/jpeg", nil); err == nil {
		t.Error("expected an error for an empty image")
	}
}

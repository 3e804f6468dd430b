// Package telemetry reads field sensor feeds from a ThingSpeak channel.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"greeneye/models"
)

// DefaultHistoryResults is how many feed entries History asks for by default.
const DefaultHistoryResults = 20

// MaxHistoryResults is the largest feed ThingSpeak will return in one call.
const MaxHistoryResults = 8000

// Client talks to the ThingSpeak channel API.
type Client struct {
	baseURL   string
	channelID string
	apiKey    string
	http      *http.Client
}

// NewClient returns a client for channelID. An empty baseURL uses the
// public ThingSpeak endpoint.
func NewClient(baseURL, channelID, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.thingspeak.com"
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		channelID: channelID,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type feed struct {
	CreatedAt string `json:"created_at"`
	Field1    string `json:"field1"`
	Field2    string `json:"field2"`
	Field3    string `json:"field3"`
	Field4    string `json:"field4"`
}

type feedsResp struct {
	Feeds []feed `json:"feeds"`
}

// Latest returns the most recent reading of the channel.
func (c *Client) Latest(ctx context.Context) (models.SensorData, error) {
	var f feed
	if err := c.get(ctx, "/feeds/last.json", nil, &f); err != nil {
		return models.SensorData{}, err
	}
	ts := f.CreatedAt
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	return models.SensorData{
		Angle:     number(f.Field1),
		VocVal:    number(f.Field2),
		SoilVal:   number(f.Field3),
		LightVal:  number(f.Field4),
		Timestamp: ts,
	}, nil
}

// History returns the last n feed entries as parallel series. n <= 0 uses
// DefaultHistoryResults and n is capped at MaxHistoryResults.
func (c *Client) History(ctx context.Context, n int) (models.SensorHistory, error) {
	if n <= 0 {
		n = DefaultHistoryResults
	}
	n = min(n, MaxHistoryResults)
	var resp feedsResp
	if err := c.get(ctx, "/feeds.json", url.Values{"results": {strconv.Itoa(n)}}, &resp); err != nil {
		return models.SensorHistory{}, err
	}

	out := models.SensorHistory{
		Timestamps: make([]string, 0, len(resp.Feeds)),
		SoilData:   make([]float64, 0, len(resp.Feeds)),
		LightData:  make([]float64, 0, len(resp.Feeds)),
		VocData:    make([]float64, 0, len(resp.Feeds)),
		AngleData:  make([]float64, 0, len(resp.Feeds)),
	}
	for _, f := range resp.Feeds {
		label := f.CreatedAt
		if t, err := time.Parse(time.RFC3339, f.CreatedAt); err == nil {
			label = clockLabel(t)
		}
		out.Timestamps = append(out.Timestamps, label)
		out.AngleData = append(out.AngleData, number(f.Field1))
		out.VocData = append(out.VocData, number(f.Field2))
		out.SoilData = append(out.SoilData, number(f.Field3))
		out.LightData = append(out.LightData, number(f.Field4))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u := fmt.Sprintf("%s/channels/%s%s?%s", c.baseURL, url.PathEscape(c.channelID), path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("thingspeak call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("thingspeak non-2xx: %s, body: %s", resp.Status, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode thingspeak resp: %w", err)
	}
	return nil
}

// number parses a channel field; missing, garbled or non-finite values
// read as 0.
func number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clockLabel(t time.Time) string { return t.Local().Format("03:04 PM") }

// FallbackLatest is served when the channel cannot be reached.
func FallbackLatest(now time.Time) models.SensorData {
	return models.SensorData{
		Angle:     0,
		VocVal:    180,
		SoilVal:   42,
		LightVal:  1250,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// FallbackHistory is ten synthetic points at 15 minute spacing ending at now.
func FallbackHistory(now time.Time) models.SensorHistory {
	ts := make([]string, 10)
	for i := range ts {
		ts[i] = clockLabel(now.Add(-time.Duration(9-i) * 15 * time.Minute))
	}
	return models.SensorHistory{
		Timestamps: ts,
		SoilData:   []float64{40, 42, 38, 45, 43, 41, 39, 44, 42, 40},
		LightData:  []float64{1200, 1250, 1180, 1300, 1275, 1220, 1260, 1240, 1280, 1250},
		VocData:    []float64{170, 180, 165, 190, 185, 175, 172, 188, 180, 175},
		AngleData:  []float64{0, 15, 30, 45, 30, 15, 0, -15, -30, 0},
	}
}

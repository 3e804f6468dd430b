// Package weather fetches current conditions and a short rain outlook from
// OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"greeneye/models"
)

// Default coordinates used when the caller does not supply any.
const (
	DefaultLat = 37.7749
	DefaultLon = -122.4194
)

// forecastSlots is 24h of 3-hour forecast intervals.
const forecastSlots = 8

// Client talks to the OpenWeatherMap 2.5 API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client. An empty baseURL uses the public endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentResp struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Weather []condition `json:"weather"`
}

type forecastResp struct {
	List []struct {
		Weather []condition `json:"weather"`
	} `json:"list"`
}

// Current returns conditions at lat/lon and whether rain is forecast in the
// next 24 hours. Both upstream calls run concurrently.
func (c *Client) Current(ctx context.Context, lat, lon float64) (models.WeatherData, error) {
	var (
		cur  currentResp
		fcst forecastResp
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, "/data/2.5/weather", lat, lon, nil, &cur)
	})
	g.Go(func() error {
		return c.get(gctx, "/data/2.5/forecast", lat, lon, url.Values{"cnt": {strconv.Itoa(forecastSlots)}}, &fcst)
	})
	if err := g.Wait(); err != nil {
		return models.WeatherData{}, err
	}

	if len(cur.Weather) == 0 {
		return models.WeatherData{}, errors.New("openweathermap: no current conditions in response")
	}
	desc := cur.Weather[0].Description
	rain := false
	for _, item := range fcst.List {
		for _, w := range item.Weather {
			if strings.Contains(strings.ToLower(w.Main), "rain") {
				rain = true
			}
		}
	}
	return models.WeatherData{
		Temperature:     cur.Main.Temp,
		Humidity:        cur.Main.Humidity,
		WindSpeed:       cur.Wind.Speed * 3.6,
		Pressure:        cur.Main.Pressure,
		Description:     desc,
		HasRainForecast: rain,
		Location:        cur.Name,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("weather non-2xx: %s, body: %s", resp.Status, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode weather resp: %w", err)
	}
	return nil
}

// Fallback is served when the provider cannot be reached.
func Fallback() models.WeatherData {
	return models.WeatherData{
		Temperature:     24,
		Humidity:        65,
		WindSpeed:       12,
		Pressure:        1013,
		Description:     "Partly Cloudy",
		HasRainForecast: false,
		Location:        "Unknown Location",
	}
}

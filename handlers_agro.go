package main

import (
	"context"
	"encoding/json"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"greeneye/agro"
	"greeneye/crop"
	"greeneye/models"
	"greeneye/telemetry"
	"greeneye/weather"
)

// handleCropRecommendation ranks crops for the posted environmental profile.
// An optional ?k= overrides the neighbor count.
func (a *App) handleCropRecommendation(w http.ResponseWriter, r *http.Request) {
	var req cropRecommendationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Temperature == nil || req.Humidity == nil || req.SoilPh == nil || req.Rainfall == nil {
		http.Error(w, "temperature, humidity, soilPh, rainfall are required", http.StatusBadRequest)
		return
	}
	if !req.SoilType.Valid() {
		http.Error(w, "soilType must be Loamy, Sandy, Clay or Silty", http.StatusBadRequest)
		return
	}

	k := crop.DefaultK
	if ks := r.URL.Query().Get("k"); ks != "" {
		n, err := strconv.Atoi(ks)
		if err != nil || n < 1 {
			http.Error(w, "k must be a positive integer", http.StatusBadRequest)
			return
		}
		k = n
	}

	recs := a.crops.Recommend(crop.Query{
		Temperature: *req.Temperature,
		Humidity:    *req.Humidity,
		SoilPh:      *req.SoilPh,
		Rainfall:    *req.Rainfall,
		SoilType:    req.SoilType,
	}, k)
	writeJSON(w, http.StatusOK, recs)
}

// handlePestRisk classifies pest risk from query readings. Missing or
// unparseable values count as zero.
func (a *App) handlePestRisk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	risk := agro.ClassifyPestRisk(agro.PestRiskInput{
		Humidity:        queryNumber(q.Get("humidity")),
		VegetationIndex: queryNumber(q.Get("ndvi")),
		VOC:             queryNumber(q.Get("voc")),
		SoilMoisture:    queryNumber(q.Get("soilMoisture")),
	})
	writeJSON(w, http.StatusOK, risk)
}

// handleNDVI turns a light reading into a vegetation index and heatmap.
func (a *App) handleNDVI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("lightVal")
	if raw == "" {
		http.Error(w, "Light value is required", http.StatusBadRequest)
		return
	}
	light, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(light) || math.IsInf(light, 0) {
		http.Error(w, "lightVal must be a number", http.StatusBadRequest)
		return
	}
	fullScale := a.cfg.NDVIFullScale
	if fs := q.Get("fullScale"); fs != "" {
		v, err := strconv.ParseFloat(fs, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			http.Error(w, "fullScale must be a number", http.StatusBadRequest)
			return
		}
		fullScale = v
	}

	value := agro.VegetationIndex(light, fullScale)
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	writeJSON(w, http.StatusOK, ndviResp{
		Value:  value,
		Grid:   agro.Grid(value, rng),
		Health: agro.Health(value),
	})
}

// handleDashboard fetches sensor and weather readings concurrently and
// derives NDVI and pest risk from them. Upstream failures fall back to
// canned readings.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon := coordinate(q.Get("lat"), weather.DefaultLat), coordinate(q.Get("lon"), weather.DefaultLon)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var (
		sensor models.SensorData
		wx     models.WeatherData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sensor = a.latestSensor(gctx)
		return nil
	})
	g.Go(func() error {
		wx = a.currentWeather(gctx, lat, lon)
		return nil
	})
	_ = g.Wait()

	ndvi := agro.VegetationIndex(sensor.LightVal, a.cfg.NDVIFullScale)
	writeJSON(w, http.StatusOK, dashboardResp{
		Sensor:  sensor,
		Weather: wx,
		NDVI:    ndvi,
		Health:  agro.Health(ndvi),
		PestRisk: agro.ClassifyPestRisk(agro.PestRiskInput{
			Humidity:        wx.Humidity,
			VegetationIndex: ndvi,
			VOC:             sensor.VocVal,
			SoilMoisture:    sensor.SoilVal,
		}),
	})
}

func (a *App) latestSensor(ctx context.Context) models.SensorData {
	s, err := a.sensor.Latest(ctx)
	if err != nil {
		a.log.Warnw("sensor feed unavailable, serving fallback", "error", err)
		return telemetry.FallbackLatest(time.Now())
	}
	return s
}

func (a *App) currentWeather(ctx context.Context, lat, lon float64) models.WeatherData {
	wx, err := a.wx.Current(ctx, lat, lon)
	if err != nil {
		a.log.Warnw("weather unavailable, serving fallback", "lat", lat, "lon", lon, "error", err)
		return weather.Fallback()
	}
	return wx
}

// ---- helpers ----

// queryNumber parses s; anything unparseable or NaN reads as 0.
func queryNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// coordinate parses s, using def for missing, unparseable or zero values.
func coordinate(s string, def float64) float64 {
	if v := queryNumber(s); v != 0 && !math.IsInf(v, 0) {
		return v
	}
	return def
}

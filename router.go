package main

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openapiYAML []byte

// routes wires middlewares and endpoints. CORS origins come from CORS_ORIGINS.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", a.handleHealth)

		api.Get("/thingspeak", a.handleSensorLatest)
		api.Get("/thingspeak/history", a.handleSensorHistory)
		api.Get("/weather", a.handleWeather)
		api.Get("/weather/{lat}/{lon}", a.handleWeather)
		api.Get("/dashboard", a.handleDashboard)

		api.Get("/ndvi", a.handleNDVI)
		api.Get("/pest-risk", a.handlePestRisk)
		api.Post("/crop-recommendation", a.handleCropRecommendation)
		api.Post("/plantid", a.handlePlantID)

		api.Post("/send-alert", a.handleSendAlert)
		api.Get("/alerts", a.handleListAlerts)
	})

	return r
}

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Debug         bool
	CropDataPath  string
	NDVIFullScale float64 // light sensor full-scale reading
	CORSOrigins   []string

	ThingSpeakURL     string
	ThingSpeakChannel string
	ThingSpeakAPIKey  string

	WeatherURL    string
	WeatherAPIKey string

	PlantIDURL    string
	PlantIDAPIKey string

	EmailJSURL        string
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string

	MongoURI string // empty disables the alert log
	MongoDB  string
}

// mustConfig reads the environment, after loading .env if one exists.
func mustConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		Debug:         getbool("DEBUG", false),
		CropDataPath:  getenv("CROP_DATA_PATH", "data/crop_recommendation.csv"),
		NDVIFullScale: getfloat("NDVI_FULL_SCALE", 1024),
		CORSOrigins:   getlist("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}),

		ThingSpeakURL:     getenv("THINGSPEAK_URL", "https://api.thingspeak.com"),
		ThingSpeakChannel: getenv("THINGSPEAK_CHANNEL_ID", "3028530"),
		ThingSpeakAPIKey:  getenv("THINGSPEAK_API_KEY", ""),

		WeatherURL:    getenv("WEATHER_URL", "https://api.openweathermap.org"),
		WeatherAPIKey: getenv("WEATHER_API_KEY", ""),

		PlantIDURL:    getenv("PLANTID_URL", "https://plant.id"),
		PlantIDAPIKey: getenv("PLANTID_API_KEY", ""),

		EmailJSURL:        getenv("EMAILJS_URL", "https://api.emailjs.com"),
		EmailJSServiceID:  getenv("EMAILJS_SERVICE_ID", "default_service"),
		EmailJSTemplateID: getenv("EMAILJS_TEMPLATE_ID", "default_template"),
		EmailJSPublicKey:  getenv("EMAILJS_PUBLIC_KEY", "default_key"),

		MongoURI: getenv("MONGO_URI", ""),
		MongoDB:  getenv("MONGO_DB", "greeneye"),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return b
}

func getfloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}

// getlist splits a comma separated variable.
func getlist(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

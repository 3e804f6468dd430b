package models

// WeatherData holds current conditions plus a 24h rain flag.
type WeatherData struct {
	Temperature     float64 `json:"temperature"` // °C
	Humidity        float64 `json:"humidity"`    // %
	WindSpeed       float64 `json:"windSpeed"`   // km/h
	Pressure        float64 `json:"pressure"`    // hPa
	Description     string  `json:"description"`
	HasRainForecast bool    `json:"hasRainForecast"`
	Location        string  `json:"location"`
}

package main

import (
	"time"

	"greeneye/agro"
	"greeneye/crop"
	"greeneye/models"
)

// Request/response DTOs. Keep them minimal and explicit.

// Pointers distinguish a missing field from an explicit zero.
type cropRecommendationReq struct {
	Temperature *float64      `json:"temperature"`
	Humidity    *float64      `json:"humidity"`
	SoilPh      *float64      `json:"soilPh"`
	Rainfall    *float64      `json:"rainfall"`
	SoilType    crop.SoilType `json:"soilType"`
}

type ndviResp struct {
	Value  float64           `json:"value"`
	Grid   [][]float64       `json:"grid"`
	Health agro.HealthStatus `json:"health"`
}

type dashboardResp struct {
	Sensor   models.SensorData  `json:"sensor"`
	Weather  models.WeatherData `json:"weather"`
	NDVI     float64            `json:"ndvi"`
	Health   agro.HealthStatus  `json:"health"`
	PestRisk agro.PestRisk      `json:"pestRisk"`
}

type sendAlertResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResp is the body of 5xx responses from upstream failures.
type errorResp struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type datasetInfo struct {
	Samples  int  `json:"samples"`
	Crops    int  `json:"crops"`
	Fallback bool `json:"fallback"`
}

type healthResp struct {
	Status  string      `json:"status"`
	Time    time.Time   `json:"time"`
	Dataset datasetInfo `json:"dataset"`
}

// Package agro derives field-health metrics from raw sensor readings.
package agro

import (
	"math"
	"math/rand/v2"
)

// Common full-scale values for the light sensor.
const (
	FullScale8Bit  = 255
	FullScale10Bit = 1024
)

// GridSize is the edge length of the NDVI heatmap grid.
const GridSize = 10

// VegetationIndex approximates NDVI from a single photoresistor channel,
// treating the reading as infrared and its complement against fullScale as
// red. It is a proxy, not a multispectral NDVI.
//
// The result is clamped to [-1,1], so readings above fullScale give 1 and
// negative readings give -1. A zero or non-finite input yields 0.
func VegetationIndex(light, fullScale float64) float64 {
	ir := light
	red := fullScale - light
	sum := ir + red
	if sum == 0 {
		return 0
	}
	v := (ir - red) / sum
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return clamp(v, -1, 1)
}

// HealthStatus labels a proxy vegetation index.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "Excellent"
	HealthGood      HealthStatus = "Good"
	HealthFair      HealthStatus = "Fair"
	HealthPoor      HealthStatus = "Poor"
)

// Health buckets a vegetation index value.
func Health(ndvi float64) HealthStatus {
	switch {
	case ndvi > 0.4:
		return HealthExcellent
	case ndvi > 0.2:
		return HealthGood
	case ndvi > 0:
		return HealthFair
	default:
		return HealthPoor
	}
}

// Grid spreads value over a GridSize x GridSize heatmap with up to ±0.2 of
// uniform noise per cell, clamped to [0,1].
func Grid(value float64, rng *rand.Rand) [][]float64 {
	grid := make([][]float64, GridSize)
	for i := range grid {
		row := make([]float64, GridSize)
		for j := range row {
			noise := (rng.Float64() - 0.5) * 0.4
			row[j] = clamp(value+noise, 0, 1)
		}
		grid[i] = row
	}
	return grid
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

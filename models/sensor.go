package models

// SensorData is the latest reading from the field telemetry channel.
// Field numbers follow the ThingSpeak channel layout:
// field1=angle, field2=VOC, field3=soil moisture, field4=light.
type SensorData struct {
	Angle     float64 `json:"angle"`
	VocVal    float64 `json:"vocVal"`
	SoilVal   float64 `json:"soilVal"`
	LightVal  float64 `json:"lightVal"`
	Timestamp string  `json:"timestamp"` // RFC3339 as reported by the channel
}

// SensorHistory is the recent feed as parallel series for charting.
type SensorHistory struct {
	Timestamps []string  `json:"timestamps"` // "03:04 PM"
	SoilData   []float64 `json:"soilData"`
	LightData  []float64 `json:"lightData"`
	VocData    []float64 `json:"vocData"`
	AngleData  []float64 `json:"angleData"`
}

package agro

import (
	"encoding/json"
	"fmt"
)

// RiskLevel is a closed Low/Medium/High scale. The zero value is invalid.
type RiskLevel int

const (
	RiskLow RiskLevel = iota + 1
	RiskMedium
	RiskHigh
)

var riskNames = map[RiskLevel]string{
	RiskLow:    "Low",
	RiskMedium: "Medium",
	RiskHigh:   "High",
}

func (r RiskLevel) String() string {
	if s, ok := riskNames[r]; ok {
		return s
	}
	return fmt.Sprintf("RiskLevel(%d)", int(r))
}

// MarshalText encodes the level as "Low", "Medium" or "High".
func (r RiskLevel) MarshalText() ([]byte, error) {
	s, ok := riskNames[r]
	if !ok {
		return nil, fmt.Errorf("invalid risk level %d", int(r))
	}
	return []byte(s), nil
}

// UnmarshalText accepts "Low", "Medium" or "High".
func (r *RiskLevel) UnmarshalText(b []byte) error {
	for lvl, s := range riskNames {
		if s == string(b) {
			*r = lvl
			return nil
		}
	}
	return fmt.Errorf("invalid risk level %q", string(b))
}

// PestRiskInput holds the four readings the classifier looks at.
type PestRiskInput struct {
	Humidity        float64
	VegetationIndex float64
	VOC             float64
	SoilMoisture    float64
}

// PestRisk is the per-factor and overall classification.
type PestRisk struct {
	Overall      RiskLevel
	Humidity     RiskLevel
	NDVI         RiskLevel
	VOC          RiskLevel
	SoilMoisture RiskLevel
}

// MarshalJSON keeps the dashboard's field names.
func (p PestRisk) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		OverallRisk      RiskLevel `json:"overallRisk"`
		HumidityRisk     RiskLevel `json:"humidityRisk"`
		NDVIRisk         RiskLevel `json:"ndviRisk"`
		VOCRisk          RiskLevel `json:"vocRisk"`
		SoilMoistureRisk RiskLevel `json:"soilMoistureRisk"`
	}{p.Overall, p.Humidity, p.NDVI, p.VOC, p.SoilMoisture})
}

// ClassifyPestRisk applies the fixed threshold table to each reading and
// averages the factor scores into an overall level.
func ClassifyPestRisk(in PestRiskInput) PestRisk {
	out := PestRisk{
		Humidity:     humidityRisk(in.Humidity),
		NDVI:         ndviRisk(in.VegetationIndex),
		VOC:          vocRisk(in.VOC),
		SoilMoisture: soilMoistureRisk(in.SoilMoisture),
	}
	out.Overall = overallRisk(out.Humidity, out.NDVI, out.VOC, out.SoilMoisture)
	return out
}

func humidityRisk(h float64) RiskLevel {
	switch {
	case h > 80:
		return RiskHigh
	case h > 60:
		return RiskMedium
	default:
		return RiskLow
	}
}

func ndviRisk(v float64) RiskLevel {
	switch {
	case v < 0.4:
		return RiskHigh
	case v < 0.6:
		return RiskMedium
	default:
		return RiskLow
	}
}

func vocRisk(v float64) RiskLevel {
	switch {
	case v > 300:
		return RiskHigh
	case v > 200:
		return RiskMedium
	default:
		return RiskLow
	}
}

// soilMoistureRisk never yields High: both very wet and dry soil are
// Medium, the 40-60 band is Low.
func soilMoistureRisk(m float64) RiskLevel {
	switch {
	case m > 60:
		return RiskMedium
	case m > 40:
		return RiskLow
	default:
		return RiskMedium
	}
}

func overallRisk(levels ...RiskLevel) RiskLevel {
	total := 0
	for _, l := range levels {
		total += int(l)
	}
	avg := float64(total) / float64(len(levels))
	switch {
	case avg <= 1.5:
		return RiskLow
	case avg <= 2.5:
		return RiskMedium
	default:
		return RiskHigh
	}
}

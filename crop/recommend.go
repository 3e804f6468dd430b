// Package crop ranks crops for an environmental profile using k-nearest
// neighbors over an agronomic reference dataset.
package crop

import (
	"math"
	"sort"
	"unicode"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultK is the neighbor count used when the caller passes k <= 0.
const DefaultK = 10

// maxResults caps the number of ranked crops returned.
const maxResults = 3

// Per-dimension scale factors: temperature, humidity, pH, rainfall.
var scale = [4]float64{10, 100, 14, 500}

// SoilType is accepted for completeness; it does not affect the distance.
type SoilType string

const (
	SoilLoamy SoilType = "Loamy"
	SoilSandy SoilType = "Sandy"
	SoilClay  SoilType = "Clay"
	SoilSilty SoilType = "Silty"
)

// Valid reports whether s is one of the known soil types.
func (s SoilType) Valid() bool {
	switch s {
	case SoilLoamy, SoilSandy, SoilClay, SoilSilty:
		return true
	}
	return false
}

// Query is the environmental profile to rank crops for.
type Query struct {
	Temperature float64  `json:"temperature"`
	Humidity    float64  `json:"humidity"`
	SoilPh      float64  `json:"soilPh"`
	Rainfall    float64  `json:"rainfall"`
	SoilType    SoilType `json:"soilType"`
}

// Recommendation is one ranked crop.
type Recommendation struct {
	CropName    string  `json:"cropName"`
	Suitability float64 `json:"suitability"`
}

// fallbackRecommendations is returned when there is no data to rank.
var fallbackRecommendations = []Recommendation{
	{CropName: "Rice", Suitability: 85},
	{CropName: "Wheat", Suitability: 78},
	{CropName: "Maize", Suitability: 72},
}

// Recommender answers queries over a fixed dataset. It is safe for
// concurrent use.
type Recommender struct {
	ds *Dataset
}

// NewRecommender binds a recommender to ds.
func NewRecommender(ds *Dataset) *Recommender {
	return &Recommender{ds: ds}
}

// Dataset returns the dataset the recommender ranks over.
func (r *Recommender) Dataset() *Dataset { return r.ds }

type neighbor struct {
	label    string
	distance float64
}

type group struct {
	label     string
	distances []float64
}

// Recommend returns up to three crops ordered by descending suitability.
// It always returns at least one entry.
func (r *Recommender) Recommend(q Query, k int) []Recommendation {
	if r.ds.Len() == 0 {
		return cloneRecommendations(fallbackRecommendations)
	}
	if k <= 0 {
		k = DefaultK
	}

	qv := scaled(q.Temperature, q.Humidity, q.SoilPh, q.Rainfall)
	neighbors := make([]neighbor, len(r.ds.samples))
	for i, s := range r.ds.samples {
		sv := scaled(s.Temperature, s.Humidity, s.SoilPh, s.Rainfall)
		d := floats.Distance(qv, sv, 2)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			d = math.Inf(1)
		}
		neighbors[i] = neighbor{label: s.Label, distance: d}
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].distance < neighbors[j].distance
	})
	if k > len(neighbors) {
		k = len(neighbors)
	}
	nearest := neighbors[:k]

	var groups []*group
	byLabel := make(map[string]*group)
	for _, n := range nearest {
		g, ok := byLabel[n.label]
		if !ok {
			g = &group{label: n.label}
			byLabel[n.label] = g
			groups = append(groups, g)
		}
		g.distances = append(g.distances, n.distance)
	}

	out := make([]Recommendation, 0, len(groups))
	for _, g := range groups {
		out = append(out, Recommendation{
			CropName:    displayName(g.label),
			Suitability: suitability(stat.Mean(g.distances, nil)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Suitability > out[j].Suitability
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func scaled(temperature, humidity, ph, rainfall float64) []float64 {
	return []float64{
		temperature / scale[0],
		humidity / scale[1],
		ph / scale[2],
		rainfall / scale[3],
	}
}

// suitability maps a mean distance onto [0,100].
func suitability(meanDistance float64) float64 {
	s := 100 - meanDistance*100
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func displayName(label string) string {
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(r)) + label[size:]
}

func cloneRecommendations(in []Recommendation) []Recommendation {
	out := make([]Recommendation, len(in))
	copy(out, in)
	return out
}

package models

// DiseaseDetection is the top finding of a plant health assessment.
type DiseaseDetection struct {
	DiseaseName string  `json:"diseaseName"`
	Confidence  float64 `json:"confidence"` // 0..1
	Symptoms    string  `json:"symptoms"`
	Treatment   string  `json:"treatment"`
}

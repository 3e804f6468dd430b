// Package plantid submits leaf images to the plant.id health assessment API.
package plantid

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"greeneye/models"
)

// Client talks to plant.id v3.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client. An empty baseURL uses the public endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://plant.id"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type assessmentReq struct {
	Images         []string `json:"images"` // data URLs
	Modifiers      []string `json:"modifiers"`
	DiseaseDetails []string `json:"disease_details"`
}

type assessmentResp struct {
	HealthAssessment *struct {
		Diseases []struct {
			Name           string   `json:"name"`
			Probability    *float64 `json:"probability"`
			DiseaseDetails *struct {
				Description string `json:"description"`
				Treatment   struct {
					Biological []string `json:"biological"`
					Chemical   []string `json:"chemical"`
				} `json:"treatment"`
			} `json:"disease_details"`
		} `json:"diseases"`
	} `json:"health_assessment"`
}

// Assess sends one image and returns the most likely disease, or a
// "No Disease Detected" result when the plant looks healthy.
func (c *Client) Assess(ctx context.Context, mimeType string, image []byte) (models.DiseaseDetection, error) {
	if len(image) == 0 {
		return models.DiseaseDetection{}, fmt.Errorf("empty image")
	}
	body, err := json.Marshal(assessmentReq{
		Images:         []string{"data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)},
		Modifiers:      []string{"crops_fast", "similar_images"},
		DiseaseDetails: []string{"common_names", "url", "description", "treatment"},
	})
	if err != nil {
		return models.DiseaseDetection{}, fmt.Errorf("marshal plant.id req: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/health_assessment", bytes.NewReader(body))
	if err != nil {
		return models.DiseaseDetection{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.DiseaseDetection{}, fmt.Errorf("plant.id call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.DiseaseDetection{}, fmt.Errorf("plant.id non-2xx: %s, body: %s", resp.Status, string(data))
	}

	var out assessmentResp
	if err := json.Unmarshal(data, &out); err != nil {
		return models.DiseaseDetection{}, fmt.Errorf("decode plant.id resp: %w", err)
	}
	if out.HealthAssessment == nil || len(out.HealthAssessment.Diseases) == 0 {
		return Healthy(), nil
	}

	d := out.HealthAssessment.Diseases[0]
	det := models.DiseaseDetection{
		DiseaseName: "Unknown Disease",
		Confidence:  0.5,
		Symptoms:    "Symptoms not available",
		Treatment:   "Treatment information not available",
	}
	if d.Name != "" {
		det.DiseaseName = d.Name
	}
	if d.Probability != nil && *d.Probability != 0 {
		det.Confidence = *d.Probability
	}
	if dd := d.DiseaseDetails; dd != nil {
		if dd.Description != "" {
			det.Symptoms = dd.Description
		}
		switch {
		case len(dd.Treatment.Biological) > 0:
			det.Treatment = dd.Treatment.Biological[0]
		case len(dd.Treatment.Chemical) > 0:
			det.Treatment = dd.Treatment.Chemical[0]
		}
	}
	return det, nil
}

// Healthy is the result when no disease is reported.
func Healthy() models.DiseaseDetection {
	return models.DiseaseDetection{
		DiseaseName: "No Disease Detected",
		Confidence:  0.95,
		Symptoms:    "Plant appears healthy based on the analysis",
		Treatment:   "Continue regular plant care and monitoring",
	}
}

// AnalysisError is served when the assessment could not be made.
func AnalysisError() models.DiseaseDetection {
	return models.DiseaseDetection{
		DiseaseName: "Analysis Error",
		Confidence:  0,
		Symptoms:    "Unable to analyze the image. Please ensure the image is clear and shows plant leaves.",
		Treatment:   "Please try uploading a different image or check your internet connection",
	}
}

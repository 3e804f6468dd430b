// Package alerting sends notification emails through EmailJS.
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"greeneye/models"
)

// FromName is the sender shown in alert emails.
const FromName = "Green Eye Cube"

// Sender posts template emails to EmailJS.
type Sender struct {
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	http       *http.Client
}

// NewSender returns a sender. An empty baseURL uses the public endpoint.
func NewSender(baseURL, serviceID, templateID, publicKey string) *Sender {
	if baseURL == "" {
		baseURL = "https://api.emailjs.com"
	}
	return &Sender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

type sendReq struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	FromName string `json:"from_name"`
}

// Send delivers a. Anything other than 200 from EmailJS is an error.
func (s *Sender) Send(ctx context.Context, a models.EmailAlert) error {
	body, err := json.Marshal(sendReq{
		ServiceID:  s.serviceID,
		TemplateID: s.templateID,
		UserID:     s.publicKey,
		TemplateParams: templateParams{
			ToEmail:  a.Email,
			Subject:  a.Subject,
			Message:  a.Message,
			FromName: FromName,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal emailjs req: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1.0/email/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("emailjs returned status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}

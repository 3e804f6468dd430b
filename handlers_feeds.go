package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"greeneye/models"
	"greeneye/plantid"
	"greeneye/telemetry"
	"greeneye/weather"
)

// maxImageBytes caps plant images accepted by /plantid.
const maxImageBytes = 5 << 20

// alertHistoryLimit is how many records /alerts returns.
const alertHistoryLimit = 50

// handleHealth reports liveness and which crop dataset is loaded.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := a.crops.Dataset()
	writeJSON(w, http.StatusOK, healthResp{
		Status: "ok",
		Time:   time.Now().UTC(),
		Dataset: datasetInfo{
			Samples:  ds.Len(),
			Crops:    len(ds.Labels()),
			Fallback: ds.Fallback(),
		},
	})
}

// handleSensorLatest returns the latest channel reading or the fallback.
func (a *App) handleSensorLatest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.latestSensor(r.Context()))
}

// handleSensorHistory returns recent readings; ?results= sets how many.
func (a *App) handleSensorHistory(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("results"))
	h, err := a.sensor.History(r.Context(), n)
	if err != nil {
		a.log.Warnw("sensor history unavailable, serving fallback", "error", err)
		h = telemetry.FallbackHistory(time.Now())
	}
	writeJSON(w, http.StatusOK, h)
}

// handleWeather returns conditions at /weather/{lat}/{lon}, or at the
// default location when no coordinates are given.
func (a *App) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat := coordinate(chi.URLParam(r, "lat"), weather.DefaultLat)
	lon := coordinate(chi.URLParam(r, "lon"), weather.DefaultLon)
	writeJSON(w, http.StatusOK, a.currentWeather(r.Context(), lat, lon))
}

// handlePlantID runs a health assessment on the uploaded "image" part.
func (a *App) handlePlantID(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	f, hdr, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer f.Close()
	if hdr.Size > maxImageBytes {
		http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
		return
	}

	img, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	mime := hdr.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(img)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()
	det, err := a.plants.Assess(ctx, mime, img)
	if err != nil {
		a.log.Errorw("plant disease detection failed", "error", err)
		det = plantid.AnalysisError()
	}
	writeJSON(w, http.StatusOK, det)
}

// handleSendAlert emails an alert and records the attempt in the alert log.
func (a *App) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	var req models.EmailAlert
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.Subject) == "" {
		http.Error(w, "Email, message, and subject are required", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		http.Error(w, "invalid email address", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()
	sendErr := a.mailer.Send(ctx, req)

	rec := models.AlertRecord{
		ID:      uuid.NewString(),
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.AlertStatusSent,
		SentAt:  time.Now().UTC(),
	}
	if sendErr != nil {
		rec.Status = models.AlertStatusFailed
		rec.ErrorMessage = sendErr.Error()
	}
	if err := a.alerts.Record(ctx, rec); err != nil {
		a.log.Warnw("alert log write failed", "id", rec.ID, "error", err)
	}

	if sendErr != nil {
		a.log.Errorw("alert send failed", "id", rec.ID, "error", sendErr)
		writeJSON(w, http.StatusInternalServerError, errorResp{
			Message: "Failed to send alert",
			Error:   sendErr.Error(),
		})
		return
	}
	a.log.Infow("alert sent", "id", rec.ID, "email", req.Email)
	writeJSON(w, http.StatusOK, sendAlertResp{Success: true, Message: "Alert sent successfully"})
}

// handleListAlerts returns the most recent alert log entries.
func (a *App) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := a.alerts.Recent(ctx, alertHistoryLimit)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

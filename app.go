package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"greeneye/alerting"
	"greeneye/crop"
	"greeneye/models"
	"greeneye/plantid"
	"greeneye/telemetry"
	"greeneye/weather"
)

// Collaborators are held behind small interfaces so handlers can be tested
// without the upstream APIs.

type sensorSource interface {
	Latest(ctx context.Context) (models.SensorData, error)
	History(ctx context.Context, n int) (models.SensorHistory, error)
}

type weatherSource interface {
	Current(ctx context.Context, lat, lon float64) (models.WeatherData, error)
}

type plantAssessor interface {
	Assess(ctx context.Context, mimeType string, image []byte) (models.DiseaseDetection, error)
}

type alertSender interface {
	Send(ctx context.Context, a models.EmailAlert) error
}

type App struct {
	cfg    Config
	log    *zap.SugaredLogger
	crops  *crop.Recommender
	sensor sensorSource
	wx     weatherSource
	plants plantAssessor
	mailer alertSender
	alerts alertLog
}

// newApp loads the crop dataset once and wires the upstream clients. The
// alert log connects to MongoDB only when MONGO_URI is set.
func newApp(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*App, error) {
	ds := crop.LoadOrFallback(cfg.CropDataPath, logger)

	app := &App{
		cfg:    cfg,
		log:    logger,
		crops:  crop.NewRecommender(ds),
		sensor: telemetry.NewClient(cfg.ThingSpeakURL, cfg.ThingSpeakChannel, cfg.ThingSpeakAPIKey),
		wx:     weather.NewClient(cfg.WeatherURL, cfg.WeatherAPIKey),
		plants: plantid.NewClient(cfg.PlantIDURL, cfg.PlantIDAPIKey),
		mailer: alerting.NewSender(cfg.EmailJSURL, cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey),
		alerts: nopAlertLog{},
	}

	if cfg.MongoURI != "" {
		l, err := newMongoAlertLog(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("alert log: %w", err)
		}
		app.alerts = l
		logger.Infow("alert log enabled", "db", cfg.MongoDB)
	}
	return app, nil
}

func (a *App) close(ctx context.Context) { _ = a.alerts.Close(ctx) }

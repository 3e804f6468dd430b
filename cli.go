package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"greeneye/agro"
	"greeneye/crop"
	"greeneye/logging"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the GreenEye API server.

Configuration is read from the environment (and .env when present):
PORT, DEBUG, CROP_DATA_PATH, NDVI_FULL_SCALE, THINGSPEAK_*, WEATHER_*,
PLANTID_*, EMAILJS_*, MONGO_URI, MONGO_DB, CORS_ORIGINS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// runServe starts the HTTP server and shuts it down on SIGINT/SIGTERM.
func runServe() error {
	cfg := mustConfig()
	if err := logging.Init(cfg.Debug); err != nil {
		return err
	}
	defer logging.Sync()
	logger := logging.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer app.close(context.Background())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("GreenEye API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logger.Infow("shutting down", "signal", s.String())
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

func newRecommendCmd() *cobra.Command {
	var (
		q        crop.Query
		soil     string
		k        int
		dataPath string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank crops for an environmental profile",
		Example: `  greeneye recommend --temperature 20.8 --humidity 82 --ph 6.5 --rainfall 202.9
  greeneye recommend --temperature 25 --humidity 60 --ph 6 --rainfall 90 --k 5 --soil Clay`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.SoilType = crop.SoilType(soil)
			if !q.SoilType.Valid() {
				return fmt.Errorf("unknown soil type %q (want Loamy, Sandy, Clay or Silty)", soil)
			}
			ds := crop.LoadOrFallback(dataPath, logging.Get())
			return printJSON(cmd.OutOrStdout(), crop.NewRecommender(ds).Recommend(q, k))
		},
	}
	f := cmd.Flags()
	f.Float64Var(&q.Temperature, "temperature", 0, "air temperature in °C")
	f.Float64Var(&q.Humidity, "humidity", 0, "relative humidity in %")
	f.Float64Var(&q.SoilPh, "ph", 7, "soil pH")
	f.Float64Var(&q.Rainfall, "rainfall", 0, "rainfall in mm")
	f.StringVar(&soil, "soil", string(crop.SoilLoamy), "soil type: Loamy, Sandy, Clay or Silty")
	f.IntVar(&k, "k", crop.DefaultK, "number of nearest neighbors")
	f.StringVar(&dataPath, "data", getenv("CROP_DATA_PATH", "data/crop_recommendation.csv"), "reference dataset CSV")
	return cmd
}

func newPestRiskCmd() *cobra.Command {
	var in agro.PestRiskInput
	cmd := &cobra.Command{
		Use:     "pest-risk",
		Short:   "Classify pest risk from four readings",
		Example: `  greeneye pest-risk --humidity 85 --ndvi 0.3 --voc 320 --soil-moisture 70`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), agro.ClassifyPestRisk(in))
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.Humidity, "humidity", 0, "relative humidity in %")
	f.Float64Var(&in.VegetationIndex, "ndvi", 0, "vegetation index")
	f.Float64Var(&in.VOC, "voc", 0, "VOC sensor reading")
	f.Float64Var(&in.SoilMoisture, "soil-moisture", 0, "soil moisture reading")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

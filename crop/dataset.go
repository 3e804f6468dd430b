package crop

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// Sample is one row of the agronomic reference dataset.
type Sample struct {
	Nitrogen    float64
	Phosphorus  float64
	Potassium   float64
	Temperature float64 // °C
	Humidity    float64 // %
	SoilPh      float64
	Rainfall    float64 // mm
	Label       string  // lower-cased
}

// Dataset is the loaded reference data. It is never mutated after load.
type Dataset struct {
	samples  []Sample
	fallback bool
}

// NewDataset copies samples into a read-only dataset.
func NewDataset(samples []Sample) *Dataset {
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	return &Dataset{samples: cp}
}

// FallbackDataset returns the embedded three-crop dataset used when the
// reference file cannot be read.
func FallbackDataset() *Dataset {
	ds := NewDataset([]Sample{
		{Nitrogen: 90, Phosphorus: 42, Potassium: 43, Temperature: 20.8, Humidity: 82.0, SoilPh: 6.5, Rainfall: 202.9, Label: "rice"},
		{Nitrogen: 71, Phosphorus: 54, Potassium: 16, Temperature: 22.6, Humidity: 63.7, SoilPh: 5.7, Rainfall: 87.8, Label: "maize"},
		{Nitrogen: 19, Phosphorus: 50, Potassium: 12, Temperature: 22.1, Humidity: 58.2, SoilPh: 6.4, Rainfall: 226.7, Label: "wheat"},
	})
	ds.fallback = true
	return ds
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.samples)
}

// Fallback reports whether this is the embedded fallback set.
func (d *Dataset) Fallback() bool { return d != nil && d.fallback }

// Labels returns the distinct crop labels in first-occurrence order.
func (d *Dataset) Labels() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, s := range d.samples {
		if _, ok := seen[s.Label]; ok {
			continue
		}
		seen[s.Label] = struct{}{}
		out = append(out, s.Label)
	}
	return out
}

// column is a strict numeric CSV cell: empty or non-numeric text is an
// error rather than a silent zero.
type column float64

func (c *column) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("empty numeric field")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*c = column(v)
	return nil
}

type csvRow struct {
	N           column `csv:"N"`
	P           column `csv:"P"`
	K           column `csv:"K"`
	Temperature column `csv:"temperature"`
	Humidity    column `csv:"humidity"`
	Ph          column `csv:"ph"`
	Rainfall    column `csv:"rainfall"`
	Label       string `csv:"label"`
}

var requiredColumns = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall", "label"}

// LoadDataset parses the reference CSV at path. Any malformed row fails the
// whole load.
func LoadDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	if err := checkHeader(raw); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	samples := make([]Sample, 0, len(rows))
	for i, r := range rows {
		label := strings.ToLower(strings.TrimSpace(r.Label))
		if label == "" {
			// +2: header line plus one-based numbering
			return nil, fmt.Errorf("parse dataset %s: line %d: empty label", path, i+2)
		}
		samples = append(samples, Sample{
			Nitrogen:    float64(r.N),
			Phosphorus:  float64(r.P),
			Potassium:   float64(r.K),
			Temperature: float64(r.Temperature),
			Humidity:    float64(r.Humidity),
			SoilPh:      float64(r.Ph),
			Rainfall:    float64(r.Rainfall),
			Label:       label,
		})
	}
	return NewDataset(samples), nil
}

// checkHeader makes sure every expected column is present; gocsv leaves
// unmatched struct fields at their zero value otherwise.
func checkHeader(raw []byte) error {
	first, _, _ := strings.Cut(string(raw), "\n")
	have := make(map[string]bool)
	for _, h := range strings.Split(strings.TrimSpace(first), ",") {
		have[strings.TrimSpace(h)] = true
	}
	for _, c := range requiredColumns {
		if !have[c] {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

// LoadOrFallback loads the dataset at path and substitutes the embedded
// fallback on any failure, including an empty file.
func LoadOrFallback(path string, logger *zap.SugaredLogger) *Dataset {
	ds, err := LoadDataset(path)
	if err == nil && ds.Len() == 0 {
		err = errors.New("dataset has no rows")
	}
	if err != nil {
		logger.Warnw("crop dataset unavailable, using embedded fallback", "path", path, "error", err)
		return FallbackDataset()
	}
	logger.Infow("crop dataset loaded", "path", path, "samples", ds.Len(), "crops", len(ds.Labels()))
	return ds
}

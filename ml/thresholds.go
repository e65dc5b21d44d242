package ml

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"
)

// Bounds is the closed range observed for one feature.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b *Bounds) Contains(value float64) bool {
	return b == nil || (value >= b.Min && value <= b.Max)
}

// Thresholds is the range config consumed by the inference service.
// Feature bounds are nil when the dataset has no healthy samples.
type Thresholds struct {
	Temperature   *Bounds `json:"temperature,omitempty"`
	Humidity      *Bounds `json:"humidity,omitempty"`
	PHLevel       *Bounds `json:"ph_level,omitempty"`
	ModelAccuracy float64 `json:"model_accuracy"`
}

// DeriveThresholds computes per-feature bounds over every healthy sample
// in the dataset, not just the training subset.
func DeriveThresholds(dataset *Dataset, accuracy float64) Thresholds {
	thresholds := Thresholds{ModelAccuracy: accuracy}
	healthy := dataset.Healthy()
	if len(healthy) == 0 {
		return thresholds
	}

	temperature := make([]float64, len(healthy))
	humidity := make([]float64, len(healthy))
	phLevel := make([]float64, len(healthy))
	for i, sample := range healthy {
		temperature[i] = sample.Temperature
		humidity[i] = sample.Humidity
		phLevel[i] = sample.PHLevel
	}
	thresholds.Temperature = boundsOf(temperature)
	thresholds.Humidity = boundsOf(humidity)
	thresholds.PHLevel = boundsOf(phLevel)
	return thresholds
}

func boundsOf(values []float64) *Bounds {
	return &Bounds{Min: floats.Min(values), Max: floats.Max(values)}
}

func (t Thresholds) Empty() bool {
	return t.Temperature == nil && t.Humidity == nil && t.PHLevel == nil
}

// Within reports whether every feature of sample lies inside its bounds.
func (t Thresholds) Within(sample Sample) bool {
	return t.Temperature.Contains(sample.Temperature) &&
		t.Humidity.Contains(sample.Humidity) &&
		t.PHLevel.Contains(sample.PHLevel)
}

// WriteThresholds writes t as two-space indented JSON, replacing path.
func WriteThresholds(path string, t Thresholds) error {
	payload, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(append(payload, '\n'))
		return err
	})
}

func ReadThresholds(path string) (Thresholds, error) {
	var t Thresholds
	payload, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("malformed thresholds file: %w", err)
	}
	return t, nil
}

package ml

import (
	"errors"
	"strings"
)

const (
	LabelUnhealthy = 0
	LabelHealthy   = 1
)

const healthyStatus = "healthy"

var ErrEmptyDataset = errors.New("dataset is empty")

// Label maps a raw health status to a binary label. Only an exact match on
// "healthy" after trimming and lowercasing counts; "unhealthy" is 0.
func Label(status string) int {
	if strings.ToLower(strings.TrimSpace(status)) == healthyStatus {
		return LabelHealthy
	}
	return LabelUnhealthy
}

// Dataset holds labeled samples after cleaning.
type Dataset struct {
	Samples []Sample
}

// BuildDataset labels cleaned rows. Rows with a missing required field must
// already have been removed.
func BuildDataset(rows []*Row) (*Dataset, error) {
	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		if !row.Complete() {
			return nil, errors.New("row has missing values")
		}
		status := *row.HealthStatus
		samples = append(samples, Sample{
			Temperature:  *row.Temperature,
			Humidity:     *row.Humidity,
			PHLevel:      *row.PHLevel,
			HealthStatus: status,
			Label:        Label(status),
		})
	}
	return &Dataset{Samples: samples}, nil
}

func (d *Dataset) Len() int {
	return len(d.Samples)
}

func (d *Dataset) Features() [][]float64 {
	features := make([][]float64, len(d.Samples))
	for i, sample := range d.Samples {
		features[i] = FeatureVector(sample)
	}
	return features
}

func (d *Dataset) Labels() []int {
	labels := make([]int, len(d.Samples))
	for i, sample := range d.Samples {
		labels[i] = sample.Label
	}
	return labels
}

// Classes returns the number of distinct labels present.
func (d *Dataset) Classes() int {
	seen := make(map[int]struct{}, 2)
	for _, sample := range d.Samples {
		seen[sample.Label] = struct{}{}
	}
	return len(seen)
}

func (d *Dataset) Healthy() []Sample {
	healthy := make([]Sample, 0)
	for _, sample := range d.Samples {
		if sample.Label == LabelHealthy {
			healthy = append(healthy, sample)
		}
	}
	return healthy
}

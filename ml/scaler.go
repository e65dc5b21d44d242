package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var ErrNotFitted = errors.New("model not fitted")

// StandardScaler centers each feature on its mean and divides by its
// population standard deviation. Constant features keep a scale of 1.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

func (s *StandardScaler) Fit(features [][]float64) error {
	if len(features) == 0 {
		return ErrEmptyDataset
	}
	x, err := toDense(features)
	if err != nil {
		return err
	}
	_, cols := x.Dims()
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	column := make([]float64, len(features))
	for j := 0; j < cols; j++ {
		mat.Col(column, j, x)
		mean, std := stat.PopMeanStdDev(column, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return nil
}

func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) > 0 && len(s.Mean) == len(s.Std)
}

func (s *StandardScaler) TransformVector(vector []float64) ([]float64, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	if len(vector) != len(s.Mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.Mean), len(vector))
	}
	out := make([]float64, len(vector))
	for j, value := range vector {
		out[j] = (value - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

func (s *StandardScaler) Transform(features [][]float64) ([][]float64, error) {
	out := make([][]float64, len(features))
	for i, vector := range features {
		scaled, err := s.TransformVector(vector)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(features [][]float64) ([][]float64, error) {
	if err := s.Fit(features); err != nil {
		return nil, err
	}
	return s.Transform(features)
}

// FeatureStats returns mean and std keyed by feature name.
func (s *StandardScaler) FeatureStats() map[string][2]float64 {
	if !s.Fitted() {
		return nil
	}
	names := FeatureNames()
	stats := make(map[string][2]float64, len(s.Mean))
	for j := range s.Mean {
		name := fmt.Sprintf("f%d", j)
		if j < len(names) {
			name = names[j]
		}
		stats[name] = [2]float64{s.Mean[j], s.Std[j]}
	}
	return stats
}

func toDense(features [][]float64) (*mat.Dense, error) {
	cols := len(features[0])
	if cols == 0 {
		return nil, errors.New("features have no columns")
	}
	data := make([]float64, 0, len(features)*cols)
	for i, row := range features {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(features), cols, data), nil
}

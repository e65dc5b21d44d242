package ml

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
)

// Pipeline standardizes features and then classifies them. The scaler
// parameters learned during Fit are the ones applied at prediction time.
type Pipeline struct {
	Scaler     *StandardScaler
	Classifier *LogisticRegression
	Features   []string
	Metrics    Metrics
	RunID      string
	TrainedAt  time.Time
}

func NewPipeline(c float64, maxIter int) *Pipeline {
	return &Pipeline{
		Scaler:     NewStandardScaler(),
		Classifier: NewLogisticRegression(c, maxIter),
		Features:   FeatureNames(),
	}
}

func (p *Pipeline) Fit(features [][]float64, labels []int) error {
	if p.Scaler == nil {
		p.Scaler = NewStandardScaler()
	}
	if p.Classifier == nil {
		p.Classifier = NewLogisticRegression(DefaultRegularization, DefaultMaxIter)
	}
	if len(p.Features) == 0 {
		p.Features = FeatureNames()
	}
	scaled, err := p.Scaler.FitTransform(features)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}
	if err := p.Classifier.Fit(scaled, labels); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}
	p.TrainedAt = time.Now().UTC()
	return nil
}

func (p *Pipeline) Fitted() bool {
	return p.Scaler != nil && p.Scaler.Fitted() && p.Classifier != nil && p.Classifier.Fitted()
}

// Predict returns the label for one raw feature vector and the probability
// the model assigns to that label.
func (p *Pipeline) Predict(features []float64) (int, float64, error) {
	if !p.Fitted() {
		return 0, 0, ErrNotFitted
	}
	scaled, err := p.Scaler.TransformVector(features)
	if err != nil {
		return 0, 0, err
	}
	prob, err := p.Classifier.ProbaVector(scaled)
	if err != nil {
		return 0, 0, err
	}
	if prob > 0.5 {
		return LabelHealthy, prob, nil
	}
	return LabelUnhealthy, 1 - prob, nil
}

func (p *Pipeline) PredictBatch(features [][]float64) ([]int, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	scaled, err := p.Scaler.Transform(features)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(scaled)
}

// Score returns mean accuracy on the given samples.
func (p *Pipeline) Score(features [][]float64, labels []int) (float64, error) {
	metrics, err := p.Evaluate(features, labels)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy, nil
}

func (p *Pipeline) Evaluate(features [][]float64, labels []int) (Metrics, error) {
	if len(features) != len(labels) {
		return Metrics{}, errors.New("features and labels size mismatch")
	}
	predicted, err := p.PredictBatch(features)
	if err != nil {
		return Metrics{}, err
	}
	return Evaluate(labels, predicted), nil
}

// Save gob-encodes the fitted pipeline to path, replacing any existing file.
func (p *Pipeline) Save(path string) error {
	if !p.Fitted() {
		return ErrNotFitted
	}
	return writeFile(path, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(p)
	})
}

func (p *Pipeline) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var loaded Pipeline
	if err := gob.NewDecoder(file).Decode(&loaded); err != nil {
		return fmt.Errorf("decode pipeline: %w", err)
	}
	if !loaded.Fitted() {
		return fmt.Errorf("%s: %w", path, ErrNotFitted)
	}
	*p = loaded
	return nil
}

func LoadPipeline(path string) (*Pipeline, error) {
	p := &Pipeline{}
	if err := p.Load(path); err != nil {
		return nil, err
	}
	return p, nil
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))
	return encode(file)
}

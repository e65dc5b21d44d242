package ml

// MLModel is a trainable binary classifier that can be persisted.
type MLModel interface {
	Fit(features [][]float64, labels []int) error
	Predict(features []float64) (int, float64, error)
	Save(path string) error
	Load(path string) error
}

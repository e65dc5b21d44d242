package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plantFeatures() ([][]float64, []int) {
	features := [][]float64{
		{20, 60, 6.0},
		{22, 62, 6.1},
		{24, 64, 6.2},
		{26, 66, 6.3},
		{28, 68, 6.4},
		{30, 70, 6.5},
		{35, 85, 7.5},
		{37, 88, 7.7},
		{39, 92, 7.9},
		{40, 95, 8.0},
	}
	labels := []int{1, 1, 1, 1, 1, 1, 0, 0, 0, 0}
	return features, labels
}

func TestPipelineFitPredict(t *testing.T) {
	features, labels := plantFeatures()

	pipeline := NewPipeline(DefaultRegularization, DefaultMaxIter)
	require.NoError(t, pipeline.Fit(features, labels))
	require.True(t, pipeline.Fitted())
	assert.Equal(t, FeatureNames(), pipeline.Features)
	assert.False(t, pipeline.TrainedAt.IsZero())

	label, confidence, err := pipeline.Predict([]float64{25, 65, 6.2})
	require.NoError(t, err)
	assert.Equal(t, LabelHealthy, label)
	assert.Greater(t, confidence, 0.5)

	label, confidence, err = pipeline.Predict([]float64{41, 96, 8.1})
	require.NoError(t, err)
	assert.Equal(t, LabelUnhealthy, label)
	assert.Greater(t, confidence, 0.5)

	accuracy, err := pipeline.Score(features, labels)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)
}

func TestPipelineNotFitted(t *testing.T) {
	pipeline := NewPipeline(1, 10)

	_, _, err := pipeline.Predict([]float64{25, 65, 6.2})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = pipeline.PredictBatch([][]float64{{25, 65, 6.2}})
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.ErrorIs(t, pipeline.Save(filepath.Join(t.TempDir(), "model.gob")), ErrNotFitted)
}

func TestPipelineEvaluateMismatch(t *testing.T) {
	features, labels := plantFeatures()
	pipeline := NewPipeline(1, 100)
	require.NoError(t, pipeline.Fit(features, labels))

	_, err := pipeline.Evaluate(features, labels[:3])
	assert.Error(t, err)
}

func TestPipelineSaveLoad(t *testing.T) {
	features, labels := plantFeatures()
	pipeline := NewPipeline(DefaultRegularization, DefaultMaxIter)
	pipeline.RunID = "run-1"
	require.NoError(t, pipeline.Fit(features, labels))
	pipeline.Metrics = Metrics{Accuracy: 1, Support: 2}

	path := filepath.Join(t.TempDir(), "trained_model.gob")
	require.NoError(t, pipeline.Save(path))

	loaded, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Scaler, loaded.Scaler)
	assert.Equal(t, pipeline.Classifier, loaded.Classifier)
	assert.Equal(t, "run-1", loaded.RunID)
	assert.Equal(t, pipeline.Metrics, loaded.Metrics)
	assert.True(t, pipeline.TrainedAt.Equal(loaded.TrainedAt))

	want, err := pipeline.PredictBatch(features)
	require.NoError(t, err)
	got, err := loaded.PredictBatch(features)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again replaces the artifact in place.
	require.NoError(t, pipeline.Save(path))
	_, err = LoadPipeline(path)
	require.NoError(t, err)
}

func TestLoadPipelineErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPipeline(filepath.Join(dir, "missing.gob"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.gob")
	require.NoError(t, os.WriteFile(garbage, []byte("not a model"), 0o600))
	_, err = LoadPipeline(garbage)
	assert.Error(t, err)
}

func TestLoadModel(t *testing.T) {
	features, labels := plantFeatures()
	pipeline := NewPipeline(DefaultRegularization, DefaultMaxIter)
	require.NoError(t, pipeline.Fit(features, labels))
	path := filepath.Join(t.TempDir(), "trained_model.gob")
	require.NoError(t, pipeline.Save(path))

	model, err := LoadModel(ModelTypeLogisticRegression, path)
	require.NoError(t, err)
	label, _, err := model.Predict([]float64{25, 65, 6.2})
	require.NoError(t, err)
	assert.Equal(t, LabelHealthy, label)

	_, err = LoadModel("decision_tree", path)
	assert.Error(t, err)
}

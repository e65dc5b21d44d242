package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerFitTransform(t *testing.T) {
	features := [][]float64{
		{1, 10, 2},
		{3, 10, 4},
		{5, 10, 6},
	}

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(features)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{3, 10, 4}, scaler.Mean, 1e-12)
	// Population std of {1,3,5} is sqrt(8/3); the constant column keeps scale 1.
	assert.InDelta(t, 1.632993161855452, scaler.Std[0], 1e-12)
	assert.Equal(t, 1.0, scaler.Std[1])

	assert.InDelta(t, -1.224744871391589, scaled[0][0], 1e-12)
	assert.InDelta(t, 0, scaled[1][0], 1e-12)
	assert.InDelta(t, 1.224744871391589, scaled[2][0], 1e-12)
	for _, row := range scaled {
		assert.Equal(t, 0.0, row[1])
	}
}

func TestStandardScalerUsesFittedParameters(t *testing.T) {
	scaler := NewStandardScaler()
	require.NoError(t, scaler.Fit([][]float64{{0}, {2}}))

	out, err := scaler.TransformVector([]float64{4})
	require.NoError(t, err)
	assert.InDelta(t, 3, out[0], 1e-12)
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.TransformVector([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, scaler.Fit(nil), ErrEmptyDataset)
	assert.Error(t, scaler.Fit([][]float64{{1, 2}, {3}}))

	require.NoError(t, scaler.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = scaler.TransformVector([]float64{1})
	assert.Error(t, err)
}

func TestStandardScalerFeatureStats(t *testing.T) {
	scaler := NewStandardScaler()
	assert.Nil(t, scaler.FeatureStats())

	require.NoError(t, scaler.Fit([][]float64{{20, 60, 6}, {30, 70, 7}}))
	stats := scaler.FeatureStats()
	assert.Equal(t, [2]float64{25, 5}, stats[ColumnTemperature])
	assert.Equal(t, [2]float64{65, 5}, stats[ColumnHumidity])
	assert.Equal(t, [2]float64{6.5, 0.5}, stats[ColumnPHLevel])
}

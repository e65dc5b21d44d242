package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreTrainingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "training_history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	older := TrainingLog{
		RunID:      "run-old",
		ModelName:  "logistic_regression",
		Accuracy:   0.8,
		Precision:  0.75,
		Recall:     1,
		F1:         0.857,
		TrainedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		DataPoints: 40,
		TrainSize:  34,
		TestSize:   6,
		CSVPath:    "uploads/a.csv",
	}
	newer := older
	newer.RunID = "run-new"
	newer.Accuracy = 0.9
	newer.TrainedAt = older.TrainedAt.Add(time.Hour)

	require.NoError(t, store.SaveTrainingLog(older))
	require.NoError(t, store.SaveTrainingLog(newer))

	logs, err := store.LoadTrainingLog(0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "run-new", logs[0].RunID)
	assert.Equal(t, "run-old", logs[1].RunID)
	assert.True(t, logs[1].TrainedAt.Equal(older.TrainedAt))
	assert.Equal(t, older.CSVPath, logs[1].CSVPath)
	assert.Equal(t, 34, logs[1].TrainSize)
	assert.InDelta(t, 0.857, logs[1].F1, 1e-12)

	latest, err := store.LoadTrainingLog(1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, 0.9, latest[0].Accuracy)
}

func TestStoreReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training_history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveTrainingLog(TrainingLog{RunID: "run-1", TrainedAt: time.Now()}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	logs, err := store.LoadTrainingLog(0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestStoreErrors(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)

	var nilStore *Store
	assert.Error(t, nilStore.SaveTrainingLog(TrainingLog{RunID: "x"}))
	_, err = nilStore.LoadTrainingLog(0)
	assert.Error(t, err)
	assert.NoError(t, nilStore.Close())

	store, err := Open(filepath.Join(t.TempDir(), "training_history.db"))
	require.NoError(t, err)
	defer store.Close()
	assert.Error(t, store.SaveTrainingLog(TrainingLog{}))
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), *config)
	assert.Equal(t, filepath.Join("uploads", "pechay_conditions.csv"), config.DefaultCSV())
	assert.Equal(t, filepath.Join("data", "training_history.db"), config.DatabasePath())

	trainerCfg := config.Trainer()
	assert.Equal(t, "models", trainerCfg.ModelsDir)
	assert.Equal(t, "config", trainerCfg.ConfigDir)
	assert.Equal(t, 0.15, trainerCfg.TestRatio)
	assert.Equal(t, int64(42), trainerCfg.Seed)
	assert.Equal(t, 1000, trainerCfg.MaxIter)
	assert.Equal(t, 1.0, trainerCfg.C)
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train_model.yaml")
	content := "base_dir: " + dir + "\n" +
		"paths:\n" +
		"  models_dir: artifacts\n" +
		"training:\n" +
		"  seed: 7\n" +
		"  test_ratio: 0.2\n" +
		"database:\n" +
		"  path: \"\"\n" +
		"log:\n" +
		"  level: debug\n" +
		"  file: /var/log/trainer.log\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)

	trainerCfg := config.Trainer()
	assert.Equal(t, filepath.Join(dir, "artifacts"), trainerCfg.ModelsDir)
	assert.Equal(t, filepath.Join(dir, "config"), trainerCfg.ConfigDir)
	assert.Equal(t, int64(7), trainerCfg.Seed)
	assert.Equal(t, 0.2, trainerCfg.TestRatio)
	assert.Equal(t, 1000, trainerCfg.MaxIter)
	assert.Equal(t, filepath.Join(dir, "uploads", "pechay_conditions.csv"), config.DefaultCSV())
	assert.Empty(t, config.DatabasePath())
	assert.Equal(t, "debug", config.Logging().Level)
	assert.Equal(t, "/var/log/trainer.log", config.Logging().File)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train_model.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), *config)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train_model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training: [unterminated"), 0o600))

	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(configEnv, "/etc/hydrofarm/train_model.yaml")
	assert.Equal(t, "/etc/hydrofarm/train_model.yaml", configPath())

	t.Setenv(configEnv, "")
	assert.Equal(t, defaultConfigPath, configPath())
}

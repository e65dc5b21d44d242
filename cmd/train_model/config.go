package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/hxstefghi/mern-hydrofarm/logging"
	"github.com/hxstefghi/mern-hydrofarm/ml"
	"github.com/hxstefghi/mern-hydrofarm/trainer"
)

const (
	configEnv         = "HYDROFARM_CONFIG"
	defaultConfigPath = "train_model.yaml"
	defaultCSVName    = "pechay_conditions.csv"
)

type Config struct {
	BaseDir string `yaml:"base_dir"`
	Paths   struct {
		ModelsDir  string `yaml:"models_dir"`
		ConfigDir  string `yaml:"config_dir"`
		UploadsDir string `yaml:"uploads_dir"`
	} `yaml:"paths"`
	Training struct {
		TestRatio float64 `yaml:"test_ratio"`
		Seed      int64   `yaml:"seed"`
		MaxIter   int     `yaml:"max_iter"`
		C         float64 `yaml:"c"`
	} `yaml:"training"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log logging.Config `yaml:"log"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.BaseDir = "."
	cfg.Paths.ModelsDir = "models"
	cfg.Paths.ConfigDir = "config"
	cfg.Paths.UploadsDir = "uploads"
	cfg.Training.TestRatio = ml.DefaultTestRatio
	cfg.Training.Seed = ml.DefaultSeed
	cfg.Training.MaxIter = ml.DefaultMaxIter
	cfg.Training.C = ml.DefaultRegularization
	cfg.Database.Path = filepath.Join("data", "training_history.db")
	cfg.Log.Level = "info"
	cfg.Log.File = filepath.Join("logs", "trainer.log")
	return cfg
}

func configPath() string {
	if path := os.Getenv(configEnv); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig overlays the YAML file at path on the defaults. A missing
// file yields the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if config.BaseDir == "" {
		config.BaseDir = "."
	}
	return &config, nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

func (c *Config) DefaultCSV() string {
	return filepath.Join(c.resolve(c.Paths.UploadsDir), defaultCSVName)
}

func (c *Config) DatabasePath() string {
	return c.resolve(c.Database.Path)
}

func (c *Config) Logging() logging.Config {
	cfg := c.Log
	cfg.File = c.resolve(cfg.File)
	return cfg
}

func (c *Config) Trainer() trainer.Config {
	return trainer.Config{
		ModelsDir: c.resolve(c.Paths.ModelsDir),
		ConfigDir: c.resolve(c.Paths.ConfigDir),
		TestRatio: c.Training.TestRatio,
		Seed:      c.Training.Seed,
		MaxIter:   c.Training.MaxIter,
		C:         c.Training.C,
	}
}

// Package trainer fits the plant-health pipeline from a sensor CSV and
// writes the model artifact and the healthy-range threshold config.
//
// Runs are not coordinated with each other. Two runs sharing output
// directories race on both files and the last writer wins.
package trainer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hxstefghi/mern-hydrofarm/db"
	"github.com/hxstefghi/mern-hydrofarm/ml"
)

const (
	ModelFileName      = "trained_model.gob"
	ThresholdsFileName = "model_thresholds.json"
)

// ErrSingleClass means the cleaned data has only healthy or only
// unhealthy samples, so no classifier can be fit.
var ErrSingleClass = errors.New("training data contains only one class after labeling")

type Config struct {
	ModelsDir string
	ConfigDir string
	TestRatio float64
	Seed      int64
	MaxIter   int
	C         float64
}

func DefaultConfig() Config {
	return Config{
		ModelsDir: "models",
		ConfigDir: "config",
		TestRatio: ml.DefaultTestRatio,
		Seed:      ml.DefaultSeed,
		MaxIter:   ml.DefaultMaxIter,
		C:         ml.DefaultRegularization,
	}
}

func (c Config) ModelPath() string {
	return filepath.Join(c.ModelsDir, ModelFileName)
}

func (c Config) ThresholdsPath() string {
	return filepath.Join(c.ConfigDir, ThresholdsFileName)
}

// HistoryRecorder persists a summary of each completed run.
type HistoryRecorder interface {
	SaveTrainingLog(entry db.TrainingLog) error
}

type Option func(*Trainer)

func WithLogger(logger *zap.Logger) Option {
	return func(t *Trainer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithOutput sets where progress lines are printed.
func WithOutput(out io.Writer) Option {
	return func(t *Trainer) {
		if out != nil {
			t.out = out
		}
	}
}

func WithHistory(history HistoryRecorder) Option {
	return func(t *Trainer) {
		t.history = history
	}
}

type Trainer struct {
	cfg     Config
	logger  *zap.Logger
	out     io.Writer
	history HistoryRecorder
}

type Result struct {
	RunID          string
	ModelPath      string
	ThresholdsPath string
	Metrics        ml.Metrics
	Thresholds     ml.Thresholds
	Cleaning       ml.CleaningStats
	Samples        int
	TrainSize      int
	TestSize       int
}

func New(cfg Config, opts ...Option) *Trainer {
	defaults := DefaultConfig()
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = defaults.ModelsDir
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = defaults.ConfigDir
	}
	if cfg.TestRatio <= 0 || cfg.TestRatio >= 1 {
		cfg.TestRatio = defaults.TestRatio
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = defaults.MaxIter
	}
	if cfg.C <= 0 {
		cfg.C = defaults.C
	}

	t := &Trainer{
		cfg:    cfg,
		logger: zap.NewNop(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(zap.String("component", "trainer"))
	return t
}

// Train runs the whole pipeline for one CSV. It returns ErrSingleClass,
// before writing any file, when the labeled data has a single class.
func (t *Trainer) Train(csvPath string) (*Result, error) {
	runID := uuid.NewString()
	logger := t.logger.With(zap.String("run_id", runID))
	start := time.Now()

	if err := t.ensureDirs(); err != nil {
		return nil, err
	}

	logger.Info("loading training data", zap.String("csv", csvPath))
	rows, err := ml.LoadCSV(csvPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", csvPath, err)
	}

	cleaner := ml.NewDataCleaner()
	cleaned, issues := cleaner.Clean(rows)
	stats := cleaner.Stats()
	for _, issue := range issues {
		logger.Debug("row rejected", zap.String("rule", issue.Rule), zap.Int("line", issue.Line), zap.String("reason", issue.Message))
	}
	logger.Info("cleaned training data",
		zap.Int("total", stats.TotalProcessed),
		zap.Int("passed", stats.Passed),
		zap.Int("rejected", stats.Rejected),
		zap.Any("issues", stats.Issues),
	)

	dataset, err := ml.BuildDataset(cleaned)
	if err != nil {
		return nil, err
	}
	if dataset.Classes() < 2 {
		logger.Warn("single class after labeling", zap.Int("samples", dataset.Len()))
		return nil, ErrSingleClass
	}

	trainX, trainY, testX, testY := ml.TrainTestSplit(dataset.Features(), dataset.Labels(), t.cfg.TestRatio, t.cfg.Seed)
	logger.Info("split dataset", zap.Int("train", len(trainX)), zap.Int("test", len(testX)), zap.Int64("seed", t.cfg.Seed))

	pipeline := ml.NewPipeline(t.cfg.C, t.cfg.MaxIter)
	pipeline.RunID = runID
	if err := pipeline.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("train pipeline: %w", err)
	}
	logger.Debug("fitted pipeline",
		zap.Any("scaler", pipeline.Scaler.FeatureStats()),
		zap.Float64s("weights", pipeline.Classifier.Weights),
		zap.Float64("intercept", pipeline.Classifier.Intercept),
		zap.Int("iterations", pipeline.Classifier.Iterations),
		zap.Bool("converged", pipeline.Classifier.Converged),
	)
	if !pipeline.Classifier.Converged {
		logger.Warn("logistic regression did not converge", zap.Int("max_iter", t.cfg.MaxIter))
	}

	metrics, err := pipeline.Evaluate(testX, testY)
	if err != nil {
		return nil, fmt.Errorf("evaluate pipeline: %w", err)
	}
	pipeline.Metrics = metrics
	fmt.Fprintf(t.out, "Model trained, test accuracy: %.3f\n", metrics.Accuracy)
	logger.Info("evaluated pipeline",
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("precision", metrics.Precision),
		zap.Float64("recall", metrics.Recall),
		zap.Float64("f1", metrics.F1),
	)

	modelPath := t.cfg.ModelPath()
	if err := pipeline.Save(modelPath); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	fmt.Fprintf(t.out, "Saved model to %s\n", modelPath)

	thresholds := ml.DeriveThresholds(dataset, metrics.Accuracy)
	if thresholds.Empty() {
		// Unreachable while labels are binary: two classes imply a healthy row.
		logger.Warn("no healthy samples for thresholds")
	}
	thresholdsPath := t.cfg.ThresholdsPath()
	if err := ml.WriteThresholds(thresholdsPath, thresholds); err != nil {
		return nil, fmt.Errorf("write thresholds: %w", err)
	}
	fmt.Fprintf(t.out, "Wrote thresholds to %s\n", thresholdsPath)

	result := &Result{
		RunID:          runID,
		ModelPath:      modelPath,
		ThresholdsPath: thresholdsPath,
		Metrics:        metrics,
		Thresholds:     thresholds,
		Cleaning:       stats,
		Samples:        dataset.Len(),
		TrainSize:      len(trainX),
		TestSize:       len(testX),
	}
	t.record(logger, result, csvPath, pipeline.TrainedAt)
	logger.Info("training finished", zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (t *Trainer) ensureDirs() error {
	for _, dir := range []string{t.cfg.ModelsDir, t.cfg.ConfigDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// record stores the run summary. Failures only warn.
func (t *Trainer) record(logger *zap.Logger, result *Result, csvPath string, trainedAt time.Time) {
	if t.history == nil {
		return
	}
	err := t.history.SaveTrainingLog(db.TrainingLog{
		RunID:      result.RunID,
		ModelName:  ml.ModelTypeLogisticRegression,
		Accuracy:   result.Metrics.Accuracy,
		Precision:  result.Metrics.Precision,
		Recall:     result.Metrics.Recall,
		F1:         result.Metrics.F1,
		TrainedAt:  trainedAt,
		DataPoints: result.Samples,
		TrainSize:  result.TrainSize,
		TestSize:   result.TestSize,
		CSVPath:    csvPath,
	})
	if err != nil {
		logger.Warn("failed to record training history", zap.Error(err))
	}
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"
)

// Store keeps one row per training run.
type Store struct {
	db *sql.DB
}

type TrainingLog struct {
	RunID      string    `json:"run_id"`
	ModelName  string    `json:"model_name"`
	Accuracy   float64   `json:"accuracy"`
	Precision  float64   `json:"precision"`
	Recall     float64   `json:"recall"`
	F1         float64   `json:"f1"`
	TrainedAt  time.Time `json:"trained_at"`
	DataPoints int       `json:"data_points"`
	TrainSize  int       `json:"train_size"`
	TestSize   int       `json:"test_size"`
	CSVPath    string    `json:"csv_path"`
}

// Open creates the database file and schema if absent.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}
	database.SetMaxOpenConns(1)

	query := `
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        model_name VARCHAR(50),
        accuracy REAL,
        precision REAL,
        recall REAL,
        f1 REAL,
        trained_at DATETIME,
        data_points INTEGER,
        train_size INTEGER,
        test_size INTEGER,
        csv_path TEXT,
        UNIQUE(run_id)
    );
    CREATE INDEX IF NOT EXISTS idx_training_log_trained_at ON training_log(trained_at);
    `
	if _, err := database.Exec(query); err != nil {
		return nil, multierr.Append(fmt.Errorf("create tables failed: %w", err), database.Close())
	}
	return &Store{db: database}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveTrainingLog(entry TrainingLog) error {
	if s == nil || s.db == nil {
		return errors.New("database not initialized")
	}
	if entry.RunID == "" {
		return errors.New("run id required")
	}
	_, err := s.db.Exec(`
        INSERT OR REPLACE INTO training_log (
            run_id, model_name, accuracy, precision, recall, f1,
            trained_at, data_points, train_size, test_size, csv_path
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		entry.RunID,
		entry.ModelName,
		entry.Accuracy,
		entry.Precision,
		entry.Recall,
		entry.F1,
		entry.TrainedAt.UTC(),
		entry.DataPoints,
		entry.TrainSize,
		entry.TestSize,
		entry.CSVPath,
	)
	return err
}

// LoadTrainingLog returns the most recent runs first. limit <= 0 returns all.
func (s *Store) LoadTrainingLog(limit int) ([]TrainingLog, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
        SELECT run_id, model_name, accuracy, precision, recall, f1,
               trained_at, data_points, train_size, test_size, csv_path
        FROM training_log
        ORDER BY trained_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]TrainingLog, 0)
	for rows.Next() {
		var entry TrainingLog
		if err := rows.Scan(
			&entry.RunID,
			&entry.ModelName,
			&entry.Accuracy,
			&entry.Precision,
			&entry.Recall,
			&entry.F1,
			&entry.TrainedAt,
			&entry.DataPoints,
			&entry.TrainSize,
			&entry.TestSize,
			&entry.CSVPath,
		); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

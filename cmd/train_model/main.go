package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/hxstefghi/mern-hydrofarm/db"
	"github.com/hxstefghi/mern-hydrofarm/logging"
	"github.com/hxstefghi/mern-hydrofarm/trainer"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitSingleClass = 2
)

const singleClassMessage = "ERROR: Training data contains only one class after labeling. Need both healthy and unhealthy samples."

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	config, err := loadConfig(configPath())
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitFailure
	}

	// Flag errors must not reuse exit status 2.
	flags := flag.NewFlagSet("train_model", flag.ContinueOnError)
	flags.SetOutput(stderr)
	csvPath := flags.String("csv", config.DefaultCSV(), "path to training CSV")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	logger, err := logging.NewWithConsole(config.Logging(), stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()

	opts := []trainer.Option{
		trainer.WithLogger(logger),
		trainer.WithOutput(stdout),
	}
	if path := config.DatabasePath(); path != "" {
		store, err := db.Open(path)
		if err != nil {
			logger.Warn("training history disabled", zap.String("path", path), zap.Error(err))
		} else {
			defer store.Close()
			opts = append(opts, trainer.WithHistory(store))
		}
	}

	_, err = trainer.New(config.Trainer(), opts...).Train(*csvPath)
	switch {
	case errors.Is(err, trainer.ErrSingleClass):
		fmt.Fprintln(stdout, singleClassMessage)
		return exitSingleClass
	case err != nil:
		logger.Error("training failed", zap.Error(err))
		return exitFailure
	}
	return exitOK
}

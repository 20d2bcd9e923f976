package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/ctxlog"
)

// defaultWorkers is used when neither the CLI nor the sweep file sets a
// worker count.
const defaultWorkers = 4

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one invocation.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config

	// model is the loaded sweep; nil in check and trace modes.
	model   *config.Model
	workers int

	// replayWorkers parallelizes replays inside an instance. It stays 1
	// unless the sweep has a single instance, where instance-level
	// parallelism has nothing to chew on.
	replayWorkers int
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
//
// A failure to load or validate the sweep configuration is a fatal startup
// error and panics; the CLI entrypoint recovers it into an exit code.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger, err := buildLogger(cfg.LogLevel, cfg.LogFormat, outW)
	if err != nil {
		panic(fmt.Errorf("failed to configure logger: %w", err))
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{outW: outW, logger: logger, cfg: cfg, workers: defaultWorkers, replayWorkers: 1}

	// Check and trace modes operate on dataset directories, not sweep
	// files; nothing to load up front.
	if cfg.SweepPath == "" {
		return a
	}

	model, err := loader.Load(ctx, cfg.SweepPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	if cfg.BaseDir != "" {
		model.BaseDir = cfg.BaseDir
	}
	if cfg.Seed != 0 {
		model.Seed = cfg.Seed
	}

	a.model = model
	switch {
	case cfg.Workers > 0:
		a.workers = cfg.Workers
	case model.Workers > 0:
		a.workers = model.Workers
	}
	if len(model.Instances) == 1 {
		a.replayWorkers = a.workers
	}
	return a
}

// Model returns the loaded sweep model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

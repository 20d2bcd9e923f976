package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vk/mdpgridgo/internal/ctxlog"
	"github.com/vk/mdpgridgo/internal/dataset"
	"github.com/vk/mdpgridgo/internal/executor"
	"github.com/vk/mdpgridgo/internal/report"
)

// Run executes the mode the configuration selected.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	switch {
	case a.cfg.CheckPath != "":
		return a.runCheck(ctx)
	case a.cfg.TracePath != "":
		return a.runTrace(ctx)
	default:
		return a.runSweep(ctx)
	}
}

// runSweep generates every instance of the loaded sweep, writes the run
// manifest, and optionally renders the report.
func (a *App) runSweep(ctx context.Context) error {
	m := a.model
	if err := os.MkdirAll(m.BaseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}

	a.logger.Info("🚀 Starting sweep execution...",
		"instances", len(m.Instances),
		"workers", a.workers,
		"seed", m.Seed,
		"baseDir", m.BaseDir,
	)

	manifest := &dataset.Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	exec := executor.New(a.workers, a.generateInstance)
	manifest.Instances = exec.Execute(ctx, m.Instances)
	manifest.FinishedAt = time.Now().UTC()

	if err := dataset.WriteManifest(m.BaseDir, manifest); err != nil {
		return fmt.Errorf("failed to write sweep manifest: %w", err)
	}

	if a.cfg.Report {
		path := filepath.Join(m.BaseDir, report.FileName)
		if err := report.Write(path, manifest); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		a.logger.Info("Report rendered.", "path", path)
	}

	failed := manifest.Failed()
	a.logger.Info("🏁 Sweep finished.",
		"runID", manifest.RunID,
		"ok", len(manifest.Instances)-failed,
		"failed", failed,
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d instances failed", failed, len(manifest.Instances))
	}
	return nil
}

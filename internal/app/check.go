package app

import (
	"context"
	"fmt"

	"github.com/vk/mdpgridgo/internal/ctxlog"
	"github.com/vk/mdpgridgo/internal/dataset"
)

// runCheck validates every dataset directory under the check path, printing
// one summary per directory to the output writer. The run fails if any
// directory fails a check, so the exit code doubles as a CI gate.
func (a *App) runCheck(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Check mode started.", "path", a.cfg.CheckPath)

	v, err := dataset.NewValidator()
	if err != nil {
		return err
	}
	summaries, err := v.ValidateTree(a.cfg.CheckPath)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no dataset directories found under %s", a.cfg.CheckPath)
	}

	failed := 0
	for _, s := range summaries {
		fmt.Fprintln(a.outW, s.Render())
		if !s.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d dataset directories failed validation", failed, len(summaries))
	}

	logger.Info("All dataset directories valid.", "count", len(summaries))
	return nil
}

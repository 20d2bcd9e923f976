package executor

import (
	"context"
	"sync"
	"time"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/ctxlog"
	"github.com/vk/mdpgridgo/internal/dataset"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, jobs <-chan int, instances []config.Instance, outcomes []dataset.InstanceOutcome, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for i := range jobs {
		inst := instances[i]
		workerLogger := logger.With("workerID", workerID, "instance", inst.Key())

		if ctx.Err() != nil {
			workerLogger.Debug("Context cancelled, skipping instance.")
			outcomes[i] = dataset.InstanceOutcome{
				Dir:    inst.Key(),
				Status: dataset.StatusSkipped,
				Error:  ctx.Err().Error(),
			}
			continue
		}

		workerLogger.Debug("Worker picked up instance.")
		start := time.Now()
		outcome := e.run(ctx, inst)
		outcome.DurationMS = time.Since(start).Milliseconds()

		if outcome.Status == dataset.StatusFailed {
			workerLogger.Error("Instance generation failed.", "error", outcome.Error)
		} else {
			workerLogger.Debug("Instance generation succeeded.", "durationMs", outcome.DurationMS)
		}
		outcomes[i] = outcome
	}

	logger.Debug("Worker finished.", "workerID", workerID)
}

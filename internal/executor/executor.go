package executor

import (
	"context"
	"sync"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/dataset"
)

// RunFunc generates one instance and reports its manifest outcome.
type RunFunc func(ctx context.Context, inst config.Instance) dataset.InstanceOutcome

// Executor fans a sweep's instances out across a fixed pool of workers.
// Instances are independent, so there is no ordering between them; the
// outcome slice still mirrors the input order.
type Executor struct {
	workers int
	run     RunFunc
}

// New creates an executor with the given concurrency. Worker counts below
// one are clamped to one.
func New(workers int, run RunFunc) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{workers: workers, run: run}
}

// Execute runs every instance and returns one outcome per instance, in
// input order. A failed instance does not stop the others; cancelling ctx
// does, marking instances that never started as skipped.
func (e *Executor) Execute(ctx context.Context, instances []config.Instance) []dataset.InstanceOutcome {
	outcomes := make([]dataset.InstanceOutcome, len(instances))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for workerID := 0; workerID < e.workers; workerID++ {
		wg.Add(1)
		go e.worker(ctx, jobs, instances, outcomes, &wg, workerID)
	}

	// Workers keep draining after cancellation (marking jobs skipped), so
	// feeding every index here never blocks forever.
	for i := range instances {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/dataset"
	"github.com/vk/mdpgridgo/internal/mdp"
)

// fakeInstances builds n distinguishable instances; the state count doubles
// as the instance's identity.
func fakeInstances(n int) []config.Instance {
	instances := make([]config.Instance, n)
	for i := range instances {
		instances[i] = config.Instance{
			Grid: "test",
			Config: mdp.Config{
				NStates:        i + 1,
				NActions:       2,
				NRewards:       2,
				TransitionKind: mdp.TransitionSDet,
				RewardKind:     mdp.RewardS,
			},
			Settings: config.DefaultSettings(),
		}
	}
	return instances
}

func TestExecute_OutcomesMirrorInputOrder(t *testing.T) {
	instances := fakeInstances(20)
	run := func(ctx context.Context, inst config.Instance) dataset.InstanceOutcome {
		return dataset.InstanceOutcome{Dir: inst.Key(), Status: dataset.StatusOK}
	}

	for _, workers := range []int{1, 4, 32} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			outcomes := New(workers, run).Execute(context.Background(), instances)
			require.Len(t, outcomes, len(instances))
			for i, outcome := range outcomes {
				assert.Equal(t, instances[i].Key(), outcome.Dir)
				assert.Equal(t, dataset.StatusOK, outcome.Status)
			}
		})
	}
}

func TestExecute_FailureDoesNotStopTheSweep(t *testing.T) {
	instances := fakeInstances(5)
	run := func(ctx context.Context, inst config.Instance) dataset.InstanceOutcome {
		if inst.NStates == 3 {
			return dataset.InstanceOutcome{Dir: inst.Key(), Status: dataset.StatusFailed, Error: "boom"}
		}
		return dataset.InstanceOutcome{Dir: inst.Key(), Status: dataset.StatusOK}
	}

	outcomes := New(2, run).Execute(context.Background(), instances)
	require.Len(t, outcomes, 5)

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Status == dataset.StatusFailed {
			failed++
			assert.Equal(t, "boom", outcome.Error)
		} else {
			assert.Equal(t, dataset.StatusOK, outcome.Status)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestExecute_CancelledContextSkipsEverything(t *testing.T) {
	instances := fakeInstances(8)
	var ran atomic.Int32
	run := func(ctx context.Context, inst config.Instance) dataset.InstanceOutcome {
		ran.Add(1)
		return dataset.InstanceOutcome{Dir: inst.Key(), Status: dataset.StatusOK}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := New(4, run).Execute(ctx, instances)
	require.Len(t, outcomes, len(instances))
	for i, outcome := range outcomes {
		assert.Equal(t, dataset.StatusSkipped, outcome.Status, "instance %d", i)
		assert.Equal(t, context.Canceled.Error(), outcome.Error)
	}
	assert.Equal(t, int32(0), ran.Load())
}

func TestExecute_DurationIsRecorded(t *testing.T) {
	instances := fakeInstances(1)
	run := func(ctx context.Context, inst config.Instance) dataset.InstanceOutcome {
		return dataset.InstanceOutcome{Dir: inst.Key(), Status: dataset.StatusOK}
	}

	outcomes := New(1, run).Execute(context.Background(), instances)
	require.Len(t, outcomes, 1)
	assert.GreaterOrEqual(t, outcomes[0].DurationMS, int64(0))
}

func TestNew_ClampsWorkerCount(t *testing.T) {
	run := func(ctx context.Context, inst config.Instance) dataset.InstanceOutcome {
		return dataset.InstanceOutcome{Status: dataset.StatusOK}
	}

	// Zero and negative counts fall back to a single worker instead of
	// deadlocking on an empty pool.
	outcomes := New(0, run).Execute(context.Background(), fakeInstances(2))
	assert.Len(t, outcomes, 2)
	outcomes = New(-3, run).Execute(context.Background(), fakeInstances(2))
	assert.Len(t, outcomes, 2)
}

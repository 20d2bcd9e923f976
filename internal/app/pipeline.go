package app

import (
	"context"
	"hash/fnv"
	"path/filepath"

	"gonum.org/v1/gonum/stat"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/ctxlog"
	"github.com/vk/mdpgridgo/internal/dataset"
	"github.com/vk/mdpgridgo/internal/mdp"
	"github.com/vk/mdpgridgo/internal/rollout"
	"github.com/vk/mdpgridgo/internal/solve"
)

// generateInstance is the per-instance pipeline the executor fans out:
// synthesize the model, solve it, roll out the expert episode and the replay
// batch, then persist the artifact set. Any failure marks the instance
// failed in the manifest; the sweep carries on.
func (a *App) generateInstance(ctx context.Context, inst config.Instance) dataset.InstanceOutcome {
	logger := ctxlog.FromContext(ctx).With("instance", inst.Key())
	outcome := dataset.InstanceOutcome{Dir: inst.Key(), Status: dataset.StatusFailed}

	fail := func(err error) dataset.InstanceOutcome {
		outcome.Error = err.Error()
		return outcome
	}

	model, err := mdp.Generate(inst.Config, a.synthSeed(inst), inst.TerminalP)
	if err != nil {
		return fail(err)
	}

	policy, err := solve.Fit(inst.Solver, model, solve.Options{Gamma: inst.Gamma, Eps: inst.Eps})
	if err != nil {
		return fail(err)
	}
	outcome.SolveSweeps = policy.Sweeps
	logger.Debug("Policy solved.", "solver", inst.Solver, "sweeps", policy.Sweeps)

	expert, err := rollout.Run(model, policy.Actions, rollout.Options{
		MaxSteps: inst.MaxSteps,
		Seed:     a.model.Seed,
	})
	if err != nil {
		return fail(err)
	}
	outcome.TargetReturn = expert.Return()

	episodes, err := rollout.Batch(ctx, model, policy.Actions, rollout.BatchOptions{
		Options: rollout.Options{
			MaxSteps:     inst.MaxSteps,
			ExplorationP: inst.RandomPlayP,
			Seed:         a.model.Seed,
			ExplorerSeed: a.model.Seed,
		},
		NReplay: inst.NReplay,
		Workers: a.replayWorkers,
	})
	if err != nil {
		return fail(err)
	}
	outcome.Episodes = len(episodes)
	outcome.MeanReturn = meanReturn(episodes)

	minStep, maxStep := dataset.StepBounds(episodes, inst.MaxSteps)
	ds := &dataset.Dataset{
		Model: model,
		Metadata: dataset.Metadata{
			NStates:         inst.NStates,
			NActions:        inst.NActions,
			NRewards:        inst.NRewards,
			TargetReturn:    expert.Return(),
			DataMinStep:     minStep,
			DataMaxStep:     maxStep,
			TerminateStateP: inst.TerminalP,
			RandomPlayP:     inst.RandomPlayP,
			NReplay:         inst.NReplay,
		},
		Episodes: episodes,
	}
	if err := dataset.Write(filepath.Join(a.model.BaseDir, inst.Key()), ds); err != nil {
		return fail(err)
	}

	outcome.Status = dataset.StatusOK
	logger.Info("Instance generated.",
		"targetReturn", outcome.TargetReturn,
		"meanReturn", outcome.MeanReturn,
		"episodes", outcome.Episodes,
	)
	return outcome
}

// synthSeed derives the generation seed for one instance from the sweep seed
// and the instance key. Keying on the name rather than the expansion index
// means adding or reordering grid axes never changes the model any other
// instance gets.
func (a *App) synthSeed(inst config.Instance) uint64 {
	h := fnv.New64a()
	h.Write([]byte(inst.Key()))
	return a.model.Seed ^ h.Sum64()
}

func meanReturn(episodes []*rollout.Episode) float64 {
	if len(episodes) == 0 {
		return 0
	}
	returns := make([]float64, len(episodes))
	for i, ep := range episodes {
		returns[i] = ep.Return()
	}
	return stat.Mean(returns, nil)
}

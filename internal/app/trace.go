package app

import (
	"context"
	"fmt"

	"github.com/logrusorgru/aurora"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/ctxlog"
	"github.com/vk/mdpgridgo/internal/dataset"
	"github.com/vk/mdpgridgo/internal/rollout"
	"github.com/vk/mdpgridgo/internal/solve"
)

// runTrace loads one dataset directory, re-solves its model, and replays a
// single expert episode step by step to the output writer. It is a
// debugging aid: the colored trail makes it obvious when a policy circles a
// reward loop or walks straight into a terminal state.
//
// The replayed return matches the stored target_return when the trace seed
// and solver settings equal the generating sweep's.
func (a *App) runTrace(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Trace mode started.", "path", a.cfg.TracePath)

	ds, err := dataset.Load(a.cfg.TracePath)
	if err != nil {
		return err
	}

	defaults := config.DefaultSettings()
	policy, err := solve.Fit(defaults.Solver, ds.Model, solve.Options{Gamma: defaults.Gamma, Eps: defaults.Eps})
	if err != nil {
		return err
	}

	seed := a.cfg.Seed
	if seed == 0 {
		seed = config.DefaultSeed
	}
	ep, err := rollout.Run(ds.Model, policy.Actions, rollout.Options{
		MaxSteps: defaults.MaxSteps,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	cfg := ds.Model.Config()
	fmt.Fprintf(a.outW, "%s %s\n", aurora.Bold("tracing"), aurora.Bold(dataset.DirName(cfg)))
	fmt.Fprintf(a.outW, "solver=%s gamma=%v eps=%v seed=%d sweeps=%d\n",
		defaults.Solver, defaults.Gamma, defaults.Eps, seed, policy.Sweeps)

	for t := 0; t < ep.Len(); t++ {
		line := fmt.Sprintf("step %4d  state %3d  action %2d  reward %+.1f",
			ep.Times[t], ep.States[t], ep.Actions[t], ep.Rewards[t])
		switch {
		case ep.Rewards[t] > 0:
			fmt.Fprintln(a.outW, aurora.Green(line))
		case ep.Rewards[t] < 0:
			fmt.Fprintln(a.outW, aurora.Red(line))
		default:
			fmt.Fprintln(a.outW, aurora.Blue(line))
		}
	}

	// The episode does not store the successor of its last step; the model
	// is left standing on it after the replay.
	if ds.Model.Terminal(ds.Model.State()) {
		fmt.Fprintln(a.outW, aurora.Yellow("episode terminated"))
	} else {
		fmt.Fprintln(a.outW, aurora.Yellow("episode truncated at step cap"))
	}
	fmt.Fprintf(a.outW, "return %v (stored target_return %v)\n", ep.Return(), ds.Metadata.TargetReturn)
	return nil
}

package solve

import (
	"fmt"
	"math"

	"github.com/vk/mdpgridgo/internal/mdp"
)

// ValueIteration solves the model by sweeping Bellman optimality backups
// until the largest value change in a sweep drops to Eps or below. Updates
// are in place, so later states in a sweep see earlier states' new values.
func ValueIteration(m *mdp.Model, opts Options) (*Policy, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cfg := m.Config()
	k, r := m.Kernel(), m.Rewards()
	values := make([]float64, cfg.NStates)
	actions := make([]int, cfg.NStates)

	delta := math.Inf(1)
	for sweep := 1; sweep <= opts.MaxSweeps; sweep++ {
		delta = 0
		for s := 0; s < cfg.NStates; s++ {
			a, q := greedyAction(k, r, values, opts.Gamma, s, cfg.NActions)
			delta = math.Max(delta, math.Abs(q-values[s]))
			values[s], actions[s] = q, a
		}
		if delta <= opts.Eps {
			return &Policy{Actions: actions, Values: values, Sweeps: sweep}, nil
		}
	}
	return nil, fmt.Errorf("%w: value iteration delta %.3g after %d sweeps", ErrNotConverged, delta, opts.MaxSweeps)
}

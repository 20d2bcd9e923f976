package solve

import (
	"fmt"
	"math"

	"github.com/vk/mdpgridgo/internal/mdp"
)

// PolicyIteration solves the model by alternating policy evaluation and
// greedy improvement, stopping when an improvement pass leaves every action
// unchanged. Each evaluation runs to Eps under the current policy before the
// next improvement, so the loop terminates in a finite number of alternations
// on any finite instance.
func PolicyIteration(m *mdp.Model, opts Options) (*Policy, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cfg := m.Config()
	k, r := m.Kernel(), m.Rewards()
	values := make([]float64, cfg.NStates)
	actions := make([]int, cfg.NStates)

	for sweep := 1; sweep <= opts.MaxSweeps; sweep++ {
		if err := evaluate(k, r, cfg, actions, values, opts); err != nil {
			return nil, err
		}
		if improve(k, r, cfg, actions, values, opts.Gamma) {
			return &Policy{Actions: actions, Values: values, Sweeps: sweep}, nil
		}
	}
	return nil, fmt.Errorf("%w: policy iteration still improving after %d alternations", ErrNotConverged, opts.MaxSweeps)
}

// evaluate runs iterative policy evaluation in place until the largest value
// change drops to Eps or below.
func evaluate(k mdp.Kernel, r mdp.Rewards, cfg mdp.Config, actions []int, values []float64, opts Options) error {
	delta := math.Inf(1)
	for sweep := 1; sweep <= opts.MaxSweeps; sweep++ {
		delta = 0
		for s := 0; s < cfg.NStates; s++ {
			q := QValue(k, r, values, opts.Gamma, s, actions[s])
			delta = math.Max(delta, math.Abs(q-values[s]))
			values[s] = q
		}
		if delta <= opts.Eps {
			return nil
		}
	}
	return fmt.Errorf("%w: policy evaluation delta %.3g after %d sweeps", ErrNotConverged, delta, opts.MaxSweeps)
}

// improve makes actions greedy with respect to values and reports whether
// the policy is already stable.
func improve(k mdp.Kernel, r mdp.Rewards, cfg mdp.Config, actions []int, values []float64, gamma float64) bool {
	stable := true
	for s := 0; s < cfg.NStates; s++ {
		a, _ := greedyAction(k, r, values, gamma, s, cfg.NActions)
		if a != actions[s] {
			actions[s] = a
			stable = false
		}
	}
	return stable
}

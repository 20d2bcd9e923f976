package solve

import (
	"errors"
	"fmt"

	"github.com/vk/mdpgridgo/internal/mdp"
)

// ErrNotConverged reports that a solver hit its sweep cap before meeting its
// convergence criterion.
var ErrNotConverged = errors.New("solve: not converged")

// DefaultMaxSweeps caps solver sweeps when Options.MaxSweeps is zero. Dense
// random instances converge in far fewer sweeps at any sensible gamma; the
// cap exists so a gamma close to 1 fails loudly instead of spinning.
const DefaultMaxSweeps = 10000

// Options configure the dynamic-programming solvers.
type Options struct {
	// Gamma is the discount factor in [0, 1).
	Gamma float64
	// Eps is the convergence threshold on the max value change per sweep.
	Eps float64
	// MaxSweeps caps full state sweeps; zero means DefaultMaxSweeps.
	MaxSweeps int
}

func (o Options) withDefaults() Options {
	if o.MaxSweeps <= 0 {
		o.MaxSweeps = DefaultMaxSweeps
	}
	return o
}

func (o Options) validate() error {
	if o.Gamma < 0 || o.Gamma >= 1 {
		return fmt.Errorf("%w: gamma %v outside [0, 1)", mdp.ErrInvalidDimension, o.Gamma)
	}
	if o.Eps <= 0 {
		return fmt.Errorf("%w: eps %v must be positive", mdp.ErrInvalidDimension, o.Eps)
	}
	return nil
}

// Policy is a converged deterministic policy together with the state values
// it was read off from.
type Policy struct {
	// Actions[s] is the greedy action in state s. Ties break toward the
	// lowest action index.
	Actions []int
	// Values[s] is the estimated discounted return from state s.
	Values []float64
	// Sweeps counts outer iterations until convergence.
	Sweeps int
}

// QValue is the one-step lookahead both solvers share: the expected immediate
// reward of (s, a) plus the discounted value of the successor, taken over the
// kernel's successor distribution.
func QValue(k mdp.Kernel, r mdp.Rewards, values []float64, gamma float64, s, a int) float64 {
	return k.Expect(s, a, func(next int) float64 {
		return r.Mean(s, a, next) + gamma*values[next]
	})
}

// greedyAction returns the argmax over actions of QValue in state s, breaking
// ties toward the lowest index, along with the max itself.
func greedyAction(k mdp.Kernel, r mdp.Rewards, values []float64, gamma float64, s, nActions int) (int, float64) {
	bestA, bestQ := 0, QValue(k, r, values, gamma, s, 0)
	for a := 1; a < nActions; a++ {
		if q := QValue(k, r, values, gamma, s, a); q > bestQ {
			bestA, bestQ = a, q
		}
	}
	return bestA, bestQ
}

// Fit runs the named algorithm over the model: "vi" for value iteration,
// "pi" for policy iteration.
func Fit(algorithm string, m *mdp.Model, opts Options) (*Policy, error) {
	switch algorithm {
	case "vi":
		return ValueIteration(m, opts)
	case "pi":
		return PolicyIteration(m, opts)
	default:
		return nil, fmt.Errorf("unknown solver %q (want \"vi\" or \"pi\")", algorithm)
	}
}

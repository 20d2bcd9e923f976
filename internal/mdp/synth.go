package mdp

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthesizer draws the random components of an instance from one seeded
// generator. Identical seeds reproduce identical kernels, tables and flags;
// the draw order is fixed, so callers must generate components in a stable
// order to stay reproducible.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer returns a synthesizer backed by a fresh PCG source.
func NewSynthesizer(seed uint64) *Synthesizer {
	return &Synthesizer{rng: rand.New(rand.NewSource(seed))}
}

// TerminalFlags draws one Bernoulli(p) flag per state. No state is forced
// either way; with small p an instance may have no terminal state at all,
// in which case episodes run to their step cap.
func (g *Synthesizer) TerminalFlags(nStates int, p float64) ([]bool, error) {
	if nStates <= 0 {
		return nil, fmt.Errorf("%w: n_states %d", ErrInvalidDimension, nStates)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: terminal probability %v outside [0, 1]", ErrInvalidDimension, p)
	}
	coin := distuv.Bernoulli{P: p, Src: g.rng}
	flags := make([]bool, nStates)
	for s := range flags {
		flags[s] = coin.Rand() == 1
	}
	return flags, nil
}

// Transitions builds a random kernel of the given kind. Deterministic kinds
// draw uniform successors; probabilistic kinds draw dense normalized rows.
func (g *Synthesizer) Transitions(kind TransitionKind, nStates, nActions int) (Kernel, error) {
	if nStates <= 0 {
		return nil, fmt.Errorf("%w: n_states %d", ErrInvalidDimension, nStates)
	}
	if nActions <= 0 {
		return nil, fmt.Errorf("%w: n_actions %d", ErrInvalidDimension, nActions)
	}

	switch kind {
	case TransitionSDet:
		next := make([]int, nStates)
		for s := range next {
			next[s] = g.rng.Intn(nStates)
		}
		return &SDetKernel{Next: next}, nil

	case TransitionSProb:
		rows := make([][]float64, nStates)
		for s := range rows {
			rows[s] = g.distribution(nStates, nil)
		}
		return &SProbKernel{Rows: rows}, nil

	case TransitionSADet:
		next := make([][]int, nStates)
		for s := range next {
			next[s] = make([]int, nActions)
			for a := range next[s] {
				next[s][a] = g.rng.Intn(nStates)
			}
		}
		return &SADetKernel{Next: next}, nil

	case TransitionSAProb:
		return &SAProbKernel{Rows: g.transitionRows(nStates, nActions)}, nil

	case TransitionSAS:
		return &SASKernel{P: g.transitionRows(nStates, nActions)}, nil

	default:
		return nil, fmt.Errorf("%w: transition kind %d", ErrUnsupportedKind, int(kind))
	}
}

func (g *Synthesizer) transitionRows(nStates, nActions int) [][][]float64 {
	rows := make([][][]float64, nStates)
	for s := range rows {
		rows[s] = make([][]float64, nActions)
		for a := range rows[s] {
			rows[s][a] = g.distribution(nStates, nil)
		}
	}
	return rows
}

// RewardTable builds a random reward table of the given kind over values.
// Cells whose transitions tend to terminate are biased toward the high end
// of the value set, so reaching a terminal state usually pays off and the
// optimal policy has something to chase.
//
// A scalar cell is terminal-leaning when the terminal mass of its kernel row
// exceeds 0.5 (for state-only tables, the mean over actions). Leaning cells
// draw the value index from a categorical with linearly increasing weights;
// other cells draw uniformly. Distribution rows lean per successor: rows
// ending in a terminal state get their raw draws multiplied by the same ramp
// before normalization.
func (g *Synthesizer) RewardTable(kind RewardKind, nStates, nActions int, terminal []bool, kernel Kernel, values []float64) (Rewards, error) {
	if nStates <= 0 {
		return nil, fmt.Errorf("%w: n_states %d", ErrInvalidDimension, nStates)
	}
	if nActions <= 0 {
		return nil, fmt.Errorf("%w: n_actions %d", ErrInvalidDimension, nActions)
	}
	if len(terminal) != nStates {
		return nil, fmt.Errorf("%w: %d terminal flags for %d states", ErrInvalidDimension, len(terminal), nStates)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: reward value set of size %d", ErrInvalidDimension, len(values))
	}
	if kernel == nil {
		return nil, fmt.Errorf("%w: nil kernel", ErrNotInitialized)
	}

	ramp := distuv.NewCategorical(rampWeights(len(values)), g.rng)

	switch kind {
	case RewardS:
		table := make([]float64, nStates)
		for s := range table {
			mass := 0.0
			for a := 0; a < nActions; a++ {
				mass += terminalMass(kernel, terminal, s, a)
			}
			table[s] = g.scalarReward(values, ramp, mass/float64(nActions) > 0.5)
		}
		return &SRewards{R: table}, nil

	case RewardSA:
		table := make([][]float64, nStates)
		for s := range table {
			table[s] = make([]float64, nActions)
			for a := range table[s] {
				leaning := terminalMass(kernel, terminal, s, a) > 0.5
				table[s][a] = g.scalarReward(values, ramp, leaning)
			}
		}
		return &SARewards{R: table}, nil

	case RewardSAS:
		table := make([][][]float64, nStates)
		for s := range table {
			table[s] = make([][]float64, nActions)
			for a := range table[s] {
				table[s][a] = make([]float64, nStates)
				for next := range table[s][a] {
					table[s][a][next] = g.scalarReward(values, ramp, terminal[next])
				}
			}
		}
		return &SASRewards{R: table}, nil

	case RewardSASR:
		dist := make([][][][]float64, nStates)
		for s := range dist {
			dist[s] = make([][][]float64, nActions)
			for a := range dist[s] {
				dist[s][a] = make([][]float64, nStates)
				for next := range dist[s][a] {
					var weights []float64
					if terminal[next] {
						weights = rampWeights(len(values))
					}
					dist[s][a][next] = g.distribution(len(values), weights)
				}
			}
		}
		return &SASRRewards{Values: append([]float64(nil), values...), P: dist}, nil

	default:
		return nil, fmt.Errorf("%w: reward kind %d", ErrUnsupportedKind, int(kind))
	}
}

// distribution draws a normalized probability vector of length n. When scale
// is non-nil its entries multiply the raw draws before normalization.
func (g *Synthesizer) distribution(n int, scale []float64) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = g.rng.Float64()
		if scale != nil {
			row[i] *= scale[i]
		}
	}
	// Float64 draws are in [0, 1), so an all-zero row is not a practical
	// concern; guard anyway to keep the invariant unconditional.
	if sum := floats.Sum(row); sum > 0 {
		floats.Scale(1/sum, row)
	} else {
		for i := range row {
			row[i] = 1 / float64(n)
		}
	}
	return row
}

func (g *Synthesizer) scalarReward(values []float64, ramp distuv.Categorical, leaning bool) float64 {
	if leaning {
		return values[int(ramp.Rand())]
	}
	return values[g.rng.Intn(len(values))]
}

// rampWeights returns linearly increasing weights 1..n, favoring the top of
// an ascending value set.
func rampWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = float64(i + 1)
	}
	return w
}

// terminalMass is the probability that the successor of (s, a) is terminal.
func terminalMass(k Kernel, terminal []bool, s, a int) float64 {
	return k.Expect(s, a, func(next int) float64 {
		if terminal[next] {
			return 1
		}
		return 0
	})
}

package mdp

import (
	"golang.org/x/exp/rand"
)

// Kernel is the transition function of a finite MDP. Each implementation
// carries only the data its variant needs; the interface hides the shape so
// samplers and solvers never switch on kind.
type Kernel interface {
	Kind() TransitionKind

	// Sample draws the successor of (s, a) from the kernel using rng.
	// Deterministic variants ignore rng.
	Sample(rng *rand.Rand, s, a int) int

	// Expect computes the expectation of f over the successor distribution
	// of (s, a). Deterministic variants have fan-out one.
	Expect(s, a int, f func(next int) float64) float64
}

// sampleIndex draws an index from a probability vector by CDF inversion.
// Rows are normalized at generation time; the final index absorbs any
// floating point shortfall.
func sampleIndex(rng *rand.Rand, probs []float64) int {
	u := rng.Float64()
	cum := 0.0
	for i, p := range probs {
		cum += p
		if u < cum {
			return i
		}
	}
	return len(probs) - 1
}

// SDetKernel maps every state to one fixed successor regardless of action.
type SDetKernel struct {
	Next []int // Next[s]
}

func (k *SDetKernel) Kind() TransitionKind { return TransitionSDet }

func (k *SDetKernel) Sample(_ *rand.Rand, s, _ int) int { return k.Next[s] }

func (k *SDetKernel) Expect(s, _ int, f func(int) float64) float64 { return f(k.Next[s]) }

// SProbKernel maps every state to one successor distribution regardless of
// action.
type SProbKernel struct {
	Rows [][]float64 // Rows[s][next]
}

func (k *SProbKernel) Kind() TransitionKind { return TransitionSProb }

func (k *SProbKernel) Sample(rng *rand.Rand, s, _ int) int {
	return sampleIndex(rng, k.Rows[s])
}

func (k *SProbKernel) Expect(s, _ int, f func(int) float64) float64 {
	return expectRow(k.Rows[s], f)
}

// SADetKernel maps every state-action pair to one fixed successor.
type SADetKernel struct {
	Next [][]int // Next[s][a]
}

func (k *SADetKernel) Kind() TransitionKind { return TransitionSADet }

func (k *SADetKernel) Sample(_ *rand.Rand, s, a int) int { return k.Next[s][a] }

func (k *SADetKernel) Expect(s, a int, f func(int) float64) float64 { return f(k.Next[s][a]) }

// SAProbKernel maps every state-action pair to a successor distribution.
type SAProbKernel struct {
	Rows [][][]float64 // Rows[s][a][next]
}

func (k *SAProbKernel) Kind() TransitionKind { return TransitionSAProb }

func (k *SAProbKernel) Sample(rng *rand.Rand, s, a int) int {
	return sampleIndex(rng, k.Rows[s][a])
}

func (k *SAProbKernel) Expect(s, a int, f func(int) float64) float64 {
	return expectRow(k.Rows[s][a], f)
}

// SASKernel stores the full transition tensor P[s][a][next]. Structurally it
// samples like SAProbKernel; it exists as its own variant to preserve the
// declared kind through serialization.
type SASKernel struct {
	P [][][]float64 // P[s][a][next]
}

func (k *SASKernel) Kind() TransitionKind { return TransitionSAS }

func (k *SASKernel) Sample(rng *rand.Rand, s, a int) int {
	return sampleIndex(rng, k.P[s][a])
}

func (k *SASKernel) Expect(s, a int, f func(int) float64) float64 {
	return expectRow(k.P[s][a], f)
}

func expectRow(row []float64, f func(int) float64) float64 {
	sum := 0.0
	for next, p := range row {
		if p == 0 {
			continue
		}
		sum += p * f(next)
	}
	return sum
}

package mdp

import (
	"golang.org/x/exp/rand"
)

// Rewards is the reward function of a finite MDP over a fixed value set.
// Scalar variants return the stored value from both Sample and Mean; the
// distributional variant draws from a per-transition categorical.
type Rewards interface {
	Kind() RewardKind

	// Sample draws the immediate reward of the transition (s, a, next).
	Sample(rng *rand.Rand, s, a, next int) float64

	// Mean is the expected immediate reward of (s, a, next). Solvers use it
	// in place of sampling.
	Mean(s, a, next int) float64
}

// SRewards assigns one scalar reward per state.
type SRewards struct {
	R []float64 // R[s]
}

func (r *SRewards) Kind() RewardKind { return RewardS }

func (r *SRewards) Sample(_ *rand.Rand, s, _, _ int) float64 { return r.R[s] }

func (r *SRewards) Mean(s, _, _ int) float64 { return r.R[s] }

// SARewards assigns one scalar reward per state-action pair.
type SARewards struct {
	R [][]float64 // R[s][a]
}

func (r *SARewards) Kind() RewardKind { return RewardSA }

func (r *SARewards) Sample(_ *rand.Rand, s, a, _ int) float64 { return r.R[s][a] }

func (r *SARewards) Mean(s, a, _ int) float64 { return r.R[s][a] }

// SASRewards assigns one scalar reward per transition.
type SASRewards struct {
	R [][][]float64 // R[s][a][next]
}

func (r *SASRewards) Kind() RewardKind { return RewardSAS }

func (r *SASRewards) Sample(_ *rand.Rand, s, a, next int) float64 { return r.R[s][a][next] }

func (r *SASRewards) Mean(s, a, next int) float64 { return r.R[s][a][next] }

// SASRRewards assigns every transition a distribution over the reward value
// set. Values is ascending and shared by all transitions.
type SASRRewards struct {
	Values []float64       // ascending reward value set
	P      [][][][]float64 // P[s][a][next][value index]
}

func (r *SASRRewards) Kind() RewardKind { return RewardSASR }

func (r *SASRRewards) Sample(rng *rand.Rand, s, a, next int) float64 {
	return r.Values[sampleIndex(rng, r.P[s][a][next])]
}

func (r *SASRRewards) Mean(s, a, next int) float64 {
	mean := 0.0
	for i, p := range r.P[s][a][next] {
		mean += p * r.Values[i]
	}
	return mean
}

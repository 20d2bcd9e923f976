package mdp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestSynthesizer_SameSeedSameDraws(t *testing.T) {
	build := func() ([]bool, Kernel, Rewards) {
		g := NewSynthesizer(11)
		flags, err := g.TerminalFlags(6, 0.3)
		require.NoError(t, err)
		kernel, err := g.Transitions(TransitionSAProb, 6, 3)
		require.NoError(t, err)
		rewards, err := g.RewardTable(RewardSASR, 6, 3, flags, kernel, RewardValues(3))
		require.NoError(t, err)
		return flags, kernel, rewards
	}

	flagsA, kernelA, rewardsA := build()
	flagsB, kernelB, rewardsB := build()

	if diff := cmp.Diff(flagsA, flagsB); diff != "" {
		t.Errorf("terminal flags mismatch (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(kernelA, kernelB); diff != "" {
		t.Errorf("kernel mismatch (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(rewardsA, rewardsB); diff != "" {
		t.Errorf("reward table mismatch (-a +b):\n%s", diff)
	}
}

func TestSynthesizer_TerminalFlags(t *testing.T) {
	t.Run("probability bounds are inclusive", func(t *testing.T) {
		g := NewSynthesizer(1)

		none, err := g.TerminalFlags(50, 0)
		require.NoError(t, err)
		for s, flag := range none {
			assert.False(t, flag, "state %d terminal at p=0", s)
		}

		all, err := g.TerminalFlags(50, 1)
		require.NoError(t, err)
		for s, flag := range all {
			assert.True(t, flag, "state %d not terminal at p=1", s)
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		g := NewSynthesizer(1)

		_, err := g.TerminalFlags(0, 0.5)
		assert.ErrorIs(t, err, ErrInvalidDimension)

		_, err = g.TerminalFlags(3, -0.1)
		assert.ErrorIs(t, err, ErrInvalidDimension)

		_, err = g.TerminalFlags(3, 1.5)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})
}

func TestSynthesizer_TransitionShapes(t *testing.T) {
	const nStates, nActions = 5, 3

	checkRow := func(t *testing.T, row []float64) {
		t.Helper()
		require.Len(t, row, nStates)
		assert.InDelta(t, 1.0, floats.Sum(row), 1e-9)
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
		}
	}

	g := NewSynthesizer(99)

	t.Run("s_det", func(t *testing.T) {
		kernel, err := g.Transitions(TransitionSDet, nStates, nActions)
		require.NoError(t, err)
		k := kernel.(*SDetKernel)
		require.Len(t, k.Next, nStates)
		for _, next := range k.Next {
			assert.GreaterOrEqual(t, next, 0)
			assert.Less(t, next, nStates)
		}
	})

	t.Run("s_prob", func(t *testing.T) {
		kernel, err := g.Transitions(TransitionSProb, nStates, nActions)
		require.NoError(t, err)
		k := kernel.(*SProbKernel)
		require.Len(t, k.Rows, nStates)
		for _, row := range k.Rows {
			checkRow(t, row)
		}
	})

	t.Run("sa_det", func(t *testing.T) {
		kernel, err := g.Transitions(TransitionSADet, nStates, nActions)
		require.NoError(t, err)
		k := kernel.(*SADetKernel)
		require.Len(t, k.Next, nStates)
		for _, byAction := range k.Next {
			require.Len(t, byAction, nActions)
			for _, next := range byAction {
				assert.GreaterOrEqual(t, next, 0)
				assert.Less(t, next, nStates)
			}
		}
	})

	t.Run("sa_prob", func(t *testing.T) {
		kernel, err := g.Transitions(TransitionSAProb, nStates, nActions)
		require.NoError(t, err)
		k := kernel.(*SAProbKernel)
		require.Len(t, k.Rows, nStates)
		for _, byAction := range k.Rows {
			require.Len(t, byAction, nActions)
			for _, row := range byAction {
				checkRow(t, row)
			}
		}
	})

	t.Run("sas", func(t *testing.T) {
		kernel, err := g.Transitions(TransitionSAS, nStates, nActions)
		require.NoError(t, err)
		k := kernel.(*SASKernel)
		require.Len(t, k.P, nStates)
		for _, byAction := range k.P {
			require.Len(t, byAction, nActions)
			for _, row := range byAction {
				checkRow(t, row)
			}
		}
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, err := g.Transitions(TransitionSDet, 0, 1)
		assert.ErrorIs(t, err, ErrInvalidDimension)
		_, err = g.Transitions(TransitionSDet, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidDimension)
		_, err = g.Transitions(TransitionKind(9), 2, 2)
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})
}

func TestSynthesizer_RewardTables(t *testing.T) {
	const nStates, nActions = 4, 2
	values := RewardValues(3)

	inValueSet := func(t *testing.T, r float64) {
		t.Helper()
		assert.Contains(t, values, r)
	}

	g := NewSynthesizer(5)
	terminal, err := g.TerminalFlags(nStates, 0.5)
	require.NoError(t, err)
	kernel, err := g.Transitions(TransitionSAProb, nStates, nActions)
	require.NoError(t, err)

	t.Run("s", func(t *testing.T) {
		rewards, err := g.RewardTable(RewardS, nStates, nActions, terminal, kernel, values)
		require.NoError(t, err)
		table := rewards.(*SRewards)
		require.Len(t, table.R, nStates)
		for _, r := range table.R {
			inValueSet(t, r)
		}
	})

	t.Run("sa", func(t *testing.T) {
		rewards, err := g.RewardTable(RewardSA, nStates, nActions, terminal, kernel, values)
		require.NoError(t, err)
		table := rewards.(*SARewards)
		require.Len(t, table.R, nStates)
		for _, row := range table.R {
			require.Len(t, row, nActions)
			for _, r := range row {
				inValueSet(t, r)
			}
		}
	})

	t.Run("sas", func(t *testing.T) {
		rewards, err := g.RewardTable(RewardSAS, nStates, nActions, terminal, kernel, values)
		require.NoError(t, err)
		table := rewards.(*SASRewards)
		require.Len(t, table.R, nStates)
		for _, plane := range table.R {
			require.Len(t, plane, nActions)
			for _, row := range plane {
				require.Len(t, row, nStates)
				for _, r := range row {
					inValueSet(t, r)
				}
			}
		}
	})

	t.Run("sasr", func(t *testing.T) {
		rewards, err := g.RewardTable(RewardSASR, nStates, nActions, terminal, kernel, values)
		require.NoError(t, err)
		table := rewards.(*SASRRewards)
		if diff := cmp.Diff(values, table.Values); diff != "" {
			t.Errorf("value set mismatch (-want +got):\n%s", diff)
		}
		require.Len(t, table.P, nStates)
		for _, plane := range table.P {
			require.Len(t, plane, nActions)
			for _, byNext := range plane {
				require.Len(t, byNext, nStates)
				for _, row := range byNext {
					require.Len(t, row, len(values))
					assert.InDelta(t, 1.0, floats.Sum(row), 1e-9)
				}
			}
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := g.RewardTable(RewardS, nStates, nActions, terminal[:2], kernel, values)
		assert.ErrorIs(t, err, ErrInvalidDimension)

		_, err = g.RewardTable(RewardS, nStates, nActions, terminal, nil, values)
		assert.ErrorIs(t, err, ErrNotInitialized)

		_, err = g.RewardTable(RewardS, nStates, nActions, terminal, kernel, values[:1])
		assert.ErrorIs(t, err, ErrInvalidDimension)

		_, err = g.RewardTable(RewardKind(9), nStates, nActions, terminal, kernel, values)
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})
}

func TestDistribution_ScaleZeroFallsBackToUniform(t *testing.T) {
	g := NewSynthesizer(1)
	row := g.distribution(4, []float64{0, 0, 0, 0})
	if diff := cmp.Diff([]float64{0.25, 0.25, 0.25, 0.25}, row); diff != "" {
		t.Errorf("fallback row mismatch (-want +got):\n%s", diff)
	}
}

func TestRampWeights(t *testing.T) {
	if diff := cmp.Diff([]float64{1, 2, 3}, rampWeights(3)); diff != "" {
		t.Errorf("ramp mismatch (-want +got):\n%s", diff)
	}
}

package mdp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionKind_Codes(t *testing.T) {
	kinds := []TransitionKind{TransitionSDet, TransitionSProb, TransitionSADet, TransitionSAProb, TransitionSAS}
	codes := []string{"s_det", "s_prob", "sa_det", "sa_prob", "sas"}

	for i, kind := range kinds {
		assert.True(t, kind.Valid())
		assert.Equal(t, codes[i], kind.String())

		parsed, err := ParseTransitionKind(codes[i])
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestTransitionKind_Unknown(t *testing.T) {
	_, err := ParseTransitionKind("markov")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	assert.ErrorContains(t, err, "markov")

	bogus := TransitionKind(99)
	assert.False(t, bogus.Valid())
	assert.Equal(t, "transition(99)", bogus.String())
}

func TestRewardKind_Codes(t *testing.T) {
	kinds := []RewardKind{RewardS, RewardSA, RewardSAS, RewardSASR}
	codes := []string{"s", "sa", "sas", "sasr"}

	for i, kind := range kinds {
		assert.True(t, kind.Valid())
		assert.Equal(t, codes[i], kind.String())

		parsed, err := ParseRewardKind(codes[i])
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestRewardKind_Unknown(t *testing.T) {
	_, err := ParseRewardKind("sars")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	bogus := RewardKind(7)
	assert.False(t, bogus.Valid())
	assert.Equal(t, "reward(7)", bogus.String())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		NStates:        3,
		NActions:       2,
		NRewards:       2,
		TransitionKind: TransitionSADet,
		RewardKind:     RewardSA,
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "zero states",
			mutate:  func(c *Config) { c.NStates = 0 },
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "negative actions",
			mutate:  func(c *Config) { c.NActions = -1 },
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "single reward value",
			mutate:  func(c *Config) { c.NRewards = 1 },
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "unknown transition kind",
			mutate:  func(c *Config) { c.TransitionKind = TransitionKind(42) },
			wantErr: ErrUnsupportedKind,
		},
		{
			name:    "unknown reward kind",
			mutate:  func(c *Config) { c.RewardKind = RewardKind(42) },
			wantErr: ErrUnsupportedKind,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRewardValues(t *testing.T) {
	// The set is ascending, ends at 1, and its second-highest entry is 0.
	if diff := cmp.Diff([]float64{0, 1}, RewardValues(2)); diff != "" {
		t.Errorf("RewardValues(2) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{-3, -2, -1, 0, 1}, RewardValues(5)); diff != "" {
		t.Errorf("RewardValues(5) mismatch (-want +got):\n%s", diff)
	}
}

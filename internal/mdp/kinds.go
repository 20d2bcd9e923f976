package mdp

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes of model construction and stepping.
var (
	ErrInvalidDimension = errors.New("mdp: invalid dimension")
	ErrInvalidAction    = errors.New("mdp: invalid action")
	ErrUnsupportedKind  = errors.New("mdp: unsupported kind")
	ErrNotInitialized   = errors.New("mdp: model not initialized")
)

// TransitionKind selects the structural variant of a transition kernel.
type TransitionKind int

const (
	// TransitionSDet maps state -> next state, ignoring the action.
	TransitionSDet TransitionKind = iota
	// TransitionSProb maps state -> distribution over next states.
	TransitionSProb
	// TransitionSADet maps (state, action) -> next state.
	TransitionSADet
	// TransitionSAProb maps (state, action) -> distribution over next states.
	TransitionSAProb
	// TransitionSAS is the full (state, action, next state) -> probability tensor.
	TransitionSAS
)

var transitionCodes = map[TransitionKind]string{
	TransitionSDet:   "s_det",
	TransitionSProb:  "s_prob",
	TransitionSADet:  "sa_det",
	TransitionSAProb: "sa_prob",
	TransitionSAS:    "sas",
}

// String returns the stable short code used in directory names and JSON.
func (k TransitionKind) String() string {
	if code, ok := transitionCodes[k]; ok {
		return code
	}
	return fmt.Sprintf("transition(%d)", int(k))
}

// Valid reports whether k names a known kernel variant.
func (k TransitionKind) Valid() bool {
	_, ok := transitionCodes[k]
	return ok
}

// ParseTransitionKind resolves a short code back to its kind.
func ParseTransitionKind(code string) (TransitionKind, error) {
	for k, c := range transitionCodes {
		if c == code {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: transition kind %q", ErrUnsupportedKind, code)
}

// RewardKind selects the structural variant of a reward table.
type RewardKind int

const (
	// RewardS maps state -> scalar reward.
	RewardS RewardKind = iota
	// RewardSA maps (state, action) -> scalar reward.
	RewardSA
	// RewardSAS maps (state, action, next state) -> scalar reward.
	RewardSAS
	// RewardSASR maps (state, action, next state) -> distribution over the
	// reward value set.
	RewardSASR
)

var rewardCodes = map[RewardKind]string{
	RewardS:    "s",
	RewardSA:   "sa",
	RewardSAS:  "sas",
	RewardSASR: "sasr",
}

// String returns the stable short code used in directory names and JSON.
func (k RewardKind) String() string {
	if code, ok := rewardCodes[k]; ok {
		return code
	}
	return fmt.Sprintf("reward(%d)", int(k))
}

// Valid reports whether k names a known table variant.
func (k RewardKind) Valid() bool {
	_, ok := rewardCodes[k]
	return ok
}

// ParseRewardKind resolves a short code back to its kind.
func ParseRewardKind(code string) (RewardKind, error) {
	for k, c := range rewardCodes {
		if c == code {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: reward kind %q", ErrUnsupportedKind, code)
}

// Config is the immutable descriptor of one synthetic MDP instance. Kinds are
// fixed at construction and never change.
type Config struct {
	NStates        int
	NActions       int
	NRewards       int
	TransitionKind TransitionKind
	RewardKind     RewardKind
}

// Validate checks dimensions and kind values.
func (c Config) Validate() error {
	if c.NStates <= 0 {
		return fmt.Errorf("%w: n_states %d", ErrInvalidDimension, c.NStates)
	}
	if c.NActions <= 0 {
		return fmt.Errorf("%w: n_actions %d", ErrInvalidDimension, c.NActions)
	}
	if c.NRewards < 2 {
		return fmt.Errorf("%w: n_rewards %d (need at least 2)", ErrInvalidDimension, c.NRewards)
	}
	if !c.TransitionKind.Valid() {
		return fmt.Errorf("%w: transition kind %d", ErrUnsupportedKind, int(c.TransitionKind))
	}
	if !c.RewardKind.Valid() {
		return fmt.Errorf("%w: reward kind %d", ErrUnsupportedKind, int(c.RewardKind))
	}
	return nil
}

// RewardValues returns the ascending reward value set {-n+2, ..., 0, 1}
// of size n. The set is fixed at generation time.
func RewardValues(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i - n + 2)
	}
	return values
}

package dataset

import (
	"fmt"

	"github.com/vk/mdpgridgo/internal/mdp"
	"github.com/vk/mdpgridgo/internal/rollout"
)

// Artifact file names inside an instance directory.
const (
	ModelFileName    = "model.json"
	MetadataFileName = "metadata.json"
	DataFileName     = "data.json"
)

// Metadata mirrors metadata.json: the instance dimensions plus the summary
// of the collected replays.
type Metadata struct {
	NStates  int `json:"n_states"`
	NActions int `json:"n_actions"`
	NRewards int `json:"n_rewards"`

	// TargetReturn is the return of the single expert rollout.
	TargetReturn float64 `json:"target_return"`
	// DataMinStep and DataMaxStep bound the final timestep index over the
	// replays. With no replays they keep their initial (max_steps, 0).
	DataMinStep int `json:"data_min_step"`
	DataMaxStep int `json:"data_max_step"`

	TerminateStateP float64 `json:"terminate_state_p"`
	RandomPlayP     float64 `json:"random_play_p"`
	NReplay         int     `json:"n_replay"`
}

// Dataset is one instance's complete artifact set.
type Dataset struct {
	Model    *mdp.Model
	Metadata Metadata
	Episodes []*rollout.Episode
}

// DirName returns the canonical instance directory name, built from the
// dimensions and the two kind codes, e.g. "S10_A2_R2_Tsa_det_Rsas".
func DirName(cfg mdp.Config) string {
	return fmt.Sprintf("S%d_A%d_R%d_T%s_R%s",
		cfg.NStates, cfg.NActions, cfg.NRewards, cfg.TransitionKind, cfg.RewardKind)
}

// StepBounds returns the (min, max) final timestep index over episodes. The
// bounds start at (maxSteps, 0), so an empty batch returns them untouched.
func StepBounds(episodes []*rollout.Episode, maxSteps int) (minStep, maxStep int) {
	minStep, maxStep = maxSteps, 0
	for _, ep := range episodes {
		last := ep.LastStep()
		if last < minStep {
			minStep = last
		}
		if last > maxStep {
			maxStep = last
		}
	}
	return minStep, maxStep
}

package config

import (
	"github.com/vk/mdpgridgo/internal/dataset"
	"github.com/vk/mdpgridgo/internal/mdp"
)

// DefaultSeed seeds a sweep that does not declare one.
const DefaultSeed = 42

// Model is the unified, format-agnostic representation of one sweep: where
// artifacts go, how randomness is seeded, and the fully expanded list of
// instances to generate.
type Model struct {
	BaseDir   string
	Seed      uint64
	Workers   int
	Instances []Instance
}

// Settings are the per-instance solver and rollout knobs. A sweep sets them
// once; grids may override them.
type Settings struct {
	Solver      string
	Gamma       float64
	Eps         float64
	MaxSteps    int
	NReplay     int
	RandomPlayP float64
	TerminalP   float64
}

// DefaultSettings returns the sweep-level defaults.
func DefaultSettings() Settings {
	return Settings{
		Solver:      "vi",
		Gamma:       0.99,
		Eps:         1e-3,
		MaxSteps:    1000,
		NReplay:     100,
		RandomPlayP: 0.1,
		TerminalP:   0.1,
	}
}

// Instance is one fully resolved cell of a sweep: the instance shape plus
// the settings in force for it.
type Instance struct {
	// Grid is the label of the grid block this instance expanded from.
	Grid string

	mdp.Config
	Settings
}

// Key identifies the instance within its sweep. It doubles as the dataset
// directory name, which is what makes duplicate cells an error.
func (i Instance) Key() string {
	return dataset.DirName(i.Config)
}

// GridSpec is one grid block after translation: named axes plus the merged
// settings. Expand turns a list of these into instances.
type GridSpec struct {
	Name        string
	States      []int
	Actions     []int
	Rewards     []int
	Transitions []mdp.TransitionKind
	RewardKinds []mdp.RewardKind
	Settings    Settings
}

// Expand builds the cross product of every grid's five axes, preserving
// declaration order: grids in file order, axes varying slowest to fastest in
// the order states, actions, rewards, transitions, reward kinds.
func Expand(grids []GridSpec) []Instance {
	var instances []Instance
	for _, g := range grids {
		for _, s := range g.States {
			for _, a := range g.Actions {
				for _, r := range g.Rewards {
					for _, tk := range g.Transitions {
						for _, rk := range g.RewardKinds {
							instances = append(instances, Instance{
								Grid: g.Name,
								Config: mdp.Config{
									NStates:        s,
									NActions:       a,
									NRewards:       r,
									TransitionKind: tk,
									RewardKind:     rk,
								},
								Settings: g.Settings,
							})
						}
					}
				}
			}
		}
	}
	return instances
}

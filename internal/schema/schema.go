package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Sweep File Structures ---

// SweepFile represents the top-level structure of a user's sweep file.
type SweepFile struct {
	Sweep *Sweep   `hcl:"sweep,block"`
	Body  hcl.Body `hcl:",remain"`
}

// Sweep represents the single `sweep` block: output location, seeding,
// sweep-wide settings and the grid blocks to expand.
//
// Seed stays an unevaluated expression here; the loader converts it through
// cty so the full uint64 seed space is accepted.
type Sweep struct {
	BaseDir string         `hcl:"base_dir"`
	Seed    hcl.Expression `hcl:"seed,optional"`
	Workers *int           `hcl:"workers,optional"`

	Solver      *string  `hcl:"solver,optional"`
	Gamma       *float64 `hcl:"gamma,optional"`
	Eps         *float64 `hcl:"eps,optional"`
	MaxSteps    *int     `hcl:"max_steps,optional"`
	NReplay     *int     `hcl:"n_replay,optional"`
	RandomPlayP *float64 `hcl:"random_play_p,optional"`
	TerminalP   *float64 `hcl:"terminal_p,optional"`

	Grids []*Grid `hcl:"grid,block"`
}

// Grid represents a `grid` block. Its five list attributes are the axes of a
// cross product; every combination becomes one instance. The optional
// attributes override the sweep-level settings for that grid only.
type Grid struct {
	Name string `hcl:"name,label"`

	States      []int    `hcl:"states"`
	Actions     []int    `hcl:"actions"`
	Rewards     []int    `hcl:"rewards"`
	Transitions []string `hcl:"transitions"`
	RewardKinds []string `hcl:"reward_kinds"`

	Solver      *string  `hcl:"solver,optional"`
	Gamma       *float64 `hcl:"gamma,optional"`
	Eps         *float64 `hcl:"eps,optional"`
	MaxSteps    *int     `hcl:"max_steps,optional"`
	NReplay     *int     `hcl:"n_replay,optional"`
	RandomPlayP *float64 `hcl:"random_play_p,optional"`
	TerminalP   *float64 `hcl:"terminal_p,optional"`
}

// --- Override Plumbing ---

// Overrides collects the optional setting attributes a block may carry, so
// the loader merges sweep- and grid-level values with one code path.
type Overrides struct {
	Solver      *string
	Gamma       *float64
	Eps         *float64
	MaxSteps    *int
	NReplay     *int
	RandomPlayP *float64
	TerminalP   *float64
}

// Overrides returns the sweep-level setting attributes.
func (s *Sweep) Overrides() Overrides {
	return Overrides{
		Solver:      s.Solver,
		Gamma:       s.Gamma,
		Eps:         s.Eps,
		MaxSteps:    s.MaxSteps,
		NReplay:     s.NReplay,
		RandomPlayP: s.RandomPlayP,
		TerminalP:   s.TerminalP,
	}
}

// Overrides returns the grid-level setting attributes.
func (g *Grid) Overrides() Overrides {
	return Overrides{
		Solver:      g.Solver,
		Gamma:       g.Gamma,
		Eps:         g.Eps,
		MaxSteps:    g.MaxSteps,
		NReplay:     g.NReplay,
		RandomPlayP: g.RandomPlayP,
		TerminalP:   g.TerminalP,
	}
}

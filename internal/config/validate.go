package config

import (
	"fmt"
)

// Validate checks the settings ranges.
func (s Settings) Validate() error {
	switch s.Solver {
	case "vi", "pi":
	default:
		return fmt.Errorf("solver %q (want \"vi\" or \"pi\")", s.Solver)
	}
	if s.Gamma < 0 || s.Gamma >= 1 {
		return fmt.Errorf("gamma %v outside [0, 1)", s.Gamma)
	}
	if s.Eps <= 0 {
		return fmt.Errorf("eps %v must be positive", s.Eps)
	}
	if s.MaxSteps < 1 {
		return fmt.Errorf("max_steps %d must be at least 1", s.MaxSteps)
	}
	if s.NReplay < 0 {
		return fmt.Errorf("n_replay %d must not be negative", s.NReplay)
	}
	if s.RandomPlayP < 0 || s.RandomPlayP > 1 {
		return fmt.Errorf("random_play_p %v outside [0, 1]", s.RandomPlayP)
	}
	if s.TerminalP < 0 || s.TerminalP > 1 {
		return fmt.Errorf("terminal_p %v outside [0, 1]", s.TerminalP)
	}
	return nil
}

// Validate checks the expanded model: a usable base dir, at least one
// instance, valid shapes and settings per instance, and no two instances
// mapping to the same dataset directory.
func (m *Model) Validate() error {
	if m.BaseDir == "" {
		return fmt.Errorf("sweep: base_dir is empty")
	}
	if len(m.Instances) == 0 {
		return fmt.Errorf("sweep: no instances to generate")
	}
	if m.Workers < 0 {
		return fmt.Errorf("sweep: workers %d must not be negative", m.Workers)
	}

	seen := make(map[string]string, len(m.Instances))
	for _, inst := range m.Instances {
		if err := inst.Config.Validate(); err != nil {
			return fmt.Errorf("grid %q: %w", inst.Grid, err)
		}
		if err := inst.Settings.Validate(); err != nil {
			return fmt.Errorf("grid %q: %w", inst.Grid, err)
		}
		key := inst.Key()
		if prev, dup := seen[key]; dup {
			if prev == inst.Grid {
				return fmt.Errorf("grid %q: duplicate instance %s (repeated axis value)", inst.Grid, key)
			}
			return fmt.Errorf("grids %q and %q both produce instance %s", prev, inst.Grid, key)
		}
		seen[key] = inst.Grid
	}
	return nil
}

// ValidateGrid rejects grids with empty axes before expansion, where a
// missing axis would otherwise silently produce zero instances.
func ValidateGrid(g GridSpec) error {
	axes := []struct {
		name string
		size int
	}{
		{"states", len(g.States)},
		{"actions", len(g.Actions)},
		{"rewards", len(g.Rewards)},
		{"transitions", len(g.Transitions)},
		{"reward_kinds", len(g.RewardKinds)},
	}
	for _, axis := range axes {
		if axis.size == 0 {
			return fmt.Errorf("grid %q: %s axis is empty", g.Name, axis.name)
		}
	}
	return nil
}

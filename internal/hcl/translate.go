// This file translates HCL schema structs into the format-agnostic sweep
// model defined in the config package.

package hcl

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/mdp"
	"github.com/vk/mdpgridgo/internal/schema"
)

// translate converts the sweep schema into the agnostic model, expanding
// grids into instances and validating the result. A relative base_dir is
// resolved against the sweep file's directory, not the process working
// directory.
func (l *Loader) translate(s *schema.Sweep, sweepDir string) (*config.Model, error) {
	seed, err := evalSeed(s.Seed)
	if err != nil {
		return nil, err
	}

	base := mergeSettings(config.DefaultSettings(), s.Overrides())
	grids := make([]config.GridSpec, 0, len(s.Grids))
	for _, g := range s.Grids {
		spec := config.GridSpec{
			Name:     g.Name,
			States:   g.States,
			Actions:  g.Actions,
			Rewards:  g.Rewards,
			Settings: mergeSettings(base, g.Overrides()),
		}
		for _, code := range g.Transitions {
			kind, err := mdp.ParseTransitionKind(code)
			if err != nil {
				return nil, fmt.Errorf("grid %q: %w", g.Name, err)
			}
			spec.Transitions = append(spec.Transitions, kind)
		}
		for _, code := range g.RewardKinds {
			kind, err := mdp.ParseRewardKind(code)
			if err != nil {
				return nil, fmt.Errorf("grid %q: %w", g.Name, err)
			}
			spec.RewardKinds = append(spec.RewardKinds, kind)
		}
		if err := config.ValidateGrid(spec); err != nil {
			return nil, err
		}
		grids = append(grids, spec)
	}

	baseDir := s.BaseDir
	if baseDir != "" && !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(sweepDir, baseDir)
	}

	workers := 0
	if s.Workers != nil {
		workers = *s.Workers
	}

	model := &config.Model{
		BaseDir:   baseDir,
		Seed:      seed,
		Workers:   workers,
		Instances: config.Expand(grids),
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// evalSeed evaluates the seed attribute into a uint64. Decoding through
// gohcl would squeeze the value through int64 and reject the upper half of
// the seed space, so the expression is evaluated and converted via cty
// directly.
func evalSeed(expr hcl.Expression) (uint64, error) {
	if expr == nil {
		return config.DefaultSeed, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("invalid seed expression: %w", diags)
	}
	if val.IsNull() {
		return config.DefaultSeed, nil
	}
	var seed uint64
	if err := gocty.FromCtyValue(val, &seed); err != nil {
		return 0, fmt.Errorf("invalid seed value: %w", err)
	}
	return seed, nil
}

// mergeSettings overlays the set attributes of o onto base.
func mergeSettings(base config.Settings, o schema.Overrides) config.Settings {
	if o.Solver != nil {
		base.Solver = *o.Solver
	}
	if o.Gamma != nil {
		base.Gamma = *o.Gamma
	}
	if o.Eps != nil {
		base.Eps = *o.Eps
	}
	if o.MaxSteps != nil {
		base.MaxSteps = *o.MaxSteps
	}
	if o.NReplay != nil {
		base.NReplay = *o.NReplay
	}
	if o.RandomPlayP != nil {
		base.RandomPlayP = *o.RandomPlayP
	}
	if o.TerminalP != nil {
		base.TerminalP = *o.TerminalP
	}
	return base
}

package dataset

import (
	"fmt"

	"github.com/vk/mdpgridgo/internal/mdp"
)

// modelFile is the wire form of model.json. Exactly one field of transitions
// and one of rewards is populated, chosen by the kinds in config.
type modelFile struct {
	Config       configJSON  `json:"config"`
	Transitions  kernelJSON  `json:"transitions"`
	Rewards      rewardsJSON `json:"rewards"`
	Terminal     []bool      `json:"terminal"`
	RewardValues []float64   `json:"reward_values"`
}

type configJSON struct {
	NStates        int    `json:"n_states"`
	NActions       int    `json:"n_actions"`
	NRewards       int    `json:"n_rewards"`
	TransitionKind string `json:"transition_kind"`
	RewardKind     string `json:"reward_kind"`
}

type kernelJSON struct {
	Next   []int         `json:"next,omitempty"`    // s_det
	NextSA [][]int       `json:"next_sa,omitempty"` // sa_det
	P      [][]float64   `json:"p,omitempty"`       // s_prob
	PSA    [][][]float64 `json:"p_sa,omitempty"`    // sa_prob, sas
}

type rewardsJSON struct {
	S    []float64       `json:"s,omitempty"`
	SA   [][]float64     `json:"sa,omitempty"`
	SAS  [][][]float64   `json:"sas,omitempty"`
	SASR [][][][]float64 `json:"sasr,omitempty"`
}

func encodeModel(m *mdp.Model) (*modelFile, error) {
	cfg := m.Config()
	f := &modelFile{
		Config: configJSON{
			NStates:        cfg.NStates,
			NActions:       cfg.NActions,
			NRewards:       cfg.NRewards,
			TransitionKind: cfg.TransitionKind.String(),
			RewardKind:     cfg.RewardKind.String(),
		},
		Terminal:     m.TerminalFlags(),
		RewardValues: m.Values(),
	}

	switch k := m.Kernel().(type) {
	case *mdp.SDetKernel:
		f.Transitions.Next = k.Next
	case *mdp.SADetKernel:
		f.Transitions.NextSA = k.Next
	case *mdp.SProbKernel:
		f.Transitions.P = k.Rows
	case *mdp.SAProbKernel:
		f.Transitions.PSA = k.Rows
	case *mdp.SASKernel:
		f.Transitions.PSA = k.P
	default:
		return nil, fmt.Errorf("%w: kernel type %T", mdp.ErrUnsupportedKind, m.Kernel())
	}

	switch r := m.Rewards().(type) {
	case *mdp.SRewards:
		f.Rewards.S = r.R
	case *mdp.SARewards:
		f.Rewards.SA = r.R
	case *mdp.SASRewards:
		f.Rewards.SAS = r.R
	case *mdp.SASRRewards:
		f.Rewards.SASR = r.P
	default:
		return nil, fmt.Errorf("%w: reward type %T", mdp.ErrUnsupportedKind, m.Rewards())
	}

	return f, nil
}

func decodeModel(f *modelFile) (*mdp.Model, error) {
	tk, err := mdp.ParseTransitionKind(f.Config.TransitionKind)
	if err != nil {
		return nil, err
	}
	rk, err := mdp.ParseRewardKind(f.Config.RewardKind)
	if err != nil {
		return nil, err
	}
	cfg := mdp.Config{
		NStates:        f.Config.NStates,
		NActions:       f.Config.NActions,
		NRewards:       f.Config.NRewards,
		TransitionKind: tk,
		RewardKind:     rk,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kernel, err := decodeKernel(cfg, f.Transitions)
	if err != nil {
		return nil, fmt.Errorf("transitions: %w", err)
	}
	rewards, err := decodeRewards(cfg, f.Rewards, f.RewardValues)
	if err != nil {
		return nil, fmt.Errorf("rewards: %w", err)
	}
	if len(f.RewardValues) != cfg.NRewards {
		return nil, fmt.Errorf("%w: %d reward values for n_rewards %d", mdp.ErrInvalidDimension, len(f.RewardValues), cfg.NRewards)
	}

	return mdp.NewModel(cfg, kernel, rewards, f.Terminal)
}

func decodeKernel(cfg mdp.Config, k kernelJSON) (mdp.Kernel, error) {
	switch cfg.TransitionKind {
	case mdp.TransitionSDet:
		if err := checkStateVector(k.Next, cfg.NStates, cfg.NStates); err != nil {
			return nil, err
		}
		return &mdp.SDetKernel{Next: k.Next}, nil
	case mdp.TransitionSADet:
		if err := checkStateMatrix(k.NextSA, cfg.NStates, cfg.NActions, cfg.NStates); err != nil {
			return nil, err
		}
		return &mdp.SADetKernel{Next: k.NextSA}, nil
	case mdp.TransitionSProb:
		if err := checkRowMatrix(k.P, cfg.NStates, cfg.NStates); err != nil {
			return nil, err
		}
		return &mdp.SProbKernel{Rows: k.P}, nil
	case mdp.TransitionSAProb:
		if err := checkRowTensor(k.PSA, cfg.NStates, cfg.NActions, cfg.NStates); err != nil {
			return nil, err
		}
		return &mdp.SAProbKernel{Rows: k.PSA}, nil
	case mdp.TransitionSAS:
		if err := checkRowTensor(k.PSA, cfg.NStates, cfg.NActions, cfg.NStates); err != nil {
			return nil, err
		}
		return &mdp.SASKernel{P: k.PSA}, nil
	default:
		return nil, fmt.Errorf("%w: transition kind %d", mdp.ErrUnsupportedKind, int(cfg.TransitionKind))
	}
}

func decodeRewards(cfg mdp.Config, r rewardsJSON, values []float64) (mdp.Rewards, error) {
	switch cfg.RewardKind {
	case mdp.RewardS:
		if len(r.S) != cfg.NStates {
			return nil, dimErr("s table", len(r.S), cfg.NStates)
		}
		return &mdp.SRewards{R: r.S}, nil
	case mdp.RewardSA:
		if err := checkRowMatrix(r.SA, cfg.NStates, cfg.NActions); err != nil {
			return nil, err
		}
		return &mdp.SARewards{R: r.SA}, nil
	case mdp.RewardSAS:
		if err := checkRowTensor(r.SAS, cfg.NStates, cfg.NActions, cfg.NStates); err != nil {
			return nil, err
		}
		return &mdp.SASRewards{R: r.SAS}, nil
	case mdp.RewardSASR:
		if len(r.SASR) != cfg.NStates {
			return nil, dimErr("sasr table", len(r.SASR), cfg.NStates)
		}
		for s, byAction := range r.SASR {
			if len(byAction) != cfg.NActions {
				return nil, dimErr(fmt.Sprintf("sasr table state %d", s), len(byAction), cfg.NActions)
			}
			for a, byNext := range byAction {
				if err := checkRowMatrix(byNext, cfg.NStates, cfg.NRewards); err != nil {
					return nil, fmt.Errorf("sasr table cell (%d, %d): %w", s, a, err)
				}
			}
		}
		return &mdp.SASRRewards{Values: values, P: r.SASR}, nil
	default:
		return nil, fmt.Errorf("%w: reward kind %d", mdp.ErrUnsupportedKind, int(cfg.RewardKind))
	}
}

func dimErr(what string, got, want int) error {
	return fmt.Errorf("%w: %s has %d entries, want %d", mdp.ErrInvalidDimension, what, got, want)
}

// checkStateVector validates a successor vector: rows entries, each a state
// index below nStates.
func checkStateVector(v []int, rows, nStates int) error {
	if len(v) != rows {
		return dimErr("successor vector", len(v), rows)
	}
	for i, s := range v {
		if s < 0 || s >= nStates {
			return fmt.Errorf("%w: successor %d at index %d outside [0, %d)", mdp.ErrInvalidDimension, s, i, nStates)
		}
	}
	return nil
}

func checkStateMatrix(m [][]int, rows, cols, nStates int) error {
	if len(m) != rows {
		return dimErr("successor matrix", len(m), rows)
	}
	for i, row := range m {
		if len(row) != cols {
			return dimErr(fmt.Sprintf("successor matrix row %d", i), len(row), cols)
		}
		for j, s := range row {
			if s < 0 || s >= nStates {
				return fmt.Errorf("%w: successor %d at (%d, %d) outside [0, %d)", mdp.ErrInvalidDimension, s, i, j, nStates)
			}
		}
	}
	return nil
}

func checkRowMatrix(m [][]float64, rows, cols int) error {
	if len(m) != rows {
		return dimErr("matrix", len(m), rows)
	}
	for i, row := range m {
		if len(row) != cols {
			return dimErr(fmt.Sprintf("matrix row %d", i), len(row), cols)
		}
	}
	return nil
}

func checkRowTensor(t [][][]float64, rows, cols, depth int) error {
	if len(t) != rows {
		return dimErr("tensor", len(t), rows)
	}
	for i, plane := range t {
		if err := checkRowMatrix(plane, cols, depth); err != nil {
			return fmt.Errorf("tensor plane %d: %w", i, err)
		}
	}
	return nil
}

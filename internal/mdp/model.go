package mdp

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Info carries auxiliary diagnostics alongside reset and step results.
type Info map[string]any

// StepResult is the outcome of one environment step.
type StepResult struct {
	State      int
	Reward     float64
	Terminated bool
	Truncated  bool
	Info       Info
}

// Model is a finite MDP behind a reset/step interface. The kernel, reward
// table, terminal flags and value set are immutable after construction; the
// mutable part is the current state and the step RNG, both owned by Reset.
//
// A Model is not safe for concurrent use. Clone shares the immutable parts
// and gives each goroutine its own mutable half.
type Model struct {
	cfg      Config
	kernel   Kernel
	rewards  Rewards
	terminal []bool
	values   []float64

	rng     *rand.Rand
	current int
	ready   bool
}

// NewModel assembles a model from generated components. The components must
// agree with cfg; mismatched kinds or dimensions are rejected here rather
// than surfacing as panics mid-episode.
func NewModel(cfg Config, kernel Kernel, rewards Rewards, terminal []bool) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if kernel == nil {
		return nil, fmt.Errorf("%w: nil kernel", ErrNotInitialized)
	}
	if rewards == nil {
		return nil, fmt.Errorf("%w: nil reward table", ErrNotInitialized)
	}
	if kernel.Kind() != cfg.TransitionKind {
		return nil, fmt.Errorf("%w: kernel is %s, config wants %s", ErrUnsupportedKind, kernel.Kind(), cfg.TransitionKind)
	}
	if rewards.Kind() != cfg.RewardKind {
		return nil, fmt.Errorf("%w: reward table is %s, config wants %s", ErrUnsupportedKind, rewards.Kind(), cfg.RewardKind)
	}
	if len(terminal) != cfg.NStates {
		return nil, fmt.Errorf("%w: %d terminal flags for %d states", ErrInvalidDimension, len(terminal), cfg.NStates)
	}
	return &Model{
		cfg:      cfg,
		kernel:   kernel,
		rewards:  rewards,
		terminal: terminal,
		values:   RewardValues(cfg.NRewards),
	}, nil
}

// Generate synthesizes a complete model for cfg from one seed: terminal
// flags, then the kernel, then the reward table, in that fixed draw order.
func Generate(cfg Config, seed uint64, terminalP float64) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := NewSynthesizer(seed)
	terminal, err := g.TerminalFlags(cfg.NStates, terminalP)
	if err != nil {
		return nil, err
	}
	kernel, err := g.Transitions(cfg.TransitionKind, cfg.NStates, cfg.NActions)
	if err != nil {
		return nil, err
	}
	rewards, err := g.RewardTable(cfg.RewardKind, cfg.NStates, cfg.NActions, terminal, kernel, RewardValues(cfg.NRewards))
	if err != nil {
		return nil, err
	}
	return NewModel(cfg, kernel, rewards, terminal)
}

// Reset replaces the step RNG with a fresh source for seed and draws a new
// initial state uniformly. Two resets with the same seed put the model in
// identical states and replay identical step streams.
func (m *Model) Reset(seed uint64) (int, Info) {
	m.rng = rand.New(rand.NewSource(seed))
	m.current = m.rng.Intn(m.cfg.NStates)
	m.ready = true
	return m.current, Info{"seed": seed}
}

// Step applies action to the current state. It returns ErrNotInitialized
// before the first Reset and ErrInvalidAction for actions outside
// [0, n_actions); neither failure consumes randomness or moves the state.
//
// Terminated reflects the successor's flag. The model does not track episode
// ends itself; callers stop stepping when Terminated or Truncated is set.
func (m *Model) Step(action int) (StepResult, error) {
	if !m.ready {
		return StepResult{}, fmt.Errorf("%w: step before reset", ErrNotInitialized)
	}
	if action < 0 || action >= m.cfg.NActions {
		return StepResult{}, fmt.Errorf("%w: %d outside [0, %d)", ErrInvalidAction, action, m.cfg.NActions)
	}
	next := m.kernel.Sample(m.rng, m.current, action)
	reward := m.rewards.Sample(m.rng, m.current, action, next)
	m.current = next
	return StepResult{
		State:      next,
		Reward:     reward,
		Terminated: m.terminal[next],
	}, nil
}

// SampleAction draws a uniformly random valid action from the model RNG.
// Reset must have been called.
func (m *Model) SampleAction() (int, error) {
	if !m.ready {
		return 0, fmt.Errorf("%w: sample before reset", ErrNotInitialized)
	}
	return m.rng.Intn(m.cfg.NActions), nil
}

// Clone returns a model sharing the immutable components but owning fresh
// mutable state. The clone must be Reset before stepping.
func (m *Model) Clone() *Model {
	return &Model{
		cfg:      m.cfg,
		kernel:   m.kernel,
		rewards:  m.rewards,
		terminal: m.terminal,
		values:   m.values,
	}
}

// Config returns the instance descriptor.
func (m *Model) Config() Config { return m.cfg }

// Kernel returns the transition function. Treat it as read-only.
func (m *Model) Kernel() Kernel { return m.kernel }

// Rewards returns the reward function. Treat it as read-only.
func (m *Model) Rewards() Rewards { return m.rewards }

// Terminal reports whether state s is terminal.
func (m *Model) Terminal(s int) bool { return m.terminal[s] }

// TerminalFlags returns the per-state terminal flags. Treat them as
// read-only.
func (m *Model) TerminalFlags() []bool { return m.terminal }

// Values returns the ascending reward value set. Treat it as read-only.
func (m *Model) Values() []float64 { return m.values }

// State returns the current state. Meaningful only after Reset.
func (m *Model) State() int { return m.current }

package rollout

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Episode is one recorded trajectory in column form: equal-length series of
// visited states, the actions taken in them, the rewards received, and the
// timestep indices. Row t reads "in States[t] the agent took Actions[t],
// received Rewards[t]". Successors are implicit: the successor of row t is
// States[t+1], and the final successor is not recorded.
//
// The JSON form is the four series as one array, in the order above.
type Episode struct {
	States  []int
	Actions []int
	Rewards []float64
	Times   []int
}

func newEpisode(capacity int) *Episode {
	return &Episode{
		States:  make([]int, 0, capacity),
		Actions: make([]int, 0, capacity),
		Rewards: make([]float64, 0, capacity),
		Times:   make([]int, 0, capacity),
	}
}

func (e *Episode) append(state, action int, reward float64, t int) {
	e.States = append(e.States, state)
	e.Actions = append(e.Actions, action)
	e.Rewards = append(e.Rewards, reward)
	e.Times = append(e.Times, t)
}

// Len returns the number of recorded steps.
func (e *Episode) Len() int { return len(e.States) }

// LastStep returns the final timestep index, or -1 for an empty episode.
func (e *Episode) LastStep() int { return len(e.Times) - 1 }

// Return is the undiscounted sum of rewards.
func (e *Episode) Return() float64 { return floats.Sum(e.Rewards) }

// MarshalJSON encodes the episode as [states, actions, rewards, times].
func (e Episode) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.States, e.Actions, e.Rewards, e.Times})
}

// UnmarshalJSON decodes the four-series array form, rejecting episodes whose
// series disagree in length.
func (e *Episode) UnmarshalJSON(data []byte) error {
	var cols []json.RawMessage
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	if len(cols) != 4 {
		return fmt.Errorf("rollout: episode has %d series, want 4", len(cols))
	}
	if err := json.Unmarshal(cols[0], &e.States); err != nil {
		return fmt.Errorf("rollout: states series: %w", err)
	}
	if err := json.Unmarshal(cols[1], &e.Actions); err != nil {
		return fmt.Errorf("rollout: actions series: %w", err)
	}
	if err := json.Unmarshal(cols[2], &e.Rewards); err != nil {
		return fmt.Errorf("rollout: rewards series: %w", err)
	}
	if err := json.Unmarshal(cols[3], &e.Times); err != nil {
		return fmt.Errorf("rollout: times series: %w", err)
	}
	n := len(e.States)
	if len(e.Actions) != n || len(e.Rewards) != n || len(e.Times) != n {
		return fmt.Errorf("rollout: episode series lengths differ: %d/%d/%d/%d",
			n, len(e.Actions), len(e.Rewards), len(e.Times))
	}
	return nil
}

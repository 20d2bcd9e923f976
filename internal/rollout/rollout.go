package rollout

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/vk/mdpgridgo/internal/mdp"
)

// Options configure one rollout.
type Options struct {
	// MaxSteps caps the episode length.
	MaxSteps int
	// ExplorationP is the per-step probability of replacing the policy
	// action with a uniformly random one. Zero plays the policy exactly.
	ExplorationP float64
	// Seed resets the model before the rollout. Replays of the same seed
	// share the initial state and the model's sampling stream; they diverge
	// only where exploration picks a different action.
	Seed uint64
	// ExplorerSeed seeds the rollout's own generator, which supplies both
	// the exploration coin and the random action. Keeping it off the model
	// stream makes a batch reproducible for any worker count.
	ExplorerSeed uint64
}

func (o Options) validate() error {
	if o.MaxSteps <= 0 {
		return fmt.Errorf("%w: max_steps %d", mdp.ErrInvalidDimension, o.MaxSteps)
	}
	if o.ExplorationP < 0 || o.ExplorationP > 1 {
		return fmt.Errorf("%w: exploration probability %v outside [0, 1]", mdp.ErrInvalidDimension, o.ExplorationP)
	}
	return nil
}

// Run resets the model and plays the policy for at most MaxSteps steps,
// mixing in random actions with probability ExplorationP. The episode ends
// early when a step lands in a terminal state.
//
// With ExplorationP zero the explorer generator is never consulted, so an
// expert rollout is byte-for-byte independent of ExplorerSeed.
func Run(m *mdp.Model, policy []int, opts Options) (*Episode, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cfg := m.Config()
	if len(policy) != cfg.NStates {
		return nil, fmt.Errorf("%w: policy covers %d states, model has %d", mdp.ErrInvalidDimension, len(policy), cfg.NStates)
	}

	explorer := rand.New(rand.NewSource(opts.ExplorerSeed))
	state, _ := m.Reset(opts.Seed)
	ep := newEpisode(opts.MaxSteps)

	for t := 0; t < opts.MaxSteps; t++ {
		action := policy[state]
		if opts.ExplorationP > 0 && explorer.Float64() < opts.ExplorationP {
			action = explorer.Intn(cfg.NActions)
		}
		res, err := m.Step(action)
		if err != nil {
			return nil, err
		}
		ep.append(state, action, res.Reward, t)
		state = res.State
		if res.Terminated || res.Truncated {
			break
		}
	}
	return ep, nil
}

// BatchOptions configure replay collection.
type BatchOptions struct {
	Options
	// NReplay is the number of episodes to collect.
	NReplay int
	// Workers sets rollout concurrency; values below 2 run sequentially.
	// Workers never changes the output: replay i always uses explorer seed
	// ExplorerSeed+i against a model reset with the shared Seed.
	Workers int
}

// replay derives the options for the i'th episode.
func (o BatchOptions) replay(i int) Options {
	opts := o.Options
	opts.ExplorerSeed = o.ExplorerSeed + uint64(i)
	return opts
}

// Batch collects NReplay mixed rollouts of the policy. Parallel workers step
// private model clones, so the receiver's own state is left untouched.
func Batch(ctx context.Context, m *mdp.Model, policy []int, opts BatchOptions) ([]*Episode, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.NReplay < 0 {
		return nil, fmt.Errorf("%w: n_replay %d", mdp.ErrInvalidDimension, opts.NReplay)
	}

	episodes := make([]*Episode, opts.NReplay)

	if opts.Workers < 2 {
		clone := m.Clone()
		for i := range episodes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ep, err := Run(clone, policy, opts.replay(i))
			if err != nil {
				return nil, fmt.Errorf("replay %d: %w", i, err)
			}
			episodes[i] = ep
		}
		return episodes, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clone := m.Clone()
			for i := range jobs {
				ep, err := Run(clone, policy, opts.replay(i))
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("replay %d: %w", i, err)
					}
					mu.Unlock()
					continue
				}
				episodes[i] = ep
			}
		}()
	}

	for i := 0; i < opts.NReplay; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return episodes, nil
}

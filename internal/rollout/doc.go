// Package rollout plays policies against MDP models and records the
// trajectories. An expert rollout follows the policy exactly; replay batches
// mix in uniformly random actions at a configured rate, holding the model
// seed fixed so every replay starts from the same episode and diverges only
// through exploration.
package rollout

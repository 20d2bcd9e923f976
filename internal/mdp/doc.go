// Package mdp defines synthetic finite Markov decision processes: the
// transition and reward variants, the seeded synthesizer that draws them,
// and the Model that exposes an instance through a reset/step interface.
//
// The two axes of variation are TransitionKind (how much of (state, action)
// the kernel conditions on, and whether it is deterministic) and RewardKind
// (how much of (state, action, next state) the table conditions on, and
// whether the reward itself is drawn from a distribution). The Kernel and
// Rewards interfaces hide the shapes, so the `solve` and `rollout` packages
// never switch on kind.
//
// Everything random flows through explicit generators: the Synthesizer owns
// the generation stream, and Model.Reset installs the episode stream. There
// is no package-level RNG state anywhere.
package mdp

// Package solve computes optimal deterministic policies for finite MDP
// instances by dynamic programming. Value iteration and policy iteration
// share one Q-value primitive, so the two differ only in their control flow,
// never in their Bellman arithmetic.
package solve

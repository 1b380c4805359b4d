// Package sim provides the Monte Carlo engine for the 100-prisoners riddle.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - permutation.go: envelope contents as a random bijection, cycle walking
//   - trial.go: one trial (one permutation, one attempt per prisoner)
//   - experiment.go: the experiment loop, worker pool, and streaming accumulation
//
// # Architecture
//
// An experiment is a stream of independent trials. Each trial draws a fresh
// Permutation from a PermutationSource, invokes a Strategy once per prisoner
// with a fixed attempt budget, and reduces the per-prisoner booleans to a
// cohort success. The ExperimentRunner never materializes trials: outcomes
// stream into O(prisoners) counters plus an O(envelopes) cycle-length
// histogram, so memory does not grow with the trial count.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Strategy: decide which envelopes one prisoner opens (random, loop, user-registered)
//   - PermutationSource: produce the per-trial envelope arrangement
//
// New strategies register themselves by name via RegisterStrategy and become
// selectable from configuration without touching the trial loop.
package sim

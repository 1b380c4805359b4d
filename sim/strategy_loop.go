package sim

import "math/rand"

// LoopStrategy starts at the slot matching the prisoner's own number and
// follows the chain "open slot, jump to the slot named by its content".
// That chain is exactly the permutation cycle containing the prisoner's
// slot, so the prisoner succeeds iff that cycle is no longer than the
// budget. The cycle length is reported even on failure, mirroring how the
// riddle's analysis conditions on the longest-cycle distribution.
type LoopStrategy struct{}

// Name implements Strategy.
func (s *LoopStrategy) Name() string { return "loop" }

// Attempt implements Strategy. Consumes no randomness: the walk is fully
// determined by the permutation.
func (s *LoopStrategy) Attempt(prisoner int, perm Permutation, budget int, _ *rand.Rand) (Outcome, error) {
	if err := checkAttemptContract(prisoner, perm, budget); err != nil {
		return Outcome{}, err
	}

	cycle := perm.CycleLength(prisoner)
	out := Outcome{
		Found:       cycle <= budget,
		Opened:      cycle,
		CycleLength: cycle,
	}
	if cycle > budget {
		out.Opened = budget
	}
	return out, nil
}

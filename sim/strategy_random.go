package sim

import "math/rand"

// RandomStrategy opens `budget` distinct envelopes drawn uniformly at random
// without replacement. Per-prisoner success probability is budget/envelopes;
// cohort success decays as (budget/envelopes)^prisoners, which is why the
// riddle's warden expects this strategy to fail.
type RandomStrategy struct{}

// Name implements Strategy.
func (s *RandomStrategy) Name() string { return "random" }

// Attempt implements Strategy. The draw order is a fresh uniform shuffle of
// the slot indices, so every budget-sized subset of envelopes is equally
// likely.
func (s *RandomStrategy) Attempt(prisoner int, perm Permutation, budget int, rng *rand.Rand) (Outcome, error) {
	if err := checkAttemptContract(prisoner, perm, budget); err != nil {
		return Outcome{}, err
	}

	order := rng.Perm(perm.Len())
	out := Outcome{}
	for _, slot := range order[:budget] {
		out.Opened++
		if perm[slot] == prisoner {
			out.Found = true
			break
		}
	}
	return out, nil
}

package sim

import (
	"fmt"
	"math/rand"
)

// TrialResult is one trial's outcome. Immutable once returned; the
// experiment loop folds it into running counters and discards it.
type TrialResult struct {
	Found        []bool // per-prisoner: found own number within budget
	CycleLengths []int  // per-prisoner cycle lengths, nil for non-cycle strategies
	AllFound     bool   // cohort success: AND over Found
}

// RunTrial executes one independent trial: draw a fresh permutation of
// `envelopes` slots from source, run the strategy once per prisoner with the
// fixed budget, and derive cohort success. Trials share no mutable state, so
// concurrent RunTrial calls are safe as long as each worker owns its source
// and random stream.
func RunTrial(prisoners, envelopes, budget int, strat Strategy, source PermutationSource, rng *rand.Rand) (TrialResult, error) {
	perm, err := source.Generate(envelopes)
	if err != nil {
		return TrialResult{}, err
	}
	if perm.Len() != envelopes {
		return TrialResult{}, fmt.Errorf("%w: permutation source returned %d slots, want %d", ErrContract, perm.Len(), envelopes)
	}

	result := TrialResult{
		Found:    make([]bool, prisoners),
		AllFound: true,
	}
	for prisoner := 0; prisoner < prisoners; prisoner++ {
		out, err := strat.Attempt(prisoner, perm, budget, rng)
		if err != nil {
			return TrialResult{}, err
		}
		result.Found[prisoner] = out.Found
		if !out.Found {
			result.AllFound = false
		}
		if out.CycleLength > 0 {
			if result.CycleLengths == nil {
				result.CycleLengths = make([]int, 0, prisoners)
			}
			result.CycleLengths = append(result.CycleLengths, out.CycleLength)
		}
	}
	return result, nil
}

package sim

import (
	"fmt"
	"math/rand"
)

// Permutation is one trial's envelope arrangement: index i is the envelope
// slot, Permutation[i] the number sealed inside it. A valid Permutation is a
// bijection over {0..n-1}: every number appears in exactly one slot.
// Permutations are regenerated fresh for every trial and must never be
// mutated by strategies.
type Permutation []int

// Len returns the number of envelopes.
func (p Permutation) Len() int {
	return len(p)
}

// CycleLength returns the length of the permutation cycle containing start:
// the number of slot openings needed before "open slot, jump to the slot
// named by its content" returns to start. A fixed point has length 1.
func (p Permutation) CycleLength(start int) int {
	length := 1
	for slot := p[start]; slot != start; slot = p[slot] {
		length++
	}
	return length
}

// Valid reports whether p is a bijection over {0..len(p)-1}.
// Used by tests and debug assertions; the hot path trusts ShuffleSource.
func (p Permutation) Valid() bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// PermutationSource produces one randomized envelope arrangement per trial.
// Implementations must make every one of the n! permutations equally likely
// and must consume entropy only from their own random stream.
type PermutationSource interface {
	Generate(n int) (Permutation, error)
}

// ShuffleSource generates uniform permutations from a dedicated RNG stream
// using rand.Perm (Fisher-Yates, unbiased).
type ShuffleSource struct {
	rng *rand.Rand
}

// NewShuffleSource creates a ShuffleSource drawing from rng.
// Each trial worker owns one source backed by its own stream.
func NewShuffleSource(rng *rand.Rand) *ShuffleSource {
	return &ShuffleSource{rng: rng}
}

// Generate implements PermutationSource.
func (s *ShuffleSource) Generate(n int) (Permutation, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: envelope count must be >= 1, got %d", ErrConfig, n)
	}
	return Permutation(s.rng.Perm(n)), nil
}

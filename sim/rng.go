package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === ExperimentKey ===

// ExperimentKey uniquely identifies a reproducible experiment run.
// Two experiments with the same ExperimentKey and identical configuration
// MUST produce bit-for-bit identical results.
type ExperimentKey int64

// NewExperimentKey creates an ExperimentKey from a seed value.
func NewExperimentKey(seed int64) ExperimentKey {
	return ExperimentKey(seed)
}

// === Stream Constants ===

const (
	// StreamTrials is the RNG stream for sequential trial execution.
	// Uses the master seed directly so single-worker runs reproduce the
	// historical --seed behavior exactly.
	StreamTrials = "trials"
)

// StreamWorker returns the stream name for parallel worker N.
func StreamWorker(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per stream.
// Each trial worker draws permutations and random envelope picks from its own
// stream, so trials never share random state and results do not depend on
// goroutine interleaving.
//
// Derivation formula:
//   - For StreamTrials: uses the master seed directly
//   - For all other streams: masterSeed XOR fnv1a64(streamName)
//
// Thread-safety: NOT thread-safe. Each worker must request its stream up
// front and use only that *rand.Rand from its own goroutine.
type PartitionedRNG struct {
	key     ExperimentKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from an ExperimentKey.
func NewPartitionedRNG(key ExperimentKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForStream returns a deterministically-seeded RNG for the named stream.
// The same stream name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForStream(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == StreamTrials {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.streams[name] = rng
	return rng
}

// Key returns the ExperimentKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() ExperimentKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

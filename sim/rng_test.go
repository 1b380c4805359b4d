package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === ExperimentKey Tests ===

func TestExperimentKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewExperimentKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewExperimentKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+stream produces the same sequence
	rng1 := NewPartitionedRNG(NewExperimentKey(42))
	rng2 := NewPartitionedRNG(NewExperimentKey(42))

	for i := 0; i < 5; i++ {
		v1 := rng1.ForStream(StreamWorker(3)).Float64()
		v2 := rng2.ForStream(StreamWorker(3)).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_StreamIsolation(t *testing.T) {
	// Drawing from one worker's stream does not advance another's
	rngA := NewPartitionedRNG(NewExperimentKey(42))
	rngB := NewPartitionedRNG(NewExperimentKey(42))

	for i := 0; i < 10; i++ {
		rngA.ForStream(StreamWorker(0)).Float64()
	}

	a := rngA.ForStream(StreamWorker(1)).Float64()
	b := rngB.ForStream(StreamWorker(1)).Float64()
	if a != b {
		t.Errorf("worker_1 first draw: got %v and %v, want identical despite worker_0 activity", a, b)
	}
}

func TestPartitionedRNG_TrialsStreamUsesMasterSeed(t *testing.T) {
	key := NewExperimentKey(1234)
	p := NewPartitionedRNG(key)

	if got := p.Key(); got != key {
		t.Fatalf("Key() = %d, want %d", got, key)
	}

	// StreamTrials must reproduce the raw master-seeded sequence so
	// single-worker runs keep historical --seed behavior.
	got := p.ForStream(StreamTrials).Int63()
	want := rand.New(rand.NewSource(1234)).Int63()
	if got != want {
		t.Errorf("StreamTrials first draw = %d, want master-seeded %d", got, want)
	}
}

func TestPartitionedRNG_DifferentStreamsDiffer(t *testing.T) {
	rng := NewPartitionedRNG(NewExperimentKey(42))

	// Two different streams almost surely disagree on the first draw; with
	// the FNV-derived seeds this is deterministic, not probabilistic.
	a := rng.ForStream(StreamWorker(0)).Int63()
	b := rng.ForStream(StreamWorker(1)).Int63()
	if a == b {
		t.Errorf("worker_0 and worker_1 first draws both %d, want distinct", a)
	}
}

func TestPartitionedRNG_CachesStreams(t *testing.T) {
	rng := NewPartitionedRNG(NewExperimentKey(7))
	first := rng.ForStream(StreamTrials)
	second := rng.ForStream(StreamTrials)
	if first != second {
		t.Error("ForStream returned a new instance for a cached stream")
	}
}

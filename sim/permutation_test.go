package sim

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleSource_GeneratesBijections(t *testing.T) {
	source := NewShuffleSource(rand.New(rand.NewSource(42)))

	for _, n := range []int{1, 2, 5, 100, 1000} {
		perm, err := source.Generate(n)
		require.NoError(t, err)
		require.Equal(t, n, perm.Len())

		// Sorted contents must be exactly {0..n-1}, each once.
		contents := make([]int, n)
		copy(contents, perm)
		sort.Ints(contents)
		for i, v := range contents {
			require.Equal(t, i, v, "n=%d: content %d missing or duplicated", n, i)
		}
		assert.True(t, perm.Valid())
	}
}

func TestShuffleSource_RejectsEmptyDomain(t *testing.T) {
	source := NewShuffleSource(rand.New(rand.NewSource(1)))

	for _, n := range []int{0, -1} {
		_, err := source.Generate(n)
		assert.ErrorIs(t, err, ErrConfig, "n=%d", n)
	}
}

func TestShuffleSource_Deterministic(t *testing.T) {
	a := NewShuffleSource(rand.New(rand.NewSource(7)))
	b := NewShuffleSource(rand.New(rand.NewSource(7)))

	permA, err := a.Generate(50)
	require.NoError(t, err)
	permB, err := b.Generate(50)
	require.NoError(t, err)
	assert.Equal(t, permA, permB)
}

func TestPermutation_CycleLength(t *testing.T) {
	tests := []struct {
		name  string
		perm  Permutation
		start int
		want  int
	}{
		{"fixed point", Permutation{0, 1, 2}, 1, 1},
		{"transposition", Permutation{1, 0, 2}, 0, 2},
		{"single full cycle", Permutation{1, 2, 3, 4, 0}, 2, 5},
		{"two cycles, short one", Permutation{1, 0, 3, 4, 2}, 0, 2},
		{"two cycles, long one", Permutation{1, 0, 3, 4, 2}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.perm.CycleLength(tt.start); got != tt.want {
				t.Errorf("CycleLength(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestPermutation_Valid(t *testing.T) {
	assert.True(t, Permutation{0}.Valid())
	assert.True(t, Permutation{2, 0, 1}.Valid())
	assert.False(t, Permutation{0, 0, 1}.Valid(), "duplicate content")
	assert.False(t, Permutation{0, 3, 1}.Valid(), "content out of range")
	assert.False(t, Permutation{-1, 0, 1}.Valid(), "negative content")
}

func TestShuffleSource_ErrorKind(t *testing.T) {
	source := NewShuffleSource(rand.New(rand.NewSource(1)))
	_, err := source.Generate(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
	assert.False(t, errors.Is(err, ErrContract))
}

package verify_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st3v3nmw/lbcheck/internal/verify"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func assertDisjointUnique(t *testing.T, ids []int, exclude map[int]bool, r verify.IDRange) {
	t.Helper()

	seen := map[int]bool{}
	for _, id := range ids {
		assert.True(t, r.Contains(id), "id %d outside range", id)
		assert.False(t, exclude[id], "id %d is excluded", id)
		assert.False(t, seen[id], "id %d selected twice", id)
		seen[id] = true
	}
}

func TestSelectZero(t *testing.T) {
	ids := verify.Select(newRand(1), 0, nil, verify.IDRange{Min: 1, Max: 100})
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestSelectSmallRangeWithExclusions(t *testing.T) {
	r := verify.IDRange{Min: 10, Max: 99}
	exclude := map[int]bool{}
	for id := 10; id < 20; id++ {
		exclude[id] = true
	}

	for seed := range uint64(50) {
		ids := verify.Select(newRand(seed), 5, exclude, r)

		require.Len(t, ids, 5)
		assertDisjointUnique(t, ids, exclude, r)
	}
}

func TestSelectDisjointness(t *testing.T) {
	for seed := range uint64(100) {
		rng := newRand(seed)
		r := verify.IDRange{Min: 1, Max: 1 + rng.IntN(200)}

		exclude := map[int]bool{}
		for range rng.IntN(r.Size() + 1) {
			exclude[r.Min+rng.IntN(r.Size())] = true
		}

		available := r.Size() - len(exclude)
		count := rng.IntN(available + 1)

		ids := verify.Select(rng, count, exclude, r)

		require.Len(t, ids, count, "seed %d range %v excluded %d", seed, r, len(exclude))
		assertDisjointUnique(t, ids, exclude, r)
	}
}

func TestSelectExhaustedRange(t *testing.T) {
	r := verify.IDRange{Min: 1, Max: 10}
	exclude := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}

	ids := verify.Select(newRand(7), 5, exclude, r)

	assert.ElementsMatch(t, []int{8, 9, 10}, ids)
}

func TestSelectLargeRange(t *testing.T) {
	r := verify.IDRange{Min: 10_000, Max: 100_000}
	exclude := map[int]bool{10_001: true, 50_000: true}

	ids := verify.Select(newRand(3), 5, exclude, r)

	require.Len(t, ids, 5)
	assertDisjointUnique(t, ids, exclude, r)
}

func TestSelectDeterministicForSeed(t *testing.T) {
	r := verify.IDRange{Min: 1, Max: 1_000_000}

	assert.Equal(t,
		verify.Select(newRand(42), 10, nil, r),
		verify.Select(newRand(42), 10, nil, r))
}

package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64(), "draw %d", i)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	t.Parallel()
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Zero(t, same, "distinct seeds should not collide")
}

func TestZeroSeedUsable(t *testing.T) {
	t.Parallel()
	rng := New(0)
	seen := map[uint64]bool{}
	for i := 0; i < 10; i++ {
		seen[rng.Uint64()] = true
	}
	assert.Greater(t, len(seen), 1, "a zero seed must still produce variety")
}

package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedFromIsStable(t *testing.T) {
	assert.Equal(t, SeedFrom("TCS"), SeedFrom("TCS"))
	assert.NotEqual(t, SeedFrom("TCS"), SeedFrom("INFY"))
}

func TestSeedFromSumsCharacterCodes(t *testing.T) {
	// 'A' = 65, 'B' = 66
	assert.Equal(t, int64(131), SeedFrom("AB"))
	assert.Equal(t, int64(0), SeedFrom(""))
}

func TestStreamIsReproducible(t *testing.T) {
	a := NewStream(42)
	b := NewStream(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.IntRange(10, 500), b.IntRange(10, 500))
	}
}

func TestStreamsWithDifferentSeedsDiverge(t *testing.T) {
	a := NewStream(1)
	b := NewStream(2)

	same := 0
	for i := 0; i < 50; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 50)
}

func TestUniformBounds(t *testing.T) {
	s := NewStream(7)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(5, 15)
		assert.GreaterOrEqual(t, v, 5.0)
		assert.Less(t, v, 15.0)
	}
}

func TestIntRangeBounds(t *testing.T) {
	s := NewStream(7)
	for i := 0; i < 1000; i++ {
		v := s.IntRange(3, 9)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 9)
	}
	// Degenerate range collapses to min.
	assert.Equal(t, 4, s.IntRange(4, 4))
}

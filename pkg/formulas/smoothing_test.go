package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMASmoothShortSeriesPassthrough(t *testing.T) {
	closes := []float64{10, 11, 12}
	out := EMASmooth(closes, 10)
	assert.Equal(t, closes, out)
}

func TestEMASmoothPreservesLength(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := EMASmooth(closes, 5)
	assert.Len(t, out, len(closes))
	// Tail values are smoothed, never zero.
	assert.Greater(t, out[len(out)-1], 0.0)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 0.0001)
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, 1, 4, 1, 5})
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 5.0, max)
}

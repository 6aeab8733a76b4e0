// Package formulas provides numeric helpers shared by the forecasting code.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// EMASmooth returns an exponentially smoothed copy of closes. The leading
// values talib cannot compute are backfilled with the raw series so the
// output has the same length as the input. Falls back to the raw series when
// there is not enough data for the period.
func EMASmooth(closes []float64, period int) []float64 {
	if len(closes) < period || period < 2 {
		out := make([]float64, len(closes))
		copy(out, closes)
		return out
	}

	ema := talib.Ema(closes, period)
	out := make([]float64, len(closes))
	for i := range closes {
		if i < len(ema) && !math.IsNaN(ema[i]) && ema[i] != 0 {
			out[i] = ema[i]
		} else {
			out[i] = closes[i]
		}
	}
	return out
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MinMax returns the smallest and largest values in the slice.
func MinMax(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

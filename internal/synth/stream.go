// Package synth provides deterministic pseudo-random streams used for
// synthetic market data. The same ticker always maps to the same seed, and
// the same seed always yields the same draw sequence, so demo data is stable
// across restarts without a real data feed.
package synth

import "math/rand"

// SeedFrom derives a stable non-negative seed from text by summing its
// character codes. Case matters: callers normalize tickers first.
func SeedFrom(text string) int64 {
	var sum int64
	for _, r := range text {
		sum += int64(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum
}

// Stream is a reproducible pseudo-random generator. It never touches the
// global rand state, so results do not depend on call order elsewhere in
// the process.
type Stream struct {
	rng *rand.Rand
}

// NewStream creates a stream for the given seed.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// Float64 draws a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Uniform draws a uniform value in [min, max).
func (s *Stream) Uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// IntRange draws a uniform integer in [min, max].
func (s *Stream) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// Int63n draws a uniform int64 in [0, n).
func (s *Stream) Int63n(n int64) int64 {
	return s.rng.Int63n(n)
}

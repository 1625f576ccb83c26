package leaffall

import (
	"math"
	"math/rand/v2"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// seeding. Every population constructor takes one so that the same seed and
// season always produce the same seed tables.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0x1eaf))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// Between returns a value in [lo, hi).
func (r *RNG) Between(lo, hi float64) float64 {
	return lo + r.r.Float64()*(hi-lo)
}

// Spread returns a value in [-span/2, span/2).
func (r *RNG) Spread(span float64) float64 {
	return span * (r.r.Float64() - 0.5)
}

// Angle returns a value in [0, 2π).
func (r *RNG) Angle() float64 {
	return r.r.Float64() * 2 * math.Pi
}

// Sign returns -1 or +1 with equal probability.
func (r *RNG) Sign() float64 {
	if r.r.IntN(2) == 0 {
		return -1
	}
	return 1
}

// IntN returns a value in [0, n).
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

package random

import (
	"math/rand"
	"time"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// MathRandom implements Random on top of a seeded math/rand source
type MathRandom struct {
	rng *rand.Rand
}

// New creates a MathRandom seeded with the given value
func New(seed int64) *MathRandom {
	return &MathRandom{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded creates a MathRandom seeded from the wall clock
func NewTimeSeeded() *MathRandom {
	return New(time.Now().UnixNano())
}

// Intn returns a random int in [0, n), or 0 when n is not positive
func (r *MathRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// Int63 returns a non-negative random int64, handy for deriving new seeds
func (r *MathRandom) Int63() int64 {
	return r.rng.Int63()
}

// Shuffle performs a partial Fisher-Yates shuffle of values, so that the first
// count elements are a uniform sample without replacement
func Shuffle[T any](r Random, values []T, count int) {
	if count > len(values) {
		count = len(values)
	}
	for i := 0; i < count; i++ {
		j := i + r.Intn(len(values)-i)
		values[i], values[j] = values[j], values[i]
	}
}

package mocks

import (
	"github.com/they4kman/ffsweep/util/random"
)

// MockRandom is a mock implementation of Random for testing.
//
// With an empty queue every draw is 0, which makes a partial shuffle keep the
// input order: mines land on the first enabled cells in row-major order.
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// Calls counts every Intn invocation
	Calls int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom(values ...int) *MockRandom {
	return &MockRandom{IntnResults: values}
}

// Intn returns the next queued result (reduced modulo n), or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.Calls++
	if r.intnIndex >= len(r.IntnResults) || n <= 0 {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result % n
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

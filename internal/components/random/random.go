package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// API is an abstraction over any code that draws random values.
// This makes simulation and testing deterministic.
//
// note: fault injection point
type API interface {
	// IntN returns a value in [0, n), it panics if n <= 0.
	IntN(n int) int
}

// Between draws a value in the inclusive range [min, max].
func Between(r API, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Source is a seedable API safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a Source that always produces the same sequence for a given seed.
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeeded seeds a Source from the wall clock, for production use.
func NewTimeSeeded() *Source {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Package rng provides the shared pseudo-random source used for level
// assignment during insert, guarded by a single mutex so concurrent
// inserts can safely draw from it. Its entire state is one uint64 so it
// round-trips through the on-disk format's single PRNG-state field and
// behaves identically across independent (non-Go) implementations of
// the same algorithm.
package rng

import (
	"math"
	"sync"
)

// Source is a mutex-guarded splitmix64 generator shared across
// concurrent inserters. splitmix64 is used instead of math/rand's
// default source because its state is a single 64-bit word: simple to
// serialize and to reimplement bit-for-bit in another language.
type Source struct {
	mu    sync.Mutex
	state uint64
}

// New creates a Source seeded deterministically from seed.
func New(seed int64) *Source {
	return &Source{state: uint64(seed)}
}

// next advances the generator and returns its raw 64-bit output.
func (s *Source) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 returns the next pseudo-random float64 in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	v := s.next()
	s.mu.Unlock()

	// Use the top 53 bits for a uniformly distributed double, the usual
	// splitmix64-to-float64 conversion.
	return float64(v>>11) / (1 << 53)
}

// Level draws a node's layer using the closed-form HNSW level
// distribution: floor(-ln(U) * mL), where U is uniform on (0, 1).
func (s *Source) Level(mL float64) int {
	u := s.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64
	}
	return int(-math.Log(u) * mL)
}

// State returns the generator's current 64-bit state.
func (s *Source) State() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Restore replaces the generator's state, e.g. after loading a saved
// index so draws continue exactly where the saved index left off.
func (s *Source) Restore(state uint64) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

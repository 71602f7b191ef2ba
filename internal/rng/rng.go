// Package rng provides the random source shared by the optimizers.
//
// Every operator and engine draws from a Source passed in by the caller, so a
// run is reproducible from its seed alone.
package rng

import "math/rand"

// Source is the subset of *rand.Rand used by the optimizers.
type Source interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
	// Intn returns a pseudo-random number in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Perm returns a pseudo-random permutation of [0, n).
	Perm(n int) []int
	// Int63 returns a non-negative pseudo-random 63-bit integer.
	Int63() int64
}

// New returns a Source seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Rand returns r as a *rand.Rand for libraries that take one. A *rand.Rand
// is returned as is, so draws keep coming from the same stream.
func Rand(r Source) *rand.Rand {
	if rr, ok := r.(*rand.Rand); ok {
		return rr
	}
	return rand.New(source{r})
}

// source adapts a Source to rand.Source.
type source struct{ r Source }

func (s source) Int63() int64 { return s.r.Int63() }
func (s source) Seed(int64)   {}

// Sample draws count distinct values from [0, n) without replacement, in draw
// order. It panics if count > n.
func Sample(r Source, n, count int) []int {
	if count > n {
		panic("rng: sample larger than population")
	}
	return r.Perm(n)[:count]
}

// Uniform returns a value drawn uniformly from [lo, hi).
func Uniform(r Source, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

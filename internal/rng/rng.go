// Package rng provides the uniform integer source both sampling levels draw
// from. Runs are reproducible: the same seed yields the same sample set.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source yields uniform integers in [0, n). n is always > 0.
type Source interface {
	IntN(n int) int
}

// PCG is a seeded Source backed by a PCG generator.
type PCG struct {
	seed uint64
	r    *rand.Rand
}

// New returns a Source seeded with seed.
func New(seed uint64) *PCG {
	return &PCG{seed: seed, r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewFromClock seeds from the wall clock, like the batch tools always did.
func NewFromClock() *PCG {
	return New(uint64(time.Now().UnixNano()))
}

// IntN returns a uniform integer in [0, n).
func (p *PCG) IntN(n int) int { return p.r.IntN(n) }

// Seed reports the seed so a run can be replayed.
func (p *PCG) Seed() uint64 { return p.seed }

package game

import (
	"math/rand/v2"
	"time"
)

// Source is the randomness used for spawning. *rand.Rand from math/rand/v2
// satisfies it; tests substitute scripted sources.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a seeded PCG source. A zero seed picks one from the clock.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

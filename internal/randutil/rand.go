// Package randutil provides the seeded random streams consumed by the shuffle
// algorithms. Streams never read the wall clock: the seed fully determines the
// sequence.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Stream produces float64 values in [0, 1)
type Stream interface {
	Float64() float64
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both 64-bit PCG seeds are derived from the one value, so every call site
// gets a reproducible sequence for a given seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// IntN maps a stream draw onto [0, n). n <= 0 yields 0.
func IntN(s Stream, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

package analysis

import (
	"github.com/lox/tarotshuffle/internal/randutil"
)

// SeedSource is the part of the seed generator exercised here
type SeedSource interface {
	TrackMouseMove(x, y float64)
	GenerateSeed() uint32
}

// pointerSeed fixes the synthetic pointer path so repeated runs are comparable
const pointerSeed = 7

// SeedCollisions moves the pointer along a fixed pseudo-random path between
// successive seed requests and returns the fraction of requests that repeated
// the previous seed. between, when not nil, runs before every move and is
// where callers let time pass.
func SeedCollisions(gen SeedSource, samples int, between func()) float64 {
	if samples < 2 {
		return 0
	}
	rng := randutil.New(pointerSeed)
	prev := gen.GenerateSeed()
	collisions := 0
	for i := 1; i < samples; i++ {
		if between != nil {
			between()
		}
		gen.TrackMouseMove(rng.Float64()*1920, rng.Float64()*1080)
		s := gen.GenerateSeed()
		if s == prev {
			collisions++
		}
		prev = s
	}
	return float64(collisions) / float64(samples-1)
}

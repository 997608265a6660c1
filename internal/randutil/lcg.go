package randutil

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280

	unitMultiplier = 1664525
	unitIncrement  = 1013904223
	unitModulus    = 1 << 32
)

// LCG is a small linear congruential stream used for orientation decisions.
// Its period is at most 233280, which is plenty for a 78-card deck.
type LCG struct {
	state int64
}

// NewLCG returns an LCG stream starting from seed
func NewLCG(seed int64) *LCG {
	return &LCG{state: floorMod(seed, lcgModulus)}
}

// Float64 advances the generator and returns a value in [0, 1)
func (l *LCG) Float64() float64 {
	l.state = (l.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(l.state) / lcgModulus
}

// Unit performs a single Numerical Recipes LCG step from seed and returns the
// result scaled to [0, 1). Used where one jitter value per seed is enough.
func Unit(seed int64) float64 {
	next := (floorMod(seed, unitModulus)*unitMultiplier + unitIncrement) % unitModulus
	return float64(next) / unitModulus
}

func floorMod(x, m int64) int64 {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

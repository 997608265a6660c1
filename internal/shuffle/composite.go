package shuffle

import (
	"github.com/lox/tarotshuffle/internal/randutil"
	"github.com/lox/tarotshuffle/tarot"
)

const (
	riffleWeight = 0.6

	hybridMinOps    = 2
	hybridOpRange   = 4
	hybridSeedShift = 1000

	randomizeMinOps  = 15
	randomizeOpRange = 6
)

// Technique names a single shuffle pass
type Technique string

const (
	TechniqueRiffle   Technique = "riffle"
	TechniqueOverhand Technique = "overhand"
)

// Step is one pass of a composite shuffle
type Step struct {
	Technique Technique
	Seed      int64
}

// Apply runs the step against deck
func (st Step) Apply(deck tarot.Sequence) tarot.Sequence {
	if st.Technique == TechniqueRiffle {
		return Riffle(deck, st.Seed)
	}
	return Overhand(deck, st.Seed)
}

func pickTechnique(s randutil.Stream) Technique {
	if s.Float64() < riffleWeight {
		return TechniqueRiffle
	}
	return TechniqueOverhand
}

// HybridPlan lists the passes Hybrid performs for seed: two to five passes,
// pass i seeded with seed+i*1000. The technique is drawn from a fresh stream
// of the pass seed, which then also drives the pass itself.
func HybridPlan(seed int64) []Step {
	base := randutil.New(seed)
	n := randutil.IntN(base, hybridOpRange) + hybridMinOps

	steps := make([]Step, n)
	for i := range steps {
		opSeed := seed + int64(i)*hybridSeedShift
		steps[i] = Step{
			Technique: pickTechnique(randutil.New(opSeed)),
			Seed:      opSeed,
		}
	}
	return steps
}

// RandomizePlan lists the fifteen to twenty passes Randomize performs.
// Pass i is seeded with seed+i+1; techniques come from the base stream.
func RandomizePlan(seed int64) []Step {
	base := randutil.New(seed)
	n := randutil.IntN(base, randomizeOpRange) + randomizeMinOps

	steps := make([]Step, n)
	for i := range steps {
		steps[i] = Step{
			Technique: pickTechnique(base),
			Seed:      seed + int64(i) + 1,
		}
	}
	return steps
}

// Hybrid chains two to five riffle or overhand passes
func Hybrid(deck tarot.Sequence, seed int64) tarot.Sequence {
	return run(deck, HybridPlan(seed))
}

// Randomize chains fifteen to twenty passes for a thorough mix
func Randomize(deck tarot.Sequence, seed int64) tarot.Sequence {
	return run(deck, RandomizePlan(seed))
}

func run(deck tarot.Sequence, steps []Step) tarot.Sequence {
	out := deck.Clone()
	if len(out) <= 1 {
		return out
	}
	for _, st := range steps {
		out = st.Apply(out)
	}
	return out
}

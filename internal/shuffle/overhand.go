package shuffle

import (
	"math"
	"slices"

	"github.com/lox/tarotshuffle/internal/randutil"
	"github.com/lox/tarotshuffle/tarot"
)

const (
	maxChunk      = 5
	chunkFraction = 0.2
	// Placement thresholds: below placeFront the chunk goes on top of the
	// new pile, below placeInside it is tucked in at a random depth.
	placeFront  = 0.3
	placeInside = 0.7
)

// Overhand runs one complete overhand pass: chunks are taken off the top
// until nothing remains. Orientation is never changed.
func Overhand(deck tarot.Sequence, seed int64) tarot.Sequence {
	return OverhandStream(deck, randutil.New(seed))
}

// OverhandStream is Overhand driven by an explicit stream
func OverhandStream(deck tarot.Sequence, s randutil.Stream) tarot.Sequence {
	if len(deck) <= 1 {
		return deck.Clone()
	}

	remaining := deck.Clone()
	result := make(tarot.Sequence, 0, len(deck))
	for len(remaining) > 0 {
		var chunk tarot.Sequence
		chunk, remaining = takeChunk(remaining, s)
		result = placeChunk(result, chunk, s)
	}
	return result
}

// takeChunk splits 1..min(5, 20% of the pile) cards off the top. The lower
// bound of one applies even when the pile is too small for the 20% cap.
func takeChunk(pile tarot.Sequence, s randutil.Stream) (chunk, rest tarot.Sequence) {
	limit := min(maxChunk, int(math.Floor(float64(len(pile))*chunkFraction)))
	size := randutil.IntN(s, limit) + 1
	size = min(size, len(pile))
	return pile[:size], pile[size:]
}

func placeChunk(result, chunk tarot.Sequence, s randutil.Stream) tarot.Sequence {
	p := s.Float64()
	switch {
	case p < placeFront:
		return slices.Insert(result, 0, chunk...)
	case p < placeInside && len(result) > 0:
		at := randutil.IntN(s, len(result))
		return slices.Insert(result, at, chunk...)
	default:
		return append(result, chunk...)
	}
}

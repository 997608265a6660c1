package shuffle

import (
	"math"

	"github.com/lox/tarotshuffle/internal/randutil"
	"github.com/lox/tarotshuffle/tarot"
)

const (
	// cutVariation is the maximum deviation of the cut from the middle,
	// as a fraction of the deck size.
	cutVariation = 0.2
	// maxRun is the largest number of consecutive cards dropped from one half
	maxRun = 3
	// sideBias nudges the interlace toward the left half
	sideBias = 0.1
)

// Riffle cuts the deck near the middle, turns one half around and interlaces
// the halves. Cards in the turned half have their orientation toggled.
func Riffle(deck tarot.Sequence, seed int64) tarot.Sequence {
	return RiffleStream(deck, randutil.New(seed))
}

// RiffleStream is Riffle driven by an explicit stream
func RiffleStream(deck tarot.Sequence, s randutil.Stream) tarot.Sequence {
	n := len(deck)
	if n <= 1 {
		return deck.Clone()
	}

	variation := float64((s.Float64() - 0.5) * cutVariation)
	cut := int(math.Floor(float64(n) * (0.5 + variation)))
	cut = max(0, min(cut, n))

	left := deck[:cut].Clone()
	right := deck[cut:].Clone()

	if s.Float64() < 0.5 {
		flipAll(left)
	} else {
		flipAll(right)
	}

	result := make(tarot.Sequence, 0, n)
	li, ri := 0, 0
	for li < len(left) && ri < len(right) {
		leftRemaining := len(left) - li
		rightRemaining := len(right) - ri

		run := randutil.IntN(s, maxRun) + 1
		leftRatio := float64(leftRemaining) / float64(leftRemaining+rightRemaining)

		if s.Float64() < leftRatio+sideBias {
			take := min(run, leftRemaining)
			result = append(result, left[li:li+take]...)
			li += take
		} else {
			take := min(run, rightRemaining)
			result = append(result, right[ri:ri+take]...)
			ri += take
		}
	}
	result = append(result, left[li:]...)
	result = append(result, right[ri:]...)

	return result
}

func flipAll(seq tarot.Sequence) {
	for i := range seq {
		seq[i] = seq[i].Flipped()
	}
}

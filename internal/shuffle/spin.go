package shuffle

import (
	"github.com/lox/tarotshuffle/internal/randutil"
	"github.com/lox/tarotshuffle/tarot"
)

// Spin re-randomizes orientation while keeping card order. Each card is
// reversed when its draw from the LCG stream falls below one half.
func Spin(deck tarot.Sequence, seed int64) tarot.Sequence {
	return SpinStream(deck, randutil.NewLCG(seed))
}

// SpinStream is Spin driven by an explicit stream
func SpinStream(deck tarot.Sequence, s randutil.Stream) tarot.Sequence {
	out := deck.Clone()
	if len(out) <= 1 {
		return out
	}
	spinInto(out, s)
	return out
}

// SpinHalves spins both halves of a split deck from one stream, consumed
// through the top half first and then the bottom half. The result matches
// spinning bottom-after-top as a single deck.
func SpinHalves(top, bottom tarot.Sequence, seed int64) (tarot.Sequence, tarot.Sequence) {
	t, b := top.Clone(), bottom.Clone()
	if len(t)+len(b) <= 1 {
		return t, b
	}
	s := randutil.NewLCG(seed)
	spinInto(t, s)
	spinInto(b, s)
	return t, b
}

func spinInto(seq tarot.Sequence, s randutil.Stream) {
	for i := range seq {
		seq[i].Reversed = s.Float64() < 0.5
	}
}

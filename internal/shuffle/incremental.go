package shuffle

import (
	"github.com/lox/tarotshuffle/internal/randutil"
	"github.com/lox/tarotshuffle/tarot"
)

// OverhandState is an overhand shuffle in progress. Remaining holds the cards
// still to be moved this pass, Result the cards already placed.
//
// States are values: ProcessChunk never mutates the state it is given.
type OverhandState struct {
	Remaining  tarot.Sequence
	Result     tarot.Sequence
	Complete   bool
	ChunkIndex int
}

// NewOverhandState starts a pass over a copy of deck
func NewOverhandState(deck tarot.Sequence) OverhandState {
	return OverhandState{
		Remaining: deck.Clone(),
		Result:    tarot.Sequence{},
	}
}

// Len is the number of cards held by the state
func (s OverhandState) Len() int {
	return len(s.Remaining) + len(s.Result)
}

// Deck is the observable order mid-shuffle: cards still waiting on top of the
// ones already placed.
func (s OverhandState) Deck() tarot.Sequence {
	return s.Remaining.Concat(s.Result)
}

// PassDone reports whether the current pass has placed every card
func (s OverhandState) PassDone() bool {
	return len(s.Remaining) == 0
}

// Next processes one chunk using the state's own chunk index
func (s OverhandState) Next(seed int64) OverhandState {
	return ProcessChunk(s, seed, s.ChunkIndex)
}

// ProcessChunk moves exactly one chunk from Remaining into Result, drawing
// from a stream seeded with seed+chunkIndex. When Remaining is empty the
// previous result becomes the next pass. A state with no cards at all is
// marked complete. The returned state's ChunkIndex is chunkIndex+1.
func ProcessChunk(state OverhandState, seed int64, chunkIndex int) OverhandState {
	if state.Complete {
		return state
	}

	next := OverhandState{
		Remaining:  state.Remaining.Clone(),
		Result:     state.Result.Clone(),
		ChunkIndex: chunkIndex + 1,
	}

	if len(next.Remaining) == 0 {
		next.Remaining, next.Result = next.Result, tarot.Sequence{}
	}
	if len(next.Remaining) == 0 {
		next.Complete = true
		return next
	}

	s := randutil.New(seed + int64(chunkIndex))
	var chunk tarot.Sequence
	chunk, next.Remaining = takeChunk(next.Remaining, s)
	next.Result = placeChunk(next.Result, chunk, s)
	return next
}

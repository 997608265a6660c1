package tarot

// Entry pairs a catalog card with its orientation inside a deck
type Entry struct {
	Card     Card `json:"card"`
	Reversed bool `json:"isReversed"`
}

// Flipped returns the entry rotated 180 degrees
func (e Entry) Flipped() Entry {
	e.Reversed = !e.Reversed
	return e
}

// Sequence is an ordered stack of entries. Index 0 is the top of the deck,
// the next card to be drawn.
type Sequence []Entry

// Upright builds a sequence of upright entries in the given card order
func Upright(cards []Card) Sequence {
	seq := make(Sequence, len(cards))
	for i, c := range cards {
		seq[i] = Entry{Card: c}
	}
	return seq
}

// Clone returns an independent copy. A nil sequence clones to an empty one.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Concat returns a new sequence holding s followed by every other sequence
func (s Sequence) Concat(others ...Sequence) Sequence {
	n := len(s)
	for _, o := range others {
		n += len(o)
	}
	out := make(Sequence, 0, n)
	out = append(out, s...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// IDs returns the card identifiers in stack order
func (s Sequence) IDs() []string {
	ids := make([]string, len(s))
	for i, e := range s {
		ids[i] = e.Card.ID
	}
	return ids
}

// ReversedCount returns how many entries are reversed
func (s Sequence) ReversedCount() int {
	n := 0
	for _, e := range s {
		if e.Reversed {
			n++
		}
	}
	return n
}

package tarot

import "testing"

func TestDeckStartsUpright(t *testing.T) {
	t.Parallel()
	deck := NewCatalog().Deck()

	if len(deck) != DeckSize {
		t.Fatalf("Expected %d entries, got %d", DeckSize, len(deck))
	}
	if deck.ReversedCount() != 0 {
		t.Errorf("Expected no reversed cards, got %d", deck.ReversedCount())
	}
	if deck[0].Card.Name != "The Fool" {
		t.Errorf("Expected The Fool on top, got %s", deck[0].Card)
	}
}

func TestSequenceCloneIsIndependent(t *testing.T) {
	t.Parallel()
	deck := NewCatalog().Deck()

	clone := deck.Clone()
	clone[0] = clone[0].Flipped()

	if deck[0].Reversed {
		t.Error("Flipping the clone must not affect the original")
	}

	var empty Sequence
	if c := empty.Clone(); c == nil || len(c) != 0 {
		t.Errorf("Clone of nil should be empty and non-nil, got %#v", c)
	}
}

func TestSequenceConcat(t *testing.T) {
	t.Parallel()
	deck := NewCatalog().Deck()

	top, bottom := deck[:3], deck[3:5]
	joined := bottom.Concat(top)

	want := []string{"major-03", "major-04", "major-00", "major-01", "major-02"}
	got := joined.IDs()
	if len(got) != len(want) {
		t.Fatalf("Expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("joined[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	joined[0] = joined[0].Flipped()
	if bottom[0].Reversed {
		t.Error("Concat must not alias its inputs")
	}
}

package tarot

import "testing"

func TestCatalogHas78UniqueCards(t *testing.T) {
	t.Parallel()
	catalog := NewCatalog()

	if catalog.Len() != DeckSize {
		t.Fatalf("Expected %d cards, got %d", DeckSize, catalog.Len())
	}

	seen := make(map[string]bool)
	majors, minors := 0, 0
	for _, c := range catalog.Cards() {
		if seen[c.ID] {
			t.Errorf("Duplicate card: %s", c.ID)
		}
		seen[c.ID] = true
		if c.IsMajor() {
			majors++
		} else {
			minors++
		}
	}

	if majors != 22 || minors != 56 {
		t.Errorf("Expected 22 major and 56 minor, got %d and %d", majors, minors)
	}
}

func TestCatalogOrder(t *testing.T) {
	t.Parallel()
	cards := NewCatalog().Cards()

	tests := []struct {
		index int
		id    string
		name  string
	}{
		{0, "major-00", "The Fool"},
		{21, "major-21", "The World"},
		{22, "minor-wands-1", "Ace of Wands"},
		{32, "minor-wands-11", "Page of Wands"},
		{36, "minor-cups-1", "Ace of Cups"},
		{77, "minor-pentacles-14", "King of Pentacles"},
	}

	for _, tt := range tests {
		if cards[tt.index].ID != tt.id || cards[tt.index].Name != tt.name {
			t.Errorf("cards[%d] = %s %q, want %s %q",
				tt.index, cards[tt.index].ID, cards[tt.index].Name, tt.id, tt.name)
		}
	}
}

func TestCatalogByID(t *testing.T) {
	t.Parallel()
	catalog := NewCatalog()

	card, ok := catalog.ByID("minor-swords-13")
	if !ok {
		t.Fatal("Expected to find minor-swords-13")
	}
	if card.Name != "Queen of Swords" || card.Suit != SuitSwords || card.Value != 13 {
		t.Errorf("Unexpected card: %+v", card)
	}

	if _, ok := catalog.ByID("minor-swords-15"); ok {
		t.Error("Should not find a 15 of swords")
	}
}

func TestCatalogCardsIsACopy(t *testing.T) {
	t.Parallel()
	catalog := NewCatalog()

	cards := catalog.Cards()
	cards[0].Name = "Changed"

	if first := catalog.Cards()[0]; first.Name != "The Fool" {
		t.Errorf("Catalog was mutated through Cards(): %q", first.Name)
	}
}

func TestImageFile(t *testing.T) {
	t.Parallel()
	catalog := NewCatalog()

	tests := map[string]string{
		"major-00":          "maj00.jpg",
		"major-17":          "maj17.jpg",
		"minor-wands-1":     "wands01.jpg",
		"minor-cups-12":     "cups12.jpg",
		"minor-pentacles-3": "pents03.jpg",
	}

	for id, want := range tests {
		card, _ := catalog.ByID(id)
		if got := card.ImageFile(); got != want {
			t.Errorf("%s: ImageFile() = %s, want %s", id, got, want)
		}
	}
}

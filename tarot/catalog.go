package tarot

import "fmt"

// DeckSize is the number of cards in a full tarot deck
const DeckSize = 78

var majorNames = [...]string{
	"The Fool", "The Magician", "The High Priestess", "The Empress",
	"The Emperor", "The Hierophant", "The Lovers", "The Chariot",
	"Strength", "The Hermit", "Wheel of Fortune", "Justice",
	"The Hanged Man", "Death", "Temperance", "The Devil",
	"The Tower", "The Star", "The Moon", "The Sun",
	"Judgement", "The World",
}

var minorRanks = [...]string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Page", "Knight", "Queen", "King",
}

// Catalog is the fixed, ordered table of all 78 cards. It is built once and
// never mutated.
type Catalog struct {
	cards []Card
	byID  map[string]int
}

// NewCatalog builds the canonical catalog: the 22 major arcana followed by
// wands, cups, swords and pentacles, each from Ace to King.
func NewCatalog() *Catalog {
	cards := make([]Card, 0, DeckSize)
	for value, name := range majorNames {
		cards = append(cards, Card{
			ID:     majorID(value),
			Name:   name,
			Suit:   SuitMajor,
			Value:  value,
			Arcana: ArcanaMajor,
		})
	}
	for _, suit := range MinorSuits {
		for i, rank := range minorRanks {
			value := i + 1
			cards = append(cards, Card{
				ID:     minorID(suit, value),
				Name:   fmt.Sprintf("%s of %s", rank, suit.Title()),
				Suit:   suit,
				Value:  value,
				Arcana: ArcanaMinor,
			})
		}
	}

	byID := make(map[string]int, len(cards))
	for i, c := range cards {
		byID[c.ID] = i
	}
	return &Catalog{cards: cards, byID: byID}
}

// Len returns the number of cards in the catalog
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Cards returns a copy of the catalog in canonical order
func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// ByID looks up a card by its identifier
func (c *Catalog) ByID(id string) (Card, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Card{}, false
	}
	return c.cards[i], true
}

// Deck returns the full catalog as an all-upright sequence in canonical order
func (c *Catalog) Deck() Sequence {
	return Upright(c.cards)
}

// Package tarot defines the 78-card tarot catalog and the deck entries the
// shuffle algorithms operate on.
package tarot

import (
	"fmt"
	"strings"
)

// Suit is the categorical suit of a card. Major arcana use SuitMajor.
type Suit string

const (
	SuitMajor     Suit = "major"
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// MinorSuits lists the minor arcana suits in catalog order
var MinorSuits = []Suit{SuitWands, SuitCups, SuitSwords, SuitPentacles}

// Title returns the capitalised suit name ("Wands")
func (s Suit) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Arcana is the arcana class of a card
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// Card is an immutable catalog card
type Card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Suit   Suit   `json:"suit"`
	Value  int    `json:"value"` // 0-21 for major, 1-14 for minor
	Arcana Arcana `json:"arcana"`
}

// String returns the display name of the card
func (c Card) String() string {
	return c.Name
}

// IsMajor reports whether the card belongs to the major arcana
func (c Card) IsMajor() bool {
	return c.Arcana == ArcanaMajor
}

// ImageFile returns the artwork filename for the card, e.g. "maj00.jpg" or
// "pents03.jpg".
func (c Card) ImageFile() string {
	if c.IsMajor() {
		return fmt.Sprintf("maj%02d.jpg", c.Value)
	}
	prefix := string(c.Suit)
	if c.Suit == SuitPentacles {
		prefix = "pents"
	}
	return fmt.Sprintf("%s%02d.jpg", prefix, c.Value)
}

func majorID(value int) string {
	return fmt.Sprintf("major-%02d", value)
}

func minorID(suit Suit, value int) string {
	return fmt.Sprintf("minor-%s-%d", suit, value)
}

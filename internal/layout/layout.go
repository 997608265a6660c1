// Package layout computes where deck piles and drawn cards sit on the table.
// All positions are in table pixels.
package layout

import (
	"fmt"
	"math"

	"github.com/lox/tarotshuffle/internal/randutil"
)

const (
	DeckWidth     = 140
	DiscardOffset = 40
	CardHeight    = 240
	SplitSpacing  = 20
	// StackThreshold is how far a drawn card may drift from the discard spot
	// and still count as untouched.
	StackThreshold = 20

	minStackOffset = 5
	stackSpread    = 5
	maxTilt        = 3
)

// DefaultDeck is where the deck sits on a fresh table
var DefaultDeck = Point{X: 600, Y: 200}

// Pile names one of the stacks cards can be drawn from or returned to
type Pile string

const (
	PileMain   Pile = "main"
	PileTop    Pile = "top"
	PileBottom Pile = "bottom"
)

// ParsePile converts a wire name into a Pile. An empty name means main.
func ParsePile(s string) (Pile, error) {
	switch Pile(s) {
	case "", PileMain:
		return PileMain, nil
	case PileTop, PileBottom:
		return Pile(s), nil
	default:
		return "", fmt.Errorf("unknown pile %q", s)
	}
}

// Point is a table coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the euclidean distance between two points
func (p Point) Distance(o Point) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint is halfway between a and b
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Placement is a drawn card's position and tilt in degrees
type Placement struct {
	Point
	Rotation float64 `json:"rotation"`
}

// Layout holds the pile positions. Top and Bottom are only set while the
// deck is split.
type Layout struct {
	Deck   Point  `json:"deck"`
	Top    *Point `json:"top,omitempty"`
	Bottom *Point `json:"bottom,omitempty"`
}

// New returns a joined layout with the deck at p
func New(p Point) Layout {
	return Layout{Deck: p}
}

// Split returns the layout after cutting the deck in two: the top half stays
// where the deck was and the bottom half goes one card height below.
func (l Layout) Split() Layout {
	top := l.Deck
	bottom := Point{X: l.Deck.X, Y: l.Deck.Y + CardHeight + SplitSpacing}
	return Layout{Deck: l.Deck, Top: &top, Bottom: &bottom}
}

// JoinAt returns a joined layout with the deck at p
func (l Layout) JoinAt(p Point) Layout {
	return Layout{Deck: p}
}

// JoinMidpoint joins the halves halfway between them. A layout that is not
// split is returned unchanged.
func (l Layout) JoinMidpoint() Layout {
	if l.Top == nil || l.Bottom == nil {
		return Layout{Deck: l.Deck}
	}
	return l.JoinAt(Midpoint(*l.Top, *l.Bottom))
}

// Position is where pile currently sits. Half piles fall back to the main
// deck when the layout is not split.
func (l Layout) Position(pile Pile) Point {
	switch {
	case pile == PileTop && l.Top != nil:
		return *l.Top
	case pile == PileBottom && l.Bottom != nil:
		return *l.Bottom
	default:
		return l.Deck
	}
}

// Move returns the layout with pile placed at p
func (l Layout) Move(pile Pile, p Point) Layout {
	out := l
	switch {
	case pile == PileTop && l.Top != nil:
		out.Top = &p
	case pile == PileBottom && l.Bottom != nil:
		out.Bottom = &p
	default:
		out.Deck = p
	}
	return out
}

// DiscardPosition is the spot to the right of pile where drawn cards land
func (l Layout) DiscardPosition(pile Pile) Point {
	p := l.Position(pile)
	return Point{X: p.X + DeckWidth + DiscardOffset, Y: p.Y}
}

// IsAtDiscard reports whether p is still on pile's discard spot
func (l Layout) IsAtDiscard(p Point, pile Pile) bool {
	return p.Distance(l.DiscardPosition(pile)) <= StackThreshold
}

// DrawPlacement places a newly drawn card. When the previous card is still on
// the discard spot the new one is stacked on it with a small seeded offset;
// otherwise it goes on the discard spot itself.
func (l Layout) DrawPlacement(prev *Placement, seed int64, pile Pile) Placement {
	rotation := Rotation(seed)
	if prev != nil && l.IsAtDiscard(prev.Point, pile) {
		off := StackOffset(seed)
		return Placement{
			Point:    Point{X: prev.X + off.X, Y: prev.Y + off.Y},
			Rotation: rotation,
		}
	}
	return Placement{Point: l.DiscardPosition(pile), Rotation: rotation}
}

// Rotation is a seeded tilt in [-3, 3) degrees from upright
func Rotation(seed int64) float64 {
	return randutil.Unit(seed)*2*maxTilt - maxTilt
}

// StackOffset is a seeded displacement of 5 to 10 pixels in any direction
func StackOffset(seed int64) Point {
	angle := randutil.Unit(seed) * math.Pi * 2
	distance := minStackOffset + randutil.Unit(seed*2)*stackSpread
	return Point{X: math.Cos(angle) * distance, Y: math.Sin(angle) * distance}
}

package deckstack

import (
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/shuffle"
	"github.com/lox/tarotshuffle/tarot"
)

// SetDrawFaceUp chooses whether newly drawn cards land face up
func (c *Coordinator) SetDrawFaceUp(faceUp bool) {
	_ = c.change(EventMove, false, func() error {
		c.faceUp = faceUp
		return nil
	})
}

// Draw takes the top card of pile and lays it on the table. While joined
// only PileMain can be drawn from; while split only the halves can.
func (c *Coordinator) Draw(pile layout.Pile) (DrawnCard, error) {
	var drawn DrawnCard
	err := c.change(EventDraw, true, func() error {
		src, err := c.pileLocked(pile)
		if err != nil {
			return err
		}
		if len(*src) == 0 {
			return ErrEmptyPile
		}

		id, err := c.ids.New()
		if err != nil {
			return err
		}

		entry := (*src)[0]
		*src = (*src)[1:].Clone()

		seed := int64(c.seeds.GenerateSeed())
		drawn = DrawnCard{
			InstanceID: id,
			Card:       entry.Card,
			Reversed:   entry.Reversed,
			FaceUp:     c.faceUp,
			Pile:       pile,
			Placement:  c.layout.DrawPlacement(c.stackBaseLocked(pile), seed, pile),
			Z:          c.nextZ,
			DrawnAt:    c.clock.Now(),
		}
		c.nextZ++
		c.drawn = append(c.drawn, drawn)
		c.session = append(c.session, drawn)

		c.logger.Debug("Drew card", "card", entry.Card.ID, "pile", pile, "reversed", entry.Reversed)
		c.autoRejoinLocked()
		return nil
	})
	return drawn, err
}

func (c *Coordinator) pileLocked(pile layout.Pile) (*tarot.Sequence, error) {
	switch c.topology {
	case Split:
		switch pile {
		case layout.PileTop:
			return &c.top, nil
		case layout.PileBottom:
			return &c.bottom, nil
		default:
			return nil, ErrAlreadySplit
		}
	default:
		if pile != layout.PileMain {
			return nil, ErrNotSplit
		}
		return &c.deck, nil
	}
}

// stackBaseLocked finds the most recent drawn card still sitting on pile's
// discard spot.
func (c *Coordinator) stackBaseLocked(pile layout.Pile) *layout.Placement {
	for i := len(c.drawn) - 1; i >= 0; i-- {
		p := c.drawn[i].Placement
		if c.layout.IsAtDiscard(p.Point, pile) {
			return &p
		}
	}
	return nil
}

// returnTargetLocked is the container returned cards go into: the bottom
// half while split, otherwise the deck.
func (c *Coordinator) returnTargetLocked() *tarot.Sequence {
	if c.topology == Split {
		return &c.bottom
	}
	return &c.deck
}

// ReturnCard puts a drawn card back and riffles the pile it went into
func (c *Coordinator) ReturnCard(instanceID string) error {
	return c.change(EventReturn, true, func() error {
		idx := c.drawnIndexLocked(instanceID)
		if idx < 0 {
			return ErrUnknownInstance
		}
		card := c.drawn[idx]
		c.drawn = append(c.drawn[:idx:idx], c.drawn[idx+1:]...)

		target := c.returnTargetLocked()
		*target = target.Concat(tarot.Sequence{card.Entry()})
		if len(*target) > 1 {
			*target = shuffle.Riffle(*target, int64(c.seeds.GenerateSeed()))
		}
		c.logger.Debug("Returned card", "card", card.Card.ID, "cards", len(*target))
		return nil
	})
}

// ReturnAll puts every drawn card back with one riffle at the end. With no
// cards on the table it does nothing.
func (c *Coordinator) ReturnAll() error {
	return c.change(EventReturnAll, true, func() error {
		if len(c.drawn) == 0 {
			return nil
		}
		returned := make(tarot.Sequence, len(c.drawn))
		for i, d := range c.drawn {
			returned[i] = d.Entry()
		}
		c.drawn = nil

		target := c.returnTargetLocked()
		*target = shuffle.Riffle(target.Concat(returned), int64(c.seeds.GenerateSeed()))
		c.logger.Debug("Returned all cards", "returned", len(returned), "cards", len(*target))
		return nil
	})
}

// Reset clears the table: drawn cards and the session log are discarded and
// the deck goes back to catalog order, upright and joined, where it sits.
func (c *Coordinator) Reset() error {
	return c.change(EventReset, true, func() error {
		c.drawn = nil
		c.session = nil
		c.nextZ = 1
		c.deck = c.catalog.Deck()
		c.top, c.bottom = nil, nil
		c.topology = Joined
		c.layout = c.layout.JoinAt(c.layout.Deck)
		return nil
	})
}

// SetPosition moves a pile on the table
func (c *Coordinator) SetPosition(pile layout.Pile, p layout.Point) {
	_ = c.change(EventMove, false, func() error {
		c.layout = c.layout.Move(pile, p)
		return nil
	})
}

// MoveCard repositions a drawn card
func (c *Coordinator) MoveCard(instanceID string, p layout.Placement) error {
	return c.change(EventMove, false, func() error {
		idx := c.drawnIndexLocked(instanceID)
		if idx < 0 {
			return ErrUnknownInstance
		}
		c.drawn[idx].Placement = p
		return nil
	})
}

// BringToFront raises a drawn card above all others and returns its new
// z-index.
func (c *Coordinator) BringToFront(instanceID string) (int, error) {
	var z int
	err := c.change(EventMove, false, func() error {
		idx := c.drawnIndexLocked(instanceID)
		if idx < 0 {
			return ErrUnknownInstance
		}
		z = c.nextZ
		c.nextZ++
		c.drawn[idx].Z = z
		return nil
	})
	return z, err
}

// FlipCard turns a drawn card face up or face down
func (c *Coordinator) FlipCard(instanceID string) error {
	return c.change(EventMove, false, func() error {
		idx := c.drawnIndexLocked(instanceID)
		if idx < 0 {
			return ErrUnknownInstance
		}
		c.drawn[idx].FaceUp = !c.drawn[idx].FaceUp
		return nil
	})
}

func (c *Coordinator) drawnIndexLocked(instanceID string) int {
	for i, d := range c.drawn {
		if d.InstanceID == instanceID {
			return i
		}
	}
	return -1
}

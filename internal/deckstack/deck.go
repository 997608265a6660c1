package deckstack

import (
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/shuffle"
	"github.com/lox/tarotshuffle/tarot"
)

// nextSeed draws a seed for a user-requested shuffle and records the click
// that asked for it.
func (c *Coordinator) nextSeed() int64 {
	s := c.seeds.GenerateSeed()
	c.seeds.TrackClick()
	return int64(s)
}

// joinForShuffleLocked merges a split deck top half first, with the deck
// placed halfway between the two halves.
func (c *Coordinator) joinForShuffleLocked() {
	if c.topology != Split {
		return
	}
	c.deck = c.top.Concat(c.bottom)
	c.top, c.bottom = nil, nil
	c.layout = c.layout.JoinMidpoint()
	c.topology = Joined
}

// ShuffleOnce riffles the whole deck. A split deck is joined first.
func (c *Coordinator) ShuffleOnce() error {
	return c.change(EventShuffle, true, func() error {
		c.joinForShuffleLocked()
		seed := c.nextSeed()
		c.deck = shuffle.Riffle(c.deck, seed)
		c.logger.Debug("Riffled deck", "seed", seed, "cards", len(c.deck))
		return nil
	})
}

// Randomize mixes the whole deck thoroughly. A split deck is joined first.
func (c *Coordinator) Randomize() error {
	return c.change(EventRandomize, true, func() error {
		c.joinForShuffleLocked()
		seed := c.nextSeed()
		c.deck = shuffle.Randomize(c.deck, seed)
		c.logger.Debug("Randomized deck", "seed", seed, "cards", len(c.deck))
		return nil
	})
}

// Spin re-randomizes orientation without changing order. A split deck stays
// split; both halves are spun from one stream, top half first.
func (c *Coordinator) Spin() error {
	return c.change(EventSpin, true, func() error {
		if c.topology == Split {
			if len(c.top)+len(c.bottom) == 0 {
				return ErrEmptyPile
			}
			seed := c.nextSeed()
			c.top, c.bottom = shuffle.SpinHalves(c.top, c.bottom, seed)
			c.logger.Debug("Spun halves", "seed", seed, "top", len(c.top), "bottom", len(c.bottom))
			return nil
		}
		if len(c.deck) == 0 {
			return ErrEmptyPile
		}
		seed := c.nextSeed()
		c.deck = shuffle.Spin(c.deck, seed)
		c.logger.Debug("Spun deck", "seed", seed, "reversed", c.deck.ReversedCount())
		return nil
	})
}

// Split cuts the deck at floor(n/2). The first half keeps the top cards.
func (c *Coordinator) Split() error {
	return c.change(EventSplit, true, func() error {
		if c.topology == Split {
			return ErrAlreadySplit
		}
		if len(c.deck) < 2 {
			return ErrInsufficientCards
		}
		mid := len(c.deck) / 2
		c.top = c.deck[:mid].Clone()
		c.bottom = c.deck[mid:].Clone()
		c.deck = nil
		c.layout = c.layout.Split()
		c.topology = Split
		return nil
	})
}

// Rejoin puts the bottom half on top of the top half. The deck keeps its
// original position.
func (c *Coordinator) Rejoin() error {
	return c.change(EventRejoin, true, func() error {
		if c.topology != Split {
			return ErrNotSplit
		}
		c.deck = c.bottom.Concat(c.top)
		c.top, c.bottom = nil, nil
		c.layout = c.layout.JoinAt(c.layout.Deck)
		c.topology = Joined
		return nil
	})
}

// autoRejoinLocked collapses a split deck whose half has run out into the
// surviving half, which keeps its position.
func (c *Coordinator) autoRejoinLocked() {
	if c.topology != Split {
		return
	}
	var survivor tarot.Sequence
	var at layout.Point
	switch {
	case len(c.top) == 0 && len(c.bottom) > 0:
		survivor, at = c.bottom, c.layout.Position(layout.PileBottom)
	case len(c.bottom) == 0 && len(c.top) > 0:
		survivor, at = c.top, c.layout.Position(layout.PileTop)
	default:
		return
	}
	c.deck = survivor
	c.layout = c.layout.JoinAt(at)
	c.top, c.bottom = nil, nil
	c.topology = Joined
	c.logger.Debug("Split deck rejoined after a half ran out", "cards", len(c.deck))
}

// StartContinuous begins the continuous overhand shuffle. A split deck is
// joined first. Starting while already running changes nothing.
func (c *Coordinator) StartContinuous() error {
	return c.change(EventStart, false, func() error {
		if c.controller.Running() {
			return nil
		}
		c.joinForShuffleLocked()
		c.controller.Start(c.deck)
		return nil
	})
}

// StopContinuous stops the continuous shuffle, keeping the deck in whatever
// order the last tick left it.
func (c *Coordinator) StopContinuous() error {
	return c.change(EventStop, false, func() error {
		c.controller.Stop()
		return nil
	})
}

// StepContinuous moves one chunk immediately when the continuous shuffle is
// running. It reports whether a chunk was moved.
func (c *Coordinator) StepContinuous() bool {
	_, ok := c.controller.Step()
	return ok
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/lox/tarotshuffle/internal/fileutil"
	"github.com/lox/tarotshuffle/internal/shuffle"
	"github.com/lox/tarotshuffle/tarot"
)

// ShuffleCmd shuffles the canonical deck once, headless
type ShuffleCmd struct {
	Seed int64  `short:"s" required:"" help:"Shuffle seed"`
	Algo string `short:"a" default:"hybrid" enum:"riffle,overhand,hybrid,randomize,spin" help:"Shuffle to apply (${enum})"`
	Out  string `short:"o" help:"Also write the result as JSON to this file" type:"path"`
}

// ShuffledCard is one card in a written shuffle result
type ShuffledCard struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Reversed bool   `json:"isReversed"`
	Image    string `json:"image"`
}

// ShuffleResult is the JSON written by --out
type ShuffleResult struct {
	Algorithm string         `json:"algorithm"`
	Seed      int64          `json:"seed"`
	Cards     []ShuffledCard `json:"cards"`
}

func (c *ShuffleCmd) Run(k *kong.Context) error {
	fn, err := shuffle.Lookup(c.Algo)
	if err != nil {
		return err
	}
	deck := fn(tarot.NewCatalog().Deck(), c.Seed)

	result := ShuffleResult{Algorithm: c.Algo, Seed: c.Seed, Cards: make([]ShuffledCard, len(deck))}
	for i, e := range deck {
		result.Cards[i] = ShuffledCard{
			Position: i + 1,
			ID:       e.Card.ID,
			Name:     e.Card.Name,
			Reversed: e.Reversed,
			Image:    e.Card.ImageFile(),
		}
	}

	w := tabwriter.NewWriter(k.Stdout, 0, 0, 2, ' ', 0)
	for _, card := range result.Cards {
		orientation := "upright"
		if card.Reversed {
			orientation = "reversed"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", card.Position, card.Name, orientation)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if c.Out != "" {
		if err := fileutil.WriteJSONAtomic(c.Out, result, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Out, err)
		}
	}
	return nil
}

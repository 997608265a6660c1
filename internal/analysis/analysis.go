// Package analysis measures how well the shuffles mix a deck by running
// many seeded trials in parallel.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/tarotshuffle/internal/shuffle"
	"github.com/lox/tarotshuffle/tarot"
)

// Options controls a measurement run
type Options struct {
	Algorithm string
	Samples   int
	Workers   int
	BaseSeed  int64
	// DeckSize truncates the catalog deck; zero means the full deck
	DeckSize int
}

// Summary accumulates one metric across samples
type Summary struct {
	N     int     `json:"n"`
	Sum   float64 `json:"sum"`
	SumSq float64 `json:"sumSq"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Add records one observation
func (s *Summary) Add(v float64) {
	if s.N == 0 || v < s.Min {
		s.Min = v
	}
	if s.N == 0 || v > s.Max {
		s.Max = v
	}
	s.N++
	s.Sum += v
	s.SumSq += v * v
}

// Merge folds another summary into s
func (s *Summary) Merge(o Summary) {
	if o.N == 0 {
		return
	}
	if s.N == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	if s.N == 0 || o.Max > s.Max {
		s.Max = o.Max
	}
	s.N += o.N
	s.Sum += o.Sum
	s.SumSq += o.SumSq
}

// Mean returns the arithmetic mean
func (s Summary) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// StdDev returns the sample standard deviation
func (s Summary) StdDev() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
	return math.Sqrt(math.Max(v, 0))
}

// Report is the result of a measurement run
type Report struct {
	Algorithm string `json:"algorithm"`
	DeckSize  int    `json:"deckSize"`
	Samples   int    `json:"samples"`
	// Displacement is the mean distance each card moved
	Displacement Summary `json:"displacement"`
	// FixedPoints counts cards that stayed put
	FixedPoints Summary `json:"fixedPoints"`
	// Reversed is the fraction of reversed cards
	Reversed Summary `json:"reversed"`
	// RisingSequences counts maximal runs of consecutive original positions
	RisingSequences Summary `json:"risingSequences"`
}

func (r *Report) merge(o Report) {
	r.Displacement.Merge(o.Displacement)
	r.FixedPoints.Merge(o.FixedPoints)
	r.Reversed.Merge(o.Reversed)
	r.RisingSequences.Merge(o.RisingSequences)
}

// Measure shuffles an upright catalog deck Samples times, sample i using
// seed BaseSeed+i, and summarizes the results. Work is split across
// Workers goroutines.
func Measure(ctx context.Context, opts Options) (Report, error) {
	fn, err := shuffle.Lookup(opts.Algorithm)
	if err != nil {
		return Report{}, err
	}
	if opts.Samples <= 0 {
		return Report{}, errors.New("samples must be positive")
	}

	deck := tarot.NewCatalog().Deck()
	if opts.DeckSize > 0 {
		if opts.DeckSize > len(deck) {
			return Report{}, fmt.Errorf("deck size %d exceeds %d cards", opts.DeckSize, len(deck))
		}
		deck = deck[:opts.DeckSize]
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}
	workers = min(workers, opts.Samples)

	results := make([]Report, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := w; i < opts.Samples; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				out := fn(deck, opts.BaseSeed+int64(i))
				observe(&results[w], deck, out)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Algorithm: opts.Algorithm,
		DeckSize:  len(deck),
		Samples:   opts.Samples,
	}
	for _, r := range results {
		report.merge(r)
	}
	return report, nil
}

func observe(r *Report, before, after tarot.Sequence) {
	origin := make(map[string]int, len(before))
	for i, e := range before {
		origin[e.Card.ID] = i
	}

	// pos[v] is where the card originally at v ended up
	pos := make([]int, len(after))
	displacement, fixed := 0, 0
	for i, e := range after {
		o := origin[e.Card.ID]
		pos[o] = i
		if o == i {
			fixed++
		}
		displacement += abs(o - i)
	}

	rising := 0
	if len(pos) > 0 {
		rising = 1
		for v := 0; v+1 < len(pos); v++ {
			if pos[v+1] < pos[v] {
				rising++
			}
		}
	}

	n := float64(max(len(after), 1))
	r.Displacement.Add(float64(displacement) / n)
	r.FixedPoints.Add(float64(fixed))
	r.Reversed.Add(float64(after.ReversedCount()) / n)
	r.RisingSequences.Add(float64(rising))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

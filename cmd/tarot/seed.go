package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"

	"github.com/lox/tarotshuffle/internal/analysis"
	"github.com/lox/tarotshuffle/internal/seed"
)

// SeedCmd feeds synthetic telemetry to a seed generator and prints what it
// produces
type SeedCmd struct {
	Moves   int           `default:"50" help:"Pointer moves to record before the first seed"`
	Clicks  int           `default:"3" help:"Clicks to record before the first seed"`
	Hover   int64         `default:"0" help:"Hover time in milliseconds"`
	Count   int           `default:"5" help:"Seeds to print, moving the pointer between each"`
	Samples int           `default:"1000" help:"Seed requests used to measure the repeat rate"`
	Pace    time.Duration `default:"1ms" help:"Time to let pass between pointer moves while measuring the repeat rate"`
}

func (c *SeedCmd) Run(k *kong.Context) error {
	clock := quartz.NewReal()

	gen := seed.New(clock)
	for i := range c.Moves {
		gen.TrackMouseMove(float64(i*37%800), float64(i*53%600))
	}
	gen.AddHoverTime(c.Hover)
	for range c.Clicks {
		gen.TrackClick()
	}

	data := gen.BehaviorData()
	_, _ = fmt.Fprintf(k.Stdout, "moves=%d clicks=%d hover=%dms\n",
		len(data.MouseMovements), len(data.ClickTimings), data.HoverTime)

	for i := range c.Count {
		_, _ = fmt.Fprintf(k.Stdout, "seed %d: %d\n", i+1, gen.GenerateSeed())
		gen.TrackMouseMove(float64(400+i), float64(300-i))
	}

	var between func()
	if c.Pace > 0 {
		between = func() {
			t := clock.NewTimer(c.Pace, "seed", "pace")
			<-t.C
		}
	}
	rate := analysis.SeedCollisions(seed.New(clock), c.Samples, between)
	_, _ = fmt.Fprintf(k.Stdout, "repeat rate over %d requests: %.4f\n", c.Samples, rate)
	return nil
}

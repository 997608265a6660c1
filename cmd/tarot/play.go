package main

import (
	"fmt"
	"os"

	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/seed"
	"github.com/lox/tarotshuffle/internal/tui"
	"github.com/lox/tarotshuffle/tarot"
)

// PlayCmd runs the terminal table
type PlayCmd struct {
	LogFile string `default:"tarot-play.log" help:"Where to write logs while the table owns the terminal" type:"path"`
	NoColor bool   `help:"Render without colors"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := newLogger(logFile, cfg.Server.LogLevel)
	clock := quartz.NewReal()

	x, y := cfg.DeckPosition()
	seeds := seed.New(clock,
		seed.WithMouseSamples(cfg.Shuffle.MouseSamples),
		seed.WithClickSamples(cfg.Shuffle.ClickSamples),
	)
	table := deckstack.New(tarot.NewCatalog(), seeds, clock,
		deckstack.WithLogger(logger),
		deckstack.WithTickInterval(cfg.TickInterval()),
		deckstack.WithDeckPosition(layout.Point{X: x, Y: y}),
	)
	opts := []tui.Option{
		tui.WithLogger(logger),
		tui.WithNoticeDelay(cfg.NoticeDelay()),
	}
	if c.NoColor {
		opts = append(opts, tui.WithColorProfile(termenv.Ascii))
	}
	model := tui.NewModel(table, seeds, clock, opts...)

	logger.Info("Starting terminal table", "tickInterval", cfg.TickInterval())

	ctx, cancel := signalContext(logger)
	defer cancel()
	return tui.Run(ctx, model, os.Stdin, os.Stdout)
}

package main

import (
	"os"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/seed"
	"github.com/lox/tarotshuffle/internal/server"
	"github.com/lox/tarotshuffle/tarot"
)

// ServeCmd runs the WebSocket bridge
type ServeCmd struct {
	Addr           string   `short:"a" help:"Server address to bind to (overrides config)"`
	NoticeDelay    string   `help:"Delay before a shuffle notice resolves, e.g. 300ms (overrides config)"`
	AllowedOrigins []string `help:"Browser origins allowed to connect (overrides config)"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if c.NoticeDelay != "" {
		cfg.Shuffle.NoticeDelay = c.NoticeDelay
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if len(c.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = c.AllowedOrigins
	}
	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := newLogger(os.Stderr, cfg.Server.LogLevel)
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
	srv := server.NewServer(addr, table, seeds, clock, logger,
		server.WithNoticeDelay(cfg.NoticeDelay()),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
	)

	logger.Info("Starting tarot table",
		"addr", addr,
		"tickInterval", cfg.TickInterval(),
		"noticeDelay", cfg.NoticeDelay(),
		"origins", len(cfg.Server.AllowedOrigins))

	ctx, cancel := signalContext(logger)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		return table.StopContinuous()
	})
	return g.Wait()
}

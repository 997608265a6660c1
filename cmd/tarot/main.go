package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"tarot.hcl" help:"Path to HCL configuration file" type:"path"`
	LogLevel string           `short:"l" help:"Log level (overrides config)"`

	Serve   ServeCmd   `cmd:"" help:"Serve the table to browsers over WebSocket"`
	Play    PlayCmd    `cmd:"" help:"Shuffle and draw at a terminal table"`
	Shuffle ShuffleCmd `cmd:"" help:"Shuffle the canonical deck once with a fixed seed"`
	Analyze AnalyzeCmd `cmd:"" help:"Measure how well a shuffle mixes the deck"`
	Seed    SeedCmd    `cmd:"" help:"Derive seeds from synthetic pointer telemetry"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tarot"),
		kong.Description("Tarot deck shuffler seeded by how you move"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

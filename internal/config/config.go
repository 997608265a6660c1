// Package config loads the table configuration from HCL.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete configuration
type Config struct {
	Server  ServerSettings  `hcl:"server,block"`
	Shuffle ShuffleSettings `hcl:"shuffle,block"`
	Table   TableSettings   `hcl:"table,block"`
}

// ServerSettings configures the WebSocket bridge
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
}

// ShuffleSettings configures timing and seed telemetry
type ShuffleSettings struct {
	TickInterval string `hcl:"tick_interval,optional"`
	NoticeDelay  string `hcl:"notice_delay,optional"`
	MouseSamples int    `hcl:"mouse_samples,optional"`
	ClickSamples int    `hcl:"click_samples,optional"`
}

// TableSettings places the deck
type TableSettings struct {
	DeckX *float64 `hcl:"deck_x,optional"`
	DeckY *float64 `hcl:"deck_y,optional"`
}

// file mirrors Config with every block optional
type file struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Shuffle *ShuffleSettings `hcl:"shuffle,block"`
	Table   *TableSettings   `hcl:"table,block"`
}

// Default returns the default configuration
func Default() *Config {
	x, y := 600.0, 200.0
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Shuffle: ShuffleSettings{
			TickInterval: "150ms",
			NoticeDelay:  "300ms",
			MouseSamples: 100,
			ClickSamples: 50,
		},
		Table: TableSettings{
			DeckX: &x,
			DeckY: &y,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, filling unset values from Default
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	defaults := Default()

	if raw.Server != nil {
		config.Server = *raw.Server
	}
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}

	if raw.Shuffle != nil {
		config.Shuffle = *raw.Shuffle
	}
	if config.Shuffle.TickInterval == "" {
		config.Shuffle.TickInterval = defaults.Shuffle.TickInterval
	}
	if config.Shuffle.NoticeDelay == "" {
		config.Shuffle.NoticeDelay = defaults.Shuffle.NoticeDelay
	}
	if config.Shuffle.MouseSamples == 0 {
		config.Shuffle.MouseSamples = defaults.Shuffle.MouseSamples
	}
	if config.Shuffle.ClickSamples == 0 {
		config.Shuffle.ClickSamples = defaults.Shuffle.ClickSamples
	}

	if raw.Table != nil {
		if raw.Table.DeckX != nil {
			config.Table.DeckX = raw.Table.DeckX
		}
		if raw.Table.DeckY != nil {
			config.Table.DeckY = raw.Table.DeckY
		}
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}

	tick, err := time.ParseDuration(c.Shuffle.TickInterval)
	if err != nil {
		return fmt.Errorf("invalid tick interval: %w", err)
	}
	if tick <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	notice, err := time.ParseDuration(c.Shuffle.NoticeDelay)
	if err != nil {
		return fmt.Errorf("invalid notice delay: %w", err)
	}
	if notice < 0 {
		return fmt.Errorf("notice delay must not be negative")
	}

	if c.Shuffle.MouseSamples < 2 {
		return fmt.Errorf("mouse samples must be at least 2, got %d", c.Shuffle.MouseSamples)
	}
	if c.Shuffle.ClickSamples < 2 {
		return fmt.Errorf("click samples must be at least 2, got %d", c.Shuffle.ClickSamples)
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TickInterval is the parsed continuous shuffle interval. Call Validate first.
func (c *Config) TickInterval() time.Duration {
	d, _ := time.ParseDuration(c.Shuffle.TickInterval)
	return d
}

// NoticeDelay is the parsed delay before a shuffle notice resolves
func (c *Config) NoticeDelay() time.Duration {
	d, _ := time.ParseDuration(c.Shuffle.NoticeDelay)
	return d
}

// DeckPosition returns the configured deck coordinates
func (c *Config) DeckPosition() (x, y float64) {
	return *c.Table.DeckX, *c.Table.DeckY
}

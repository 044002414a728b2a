// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// termclock shows the time as a terminal session typing commands and their
// output.
//
// The face can be shown on the console, streamed over HTTP or sent to a
// ssd1306 OLED.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/GermanBionicSystems/termclock/config"
)

// CLI is the command line grammar.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"termclock.yaml" env:"TERMCLOCK_CONFIG"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Run      RunCmd      `cmd:"" default:"1" help:"Run the clock face"`
	Snapshot SnapshotCmd `cmd:"" help:"Render one frame of the face to a PNG file"`
	Settings SettingsCmd `cmd:"" help:"Show or change the stored settings"`
}

// AfterApply sets up logging before any command runs.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	setupLogging(level)
	return nil
}

// loadConfig reads the configuration and applies its log level unless -v
// was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if !c.Verbose {
		level, _ := cfg.Logging.SlogLevel()
		setupLogging(level)
	}
	return cfg, nil
}

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	// .env must be loaded before kong resolves env tags.
	if err := config.LoadEnv(); err != nil {
		slog.Warn("Failed to load environment file", "error", err)
	}
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("termclock"),
		kong.Description("A clock face that types its own time."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

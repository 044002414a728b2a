// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nats-io/nats.go"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/termclock/persist"
	"github.com/GermanBionicSystems/termclock/remote"
	"github.com/GermanBionicSystems/termclock/settings"
)

// SettingsCmd groups the settings subcommands.
type SettingsCmd struct {
	Show ShowSettingsCmd `cmd:"" help:"Print the stored settings"`
	Set  SetSettingsCmd  `cmd:"" help:"Change settings, e.g. typing_animation=false timezone_offset=3600"`
}

// ShowSettingsCmd prints the stored settings as YAML.
type ShowSettingsCmd struct{}

// Run implements settings show.
func (ShowSettingsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	store, err := persist.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	s, err := settings.Load(context.Background(), store)
	if err != nil {
		slog.Warn("Stored settings unusable, showing defaults", "error", err)
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(s)
}

// SetSettingsCmd updates the stored settings, or the settings of a running
// clock when --publish is given.
type SetSettingsCmd struct {
	Assignments []string `arg:"" help:"key=value pairs"`
	Publish     bool     `help:"Send the update over NATS instead of writing the local store"`
}

// Run implements settings set.
func (c *SetSettingsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	tuples := make([]settings.Tuple, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		t, err := remote.ParseAssignment(a)
		if err != nil {
			return err
		}
		tuples = append(tuples, t)
	}

	if c.Publish {
		if cfg.Remote.NATSURL == "" {
			return errors.New("--publish needs remote.nats_url")
		}
		nc, err := nats.Connect(cfg.Remote.NATSURL, nats.Name("termclock-settings"))
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer nc.Close()
		if err := remote.Publish(nc, cfg.Remote.SubjectPrefix, tuples); err != nil {
			return err
		}
		slog.Info("Published settings update", "prefix", cfg.Remote.SubjectPrefix, "tuples", len(tuples))
		return nil
	}

	ctx := context.Background()
	store, err := persist.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	cur, err := settings.Load(ctx, store)
	if err != nil {
		slog.Warn("Stored settings unusable, starting from defaults", "error", err)
	}
	next := cur.Apply(tuples...)
	if err := settings.Save(ctx, store, next); err != nil {
		return err
	}
	slog.Info("Saved settings", "path", cfg.Storage.Path, "settings", next)
	return nil
}

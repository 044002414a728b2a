// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GermanBionicSystems/termclock/animation"
	"github.com/GermanBionicSystems/termclock/persist"
	"github.com/GermanBionicSystems/termclock/settings"
	"github.com/GermanBionicSystems/termclock/timefmt"
)

// SnapshotCmd renders the face at a given animation progress.
type SnapshotCmd struct {
	Output string `arg:"" optional:"" help:"PNG file to write" default:"termclock.png"`
	At     string `help:"Time to show, RFC 3339; defaults to now"`
	Steps  uint   `help:"Animation steps to run before rendering" default:"24"`
}

// stepper is an animation.Scheduler that runs timers on demand.
type stepper struct {
	id animation.TimerID
	fn func()
}

func (s *stepper) Schedule(_ time.Duration, fn func()) animation.TimerID {
	s.id++
	s.fn = fn
	return s.id
}

func (s *stepper) Cancel(id animation.TimerID) {
	if id == s.id {
		s.fn = nil
	}
}

// step fires the pending timer. It returns false when nothing is armed.
func (s *stepper) step() bool {
	fn := s.fn
	if fn == nil {
		return false
	}
	s.fn = nil
	fn()
	return true
}

// Run implements the snapshot command.
func (c *SnapshotCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Clock.Loc()
	if err != nil {
		return err
	}
	at := time.Now().In(loc)
	if c.At != "" {
		if at, err = time.Parse(time.RFC3339, c.At); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}
	locale, err := timefmt.Parse(cfg.Clock.Format)
	if err != nil {
		return err
	}
	prefs := storedSettings(cfg.Storage.Path)
	// The settled face is what a snapshot is for.
	prefs.AnimationEnabled = true

	out := &output{}
	canvas, err := newCanvas(out, &cfg.Display)
	if err != nil {
		return err
	}
	var sched stepper
	m := animation.New(canvas, &sched, timefmt.Fixed(at), &animation.Opts{Locale: locale, Settings: prefs})
	m.Start()
	for i := uint(0); i < c.Steps && sched.step(); i++ {
	}
	if err := canvas.SavePNG(c.Output); err != nil {
		return err
	}
	slog.Info("Wrote snapshot", "path", c.Output, "time", at, "progress", m.State().Progress)
	return nil
}

// storedSettings returns the persisted settings at path, or Defaults.
func storedSettings(path string) settings.Settings {
	store, err := persist.Open(path)
	if err != nil {
		slog.Warn("Cannot open settings store", "error", err)
		return settings.Defaults
	}
	defer store.Close()
	s, err := settings.Load(context.Background(), store)
	if err != nil {
		slog.Warn("Stored settings unusable, using defaults", "error", err)
	}
	return s
}

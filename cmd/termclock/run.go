// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/termclock/animation"
	"github.com/GermanBionicSystems/termclock/metrics"
	"github.com/GermanBionicSystems/termclock/minute"
	"github.com/GermanBionicSystems/termclock/persist"
	"github.com/GermanBionicSystems/termclock/remote"
	"github.com/GermanBionicSystems/termclock/runloop"
	"github.com/GermanBionicSystems/termclock/settings"
	"github.com/GermanBionicSystems/termclock/timefmt"
	"github.com/GermanBionicSystems/termclock/vibe"
)

// RunCmd runs the clock face until interrupted.
type RunCmd struct {
	Backend string `help:"Override display.backend (terminal, preview, ssd1306 or none)"`
	Addr    string `help:"Override http.addr"`
}

// zoneClock reads a clockwork.Clock in a fixed location.
type zoneClock struct {
	clockwork.Clock
	loc *time.Location
}

func (z zoneClock) Now() time.Time {
	return z.Clock.Now().In(z.loc)
}

// Run implements the run command.
func (r *RunCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if r.Backend != "" {
		cfg.Display.Backend = r.Backend
	}
	if r.Addr != "" {
		cfg.HTTP.Addr = r.Addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id := uuid.NewString()
	slog.Info("Starting termclock", "instance", id, "backend", cfg.Display.Backend)

	store, err := persist.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	prefs, err := settings.Load(ctx, store)
	if err != nil {
		slog.Warn("Stored settings unusable, using defaults", "error", err)
	}

	locale, err := timefmt.Parse(cfg.Clock.Format)
	if err != nil {
		return err
	}
	loc, err := cfg.Clock.Loc()
	if err != nil {
		return err
	}

	out, err := openDisplay(&cfg.Display)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Warn("Failed to close display", "error", err)
		}
	}()
	canvas, err := newCanvas(out, &cfg.Display)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	rec := metrics.NewRecorder(reg)
	clock := clockwork.NewRealClock()
	loop := runloop.New(clock)
	m := animation.New(canvas, loop, zoneClock{clock, loc}, &animation.Opts{
		Fast:         cfg.Clock.Fast,
		Intermission: cfg.Clock.Intermission,
		Locale:       locale,
		Settings:     prefs,
		Observer:     rec,
	})
	loop.Idle = func() {
		if err := canvas.Flush(); err != nil {
			rec.FlushError()
			slog.Warn("Failed to draw frame", "error", err)
		}
		rec.ObserveState(m.State())
	}

	motor, err := openMotor(cfg.Haptic.Pin, clock)
	if err != nil {
		return err
	}
	var monitor *vibe.Monitor
	if motor != nil {
		defer motor.Halt()
		monitor = vibe.NewMonitor(motor)
	} else {
		monitor = vibe.NewMonitor(nil)
	}

	// Everything below only posts into the loop.
	update := func(source string) func([]settings.Tuple) {
		return func(tuples []settings.Tuple) {
			loop.Post(func() {
				next := m.Settings().Apply(tuples...)
				if next == m.Settings() {
					return
				}
				m.SetSettings(next)
				rec.SettingsUpdate(source)
				slog.Info("Settings updated", "source", source, "settings", next)
				if err := settings.Save(ctx, store, next); err != nil {
					slog.Error("Failed to persist settings", "error", err)
				}
			})
		}
	}
	link := func(connected bool) {
		loop.Post(func() {
			buzzed, err := monitor.SetConnected(connected, m.Settings().HapticOnDisconnect)
			if err != nil {
				slog.Warn("Failed to vibrate", "error", err)
			}
			rec.Link(connected, buzzed)
			slog.Info("Link state", "connected", connected, "vibrated", buzzed)
		})
	}

	if cfg.Remote.NATSURL != "" {
		sub, err := remote.Connect(cfg.Remote.NATSURL, "termclock-"+id, cfg.Remote.SubjectPrefix, remote.Handlers{
			Settings: update("nats"),
			Link:     link,
		})
		if err != nil {
			return err
		}
		defer sub.Close()
	}
	if cfg.Remote.SettingsFile != "" {
		w, err := remote.NewFileWatcher(cfg.Remote.SettingsFile, clock, cfg.Remote.Debounce, update("file"))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Close()
	}

	ticks, err := minute.New(clock, loc, func(t time.Time) {
		loop.Post(func() { m.MinuteTick(t) })
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := ticks.Stop(); err != nil {
			slog.Warn("Failed to stop minute ticks", "error", err)
		}
	}()

	if cfg.HTTP.Addr != "" {
		srv := newServer(cfg.HTTP.Addr, reg, out)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server failed", "error", err)
				stop()
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		slog.Info("Serving HTTP", "addr", cfg.HTTP.Addr)
	}

	loop.Post(func() {
		m.Start()
		monitor.Start()
	})
	ticks.Start()
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	slog.Info("Stopped")
	return err
}

// openMotor returns the vibration motor on pin, or nil when pin is empty.
func openMotor(pin string, clock clockwork.Clock) (*vibe.Motor, error) {
	if pin == "" {
		return nil, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("haptic: %w", err)
	}
	p := gpioreg.ByName(pin)
	if p == nil {
		return nil, fmt.Errorf("haptic: no pin %q", pin)
	}
	return vibe.New(p, clock)
}

// newServer serves the metrics of reg on /metrics and, for the preview
// backend, the frames on /. Shutting it down ends the preview streams.
func newServer(addr string, reg *prom.Registry, out *output) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if out.preview != nil {
		mux.Handle("/", out.preview)
		// Streams only end on Halt; Shutdown would wait for them otherwise.
		srv.RegisterOnShutdown(func() { _ = out.preview.Halt() })
	}
	return srv
}

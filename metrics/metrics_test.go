// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GermanBionicSystems/termclock/animation"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(prom.NewRegistry())
	r.MinuteTick(animation.TickRestart)
	r.MinuteTick(animation.TickRestart)
	r.MinuteTick(animation.TickDeferred)
	r.Advanced(animation.TypeDate, 1)
	r.Advanced(animation.Blink, 30)
	r.ObserveState(animation.State{Progress: 12, FirstRun: true})
	r.SettingsUpdate("nats")
	r.FlushError()
	r.Link(false, true)

	for _, tc := range []struct {
		name string
		c    prom.Collector
		want float64
	}{
		{"restart", r.ticks.WithLabelValues("restart"), 2},
		{"deferred", r.ticks.WithLabelValues("deferred"), 1},
		{"settle", r.ticks.WithLabelValues("settle"), 0},
		{"type-date", r.advances.WithLabelValues("type-date"), 1},
		{"blink", r.advances.WithLabelValues("blink"), 1},
		{"progress", r.progress, 12},
		{"first run", r.firstRun, 1},
		{"nats", r.settingsUpdates.WithLabelValues("nats"), 1},
		{"flush errors", r.flushErrors, 1},
		{"link", r.linkConnected, 0},
		{"pulses", r.hapticPulses, 1},
	} {
		if got := testutil.ToFloat64(tc.c); got != tc.want {
			t.Errorf("%s = %g, want %g", tc.name, got, tc.want)
		}
	}

	r.ObserveState(animation.State{Progress: 3})
	if got := testutil.ToFloat64(r.firstRun); got != 0 {
		t.Errorf("first run = %g, want 0", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.MinuteTick(animation.TickSettle)
	r.Advanced(animation.Blink, 24)
	r.ObserveState(animation.State{})
	r.SettingsUpdate("file")
	r.FlushError()
	r.Link(true, false)
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	r := NewRecorder(reg)
	r.MinuteTick(animation.TickSettle)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`termclock_minute_ticks_total{path="settle"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output lacks %q", want)
		}
	}
}

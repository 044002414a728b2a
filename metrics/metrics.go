// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package metrics exports the clock face activity as Prometheus metrics.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GermanBionicSystems/termclock/animation"
)

const namespace = "termclock"

// Recorder implements animation.Observer. A nil *Recorder records nothing.
type Recorder struct {
	ticks           *prom.CounterVec
	advances        *prom.CounterVec
	progress        prom.Gauge
	firstRun        prom.Gauge
	settingsUpdates *prom.CounterVec
	flushErrors     prom.Counter
	linkConnected   prom.Gauge
	hapticPulses    prom.Counter
}

var _ animation.Observer = (*Recorder)(nil)

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// NewRecorder creates the metrics and registers them with reg.
func NewRecorder(reg prom.Registerer) *Recorder {
	r := &Recorder{
		ticks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "minute_ticks_total",
			Help:      "Minute ticks by the path they took",
		}, []string{"path"}),
		advances: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "advances_total",
			Help:      "Animation steps by phase",
		}, []string{"phase"}),
		progress: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "progress",
			Help:      "Current animation progress",
		}),
		firstRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "first_run",
			Help:      "1 while the start-up animation is protected from minute ticks",
		}),
		settingsUpdates: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "settings_updates_total",
			Help:      "Applied settings updates by source",
		}, []string{"source"}),
		flushErrors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "flush_errors_total",
			Help:      "Failed frame transfers to the display",
		}),
		linkConnected: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "link_connected",
			Help:      "1 when the phone link is up",
		}),
		hapticPulses: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "haptic_pulses_total",
			Help:      "Vibrations on link loss",
		}),
	}
	reg.MustRegister(r.ticks, r.advances, r.progress, r.firstRun, r.settingsUpdates, r.flushErrors, r.linkConnected, r.hapticPulses)
	return r
}

// MinuteTick implements animation.Observer.
func (r *Recorder) MinuteTick(path animation.TickPath) {
	if r == nil {
		return
	}
	r.ticks.WithLabelValues(path.String()).Inc()
}

// Advanced implements animation.Observer.
func (r *Recorder) Advanced(phase animation.Phase, progress uint) {
	if r == nil {
		return
	}
	r.advances.WithLabelValues(phase.String()).Inc()
}

// ObserveState updates the state gauges.
func (r *Recorder) ObserveState(s animation.State) {
	if r == nil {
		return
	}
	r.progress.Set(float64(s.Progress))
	if s.FirstRun {
		r.firstRun.Set(1)
	} else {
		r.firstRun.Set(0)
	}
}

// SettingsUpdate counts an applied update from source.
func (r *Recorder) SettingsUpdate(source string) {
	if r == nil {
		return
	}
	r.settingsUpdates.WithLabelValues(source).Inc()
}

// FlushError counts a failed display transfer.
func (r *Recorder) FlushError() {
	if r == nil {
		return
	}
	r.flushErrors.Inc()
}

// Link records the phone link state and whether it caused a vibration.
func (r *Recorder) Link(connected, buzzed bool) {
	if r == nil {
		return
	}
	if connected {
		r.linkConnected.Set(1)
	} else {
		r.linkConnected.Set(0)
	}
	if buzzed {
		r.hapticPulses.Inc()
	}
}

// Handler serves the metrics of reg.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package vibe drives a vibration motor on a GPIO pin and buzzes it when the
// phone link is lost.
package vibe

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// LongPulse is the duration of a long vibration.
const LongPulse = 500 * time.Millisecond

// Motor is a vibration motor switched by an active high GPIO.
type Motor struct {
	pin   gpio.PinOut
	clock clockwork.Clock

	mu  sync.Mutex
	off clockwork.Timer
}

// New returns a Motor with the pin driven low. clock may be nil.
func New(pin gpio.PinOut, clock clockwork.Clock) (*Motor, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("vibe: %s: %w", pin, err)
	}
	return &Motor{pin: pin, clock: clock}, nil
}

func (m *Motor) String() string {
	return "Motor{" + m.pin.String() + "}"
}

// Pulse turns the motor on for d. A pulse in progress is extended.
func (m *Motor) Pulse(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.off != nil {
		m.off.Stop()
	}
	if err := m.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("vibe: %s: %w", m.pin, err)
	}
	m.off = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		_ = m.pin.Out(gpio.Low)
		m.off = nil
	})
	return nil
}

// LongPulse vibrates for LongPulse.
func (m *Motor) LongPulse() error {
	return m.Pulse(LongPulse)
}

// Halt implements conn.Resource. It stops the motor.
func (m *Motor) Halt() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.off != nil {
		m.off.Stop()
		m.off = nil
	}
	return m.pin.Out(gpio.Low)
}

// Vibrator is something that can buzz.
type Vibrator interface {
	LongPulse() error
}

// Monitor tracks the phone link and buzzes once when it drops.
//
// Notifications before Start are only recorded, so the link state reported
// while booting never buzzes. Monitor is not safe for concurrent use.
type Monitor struct {
	v         Vibrator
	started   bool
	connected bool
}

// NewMonitor returns a Monitor that assumes the link is up. v may be nil.
func NewMonitor(v Vibrator) *Monitor {
	return &Monitor{v: v, connected: true}
}

// Start enables buzzing.
func (m *Monitor) Start() {
	m.started = true
}

// Connected returns the last reported link state.
func (m *Monitor) Connected() bool {
	return m.connected
}

// SetConnected records the link state. When the link goes from connected to
// disconnected after Start and haptic is set, it buzzes and returns true.
func (m *Monitor) SetConnected(connected, haptic bool) (bool, error) {
	was := m.connected
	m.connected = connected
	if !m.started || connected || !was || !haptic || m.v == nil {
		return false, nil
	}
	if err := m.v.LongPulse(); err != nil {
		return false, err
	}
	return true, nil
}

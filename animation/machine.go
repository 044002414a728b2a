// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/termclock/settings"
	"github.com/GermanBionicSystems/termclock/timefmt"
)

// Clock supplies the wall-clock time.
type Clock interface {
	Now() time.Time
}

// Locale tells whether hours are shown on a 24 hour clock.
type Locale interface {
	Is24Hour() bool
}

// TimerID identifies a callback armed on a Scheduler. The zero value means
// no timer.
type TimerID uint64

// Scheduler is a single-shot delayed callback primitive.
//
// Schedule returns a non-zero id. Cancel must accept ids that already fired
// or were never armed.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) TimerID
	Cancel(id TimerID)
}

// Surface is where the text ends up. Writes never fail from the point of
// view of the Machine.
type Surface interface {
	SetText(r Region, text string)
	Show(r Region)
	Hide(r Region)
	SetCursor(visible bool)
}

// TickPath tells which branch a minute tick took.
type TickPath uint8

const (
	// TickRestart started a new run from progress 0.
	TickRestart TickPath = iota
	// TickSettle jumped straight to the settled face because the animation
	// is disabled.
	TickSettle
	// TickDeferred only re-armed the timer to let the first run finish.
	TickDeferred
)

func (t TickPath) String() string {
	switch t {
	case TickRestart:
		return "restart"
	case TickSettle:
		return "settle"
	case TickDeferred:
		return "deferred"
	}
	return fmt.Sprintf("TickPath(%d)", uint8(t))
}

// Observer receives notifications from a Machine. Used for metrics.
type Observer interface {
	MinuteTick(path TickPath)
	Advanced(phase Phase, progress uint)
}

const (
	// bridgeTicks is the number of held fast ticks of the first-run
	// fast-forward.
	bridgeTicks = 10
	// bootGraceLimit is the number of blink cycles after which the first run
	// is over.
	bootGraceLimit = 10
)

// Opts configures a Machine.
type Opts struct {
	// Fast is the typing delay.
	Fast time.Duration
	// Intermission is the pause after a settle and between blinks.
	Intermission time.Duration
	// Locale selects 12 or 24 hour display. nil means 24 hour.
	Locale Locale
	// Settings are the user preferences at start-up.
	Settings settings.Settings
	// Observer is optional.
	Observer Observer
}

// DefaultOpts are the timings used when Opts is nil.
var DefaultOpts = Opts{
	Fast:         200 * time.Millisecond,
	Intermission: time.Second,
	Settings:     settings.Defaults,
}

// State is a snapshot of the mutable state of a Machine.
type State struct {
	// Progress is the position in the transition table.
	Progress uint
	// CursorVisible is whether the cursor is shown.
	CursorVisible bool
	// FirstRun is true from boot until the boot grace period is over. It
	// never becomes true again.
	FirstRun bool
	// BootGrace counts blink cycles during the first run.
	BootGrace int
	// SkipCount is the number of remaining held fast ticks of the first-run
	// fast-forward.
	SkipCount int
}

// Machine is the animation state machine and minute-tick coordinator.
type Machine struct {
	surface  Surface
	sched    Scheduler
	clock    Clock
	locale   Locale
	observer Observer
	fast     time.Duration
	pause    time.Duration

	settings settings.Settings
	state    State
	pending  TimerID
	// gen invalidates callbacks of cancelled timers.
	gen uint64
}

// New returns a Machine in its boot state. Nothing is scheduled until the
// first MinuteTick, which the caller is expected to deliver right away.
func New(s Surface, sched Scheduler, c Clock, opts *Opts) *Machine {
	if opts == nil {
		opts = &DefaultOpts
	}
	m := &Machine{
		surface:  s,
		sched:    sched,
		clock:    c,
		locale:   opts.Locale,
		observer: opts.Observer,
		fast:     opts.Fast,
		pause:    opts.Intermission,
		settings: opts.Settings,
		state:    State{FirstRun: true},
	}
	if m.fast <= 0 {
		m.fast = DefaultOpts.Fast
	}
	if m.pause <= 0 {
		m.pause = DefaultOpts.Intermission
	}
	return m
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Pending reports whether a callback is armed.
func (m *Machine) Pending() bool {
	return m.pending != 0
}

// Settings returns the preferences currently in effect.
func (m *Machine) Settings() settings.Settings {
	return m.settings
}

// SetSettings replaces the preferences. Nothing is redrawn; the new values
// are read by the next MinuteTick or Advance.
func (m *Machine) SetSettings(s settings.Settings) {
	m.settings = s
}

// Start delivers the boot-time minute tick.
func (m *Machine) Start() {
	m.MinuteTick(m.clock.Now())
}

// MinuteTick restarts the animation for the minute starting at t.
//
// A run in flight is always cancelled. During the first run, a tick that
// arrives before progress reaches Terminal only re-arms the timer so the
// start-up animation is not cut short.
func (m *Machine) MinuteTick(t time.Time) {
	if m.pending != 0 {
		m.cancel()
		if m.state.FirstRun && m.state.Progress < Terminal {
			m.arm(m.pause)
			m.observeTick(TickDeferred)
			return
		}
	}
	if !m.state.FirstRun && !m.settings.AnimationEnabled {
		m.settle()
		m.observeTick(TickSettle)
	} else {
		m.restart()
		m.observeTick(TickRestart)
	}
	m.writeClock(t)
	m.arm(m.pause)
}

// Advance performs one transition and arms the next one.
//
// It is normally called by the Scheduler. Calling it directly cancels the
// armed callback first, so there is never more than one.
func (m *Machine) Advance() {
	m.cancel()
	p := m.state.Progress
	step := Transition(p)
	wrote := false
	for _, e := range step.Effects {
		switch e.Kind {
		case WriteClock:
			m.writeClock(m.clock.Now())
			wrote = true
		case SetText:
			m.surface.SetText(e.Region, e.Text)
		case Show:
			m.surface.Show(e.Region)
		case ShowCursor:
			m.setCursor(true)
		}
	}

	cadence := step.Cadence
	switch {
	case step.Bridge:
		if m.state.FirstRun && m.state.SkipCount == 0 && !m.settings.AnimationEnabled {
			m.state.SkipCount = bridgeTicks
			cadence = Fast
		}
	case step.Phase == Blink:
		m.setCursor(!m.state.CursorVisible)
		if m.state.FirstRun {
			m.state.BootGrace++
			if m.state.BootGrace > bootGraceLimit {
				m.state.FirstRun = false
				m.state.BootGrace = 0
			}
		}
	}
	m.arm(m.delay(cadence))
	if m.observer != nil {
		m.observer.Advanced(step.Phase, p)
	}

	// Typing is skipped when disabled, so the settled values are redrawn on
	// every tick past the hour settle.
	if !m.settings.AnimationEnabled && p > settleHourAt {
		if !wrote {
			m.writeClock(m.clock.Now())
		}
		m.redraw(DateValue)
		m.redraw(HourValue)
		if p > settleEpochAt {
			m.redraw(EpochValue)
		}
		if m.state.SkipCount > 0 {
			m.state.SkipCount--
			return
		}
	}
	m.state.Progress++
}

// restart blanks the face and rewinds to the first step.
func (m *Machine) restart() {
	m.state.Progress = 0
	m.state.SkipCount = 0
	m.surface.SetText(DateLabel, Prompt)
	m.surface.Hide(DateValue)
	m.surface.SetText(HourLabel, "")
	m.surface.Hide(HourValue)
	m.surface.SetText(EpochLabel, "")
	m.surface.Hide(EpochValue)
	m.surface.SetText(PromptLabel, "")
	m.setCursor(false)
}

// settle shows the finished face and parks the run in the blink phase.
func (m *Machine) settle() {
	m.state.Progress = Terminal
	m.state.SkipCount = 0
	for _, r := range [...]Region{DateLabel, HourLabel, EpochLabel, PromptLabel} {
		m.surface.SetText(r, Command(r))
	}
	m.redraw(DateValue)
	m.redraw(HourValue)
	m.redraw(EpochValue)
	m.setCursor(false)
}

func (m *Machine) writeClock(t time.Time) {
	v := timefmt.Format(t, m.locale == nil || m.locale.Is24Hour(), m.settings.TimezoneOffset)
	m.surface.SetText(DateValue, v.Date)
	m.surface.SetText(HourValue, v.Hour)
	m.surface.SetText(EpochValue, v.Epoch)
}

func (m *Machine) redraw(r Region) {
	m.surface.Hide(r)
	m.surface.Show(r)
}

func (m *Machine) setCursor(visible bool) {
	m.state.CursorVisible = visible
	m.surface.SetCursor(visible)
}

func (m *Machine) delay(c Cadence) time.Duration {
	if c == Fast {
		return m.fast
	}
	return m.pause
}

func (m *Machine) arm(d time.Duration) {
	m.gen++
	gen := m.gen
	m.pending = m.sched.Schedule(d, func() { m.fire(gen) })
}

func (m *Machine) fire(gen uint64) {
	if gen != m.gen || m.pending == 0 {
		return
	}
	m.pending = 0
	m.Advance()
}

func (m *Machine) cancel() {
	if m.pending != 0 {
		m.sched.Cancel(m.pending)
		m.pending = 0
	}
	m.gen++
}

func (m *Machine) observeTick(path TickPath) {
	if m.observer != nil {
		m.observer.MinuteTick(path)
	}
}

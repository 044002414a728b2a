// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package runloop is a single goroutine event loop with one pending timer.
//
// Everything that touches the clock face runs on the loop: functions posted
// from other goroutines and the timer callback. This serializes minute ticks,
// animation steps and settings updates without locks.
package runloop

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GermanBionicSystems/termclock/animation"
)

// queueSize is the number of posted functions that can wait before Post
// blocks.
const queueSize = 64

// Loop implements animation.Scheduler.
//
// Schedule and Cancel must be called from the loop goroutine, that is, from a
// posted function or a timer callback.
type Loop struct {
	clock  clockwork.Clock
	events chan func()
	done   chan struct{}
	once   sync.Once

	// Idle runs on the loop after every dispatched event.
	Idle func()

	timer   clockwork.Timer
	timerFn func()
	pending animation.TimerID
	last    animation.TimerID
}

var _ animation.Scheduler = (*Loop)(nil)

// New returns a Loop. clock may be nil for the real clock.
func New(clock clockwork.Clock) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loop{
		clock:  clock,
		events: make(chan func(), queueSize),
		done:   make(chan struct{}),
	}
}

// Post queues fn to run on the loop. It returns false once the loop stopped.
// It is safe to call from any goroutine, including before Run.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Schedule implements animation.Scheduler. It replaces the pending timer.
func (l *Loop) Schedule(d time.Duration, fn func()) animation.TimerID {
	l.stop()
	l.last++
	l.pending = l.last
	l.timer = l.clock.NewTimer(d)
	l.timerFn = fn
	return l.pending
}

// Cancel implements animation.Scheduler. Unknown or fired ids are ignored.
func (l *Loop) Cancel(id animation.TimerID) {
	if id != 0 && id == l.pending {
		l.stop()
	}
}

// Pending returns the id of the armed timer, or 0.
func (l *Loop) Pending() animation.TimerID {
	return l.pending
}

func (l *Loop) stop() {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = nil
	l.timerFn = nil
	l.pending = 0
}

// Run dispatches events until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	defer l.stop()
	for {
		var fire <-chan time.Time
		if l.timer != nil {
			fire = l.timer.Chan()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		case <-fire:
			fn := l.timerFn
			l.timer = nil
			l.timerFn = nil
			l.pending = 0
			fn()
		}
		if l.Idle != nil {
			l.Idle()
		}
	}
}

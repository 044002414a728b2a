// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package minute

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTicksOnMinuteBoundary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 13, 5, 30, 0, time.UTC))
	ticks := make(chan time.Time, 4)
	s, err := New(clock, time.UTC, func(t time.Time) { ticks <- t })
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer func() {
		if err := s.Stop(); err != nil {
			t.Error(err)
		}
	}()

	want := time.Date(2026, 10, 16, 13, 6, 0, 0, time.UTC)
	for {
		next, err := s.NextRun()
		if err == nil && !next.IsZero() {
			if !next.Equal(want) {
				t.Fatalf("NextRun() = %s, want %s", next, want)
			}
			break
		}
		if ctx.Err() != nil {
			t.Fatal("job never scheduled")
		}
		time.Sleep(time.Millisecond)
	}

	for {
		select {
		case got := <-ticks:
			if !got.Equal(want) {
				t.Errorf("tick at %s, want %s", got, want)
			}
			return
		case <-ctx.Done():
			t.Fatal("no tick")
		default:
		}
		clock.Advance(time.Second)
		time.Sleep(time.Millisecond)
	}
}

func TestBusyRunQueuesNextTick(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 13, 5, 59, 0, time.UTC))
	ticks := make(chan time.Time, 4)
	release := make(chan struct{})
	s, err := New(clock, time.UTC, func(t time.Time) {
		ticks <- t
		<-release
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer func() {
		if err := s.Stop(); err != nil {
			t.Error(err)
		}
	}()

	// First tick blocks until released.
	for len(ticks) == 0 {
		if ctx.Err() != nil {
			t.Fatal("no first tick")
		}
		clock.Advance(time.Second)
		time.Sleep(time.Millisecond)
	}
	// Let the next minute boundary pass while the first run is busy.
	want := time.Date(2026, 10, 16, 13, 8, 0, 0, time.UTC)
	for {
		if next, err := s.NextRun(); err == nil && next.Equal(want) {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("second boundary never passed")
		}
		clock.Advance(time.Second)
		time.Sleep(time.Millisecond)
	}
	close(release)

	<-ticks
	select {
	case <-ticks:
	case <-ctx.Done():
		t.Fatal("tick of the busy minute was skipped")
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(nil, nil, func(time.Time) {})
	if err != nil {
		t.Fatal(err)
	}
	if s.loc != time.Local {
		t.Error("location does not default to local")
	}
	if err := s.Stop(); err != nil {
		t.Error(err)
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package minute calls a function at the start of every wall-clock minute.
package minute

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// Source is a cron job firing on every minute boundary.
type Source struct {
	s     gocron.Scheduler
	job   gocron.Job
	clock clockwork.Clock
	loc   *time.Location
}

// New returns a stopped Source. fn gets the minute that just started and
// runs on a scheduler goroutine. A run that is still busy when the next
// minute starts makes that tick wait for it; no minute is skipped.
func New(clock clockwork.Clock, loc *time.Location, fn func(t time.Time)) (*Source, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	s, err := gocron.NewScheduler(gocron.WithClock(clock), gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("minute: create scheduler: %w", err)
	}
	src := &Source{s: s, clock: clock, loc: loc}
	src.job, err = s.NewJob(
		gocron.CronJob("* * * * *", false),
		gocron.NewTask(func() {
			fn(src.clock.Now().In(src.loc).Truncate(time.Minute))
		}),
		gocron.WithName("minute-tick"),
		gocron.WithSingletonMode(gocron.LimitModeWait),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("minute: create job: %w", err)
	}
	return src, nil
}

// Start starts firing.
func (s *Source) Start() {
	slog.Debug("Starting minute ticks", "location", s.loc.String())
	s.s.Start()
}

// NextRun returns when the next tick is due.
func (s *Source) NextRun() (time.Time, error) {
	return s.job.NextRun()
}

// Stop stops firing and waits for a running tick to return.
func (s *Source) Stop() error {
	if err := s.s.Shutdown(); err != nil {
		return fmt.Errorf("minute: %w", err)
	}
	return nil
}

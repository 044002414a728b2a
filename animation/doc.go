// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package animation drives a clock face that reveals the time by "typing"
// shell commands at a prompt.
//
// Each minute the face clears and types, one character per fast tick:
//
//	pebble>date +%F
//	2026-10-16
//	pebble>date +%T
//	12:34:00
//	pebble>date +%s
//	1792154040
//	pebble>_
//
// then flashes the cursor for the rest of the minute. Settling a value is
// followed by a longer pause so the value can be read.
//
// The progression is a pure table (see Transition) applied by a Machine,
// which owns the only mutable state: a progress counter, the cursor flag and
// the first-run bookkeeping that protects the start-up animation from being
// cut short by the first minute boundary.
//
// A Machine is not safe for concurrent use. MinuteTick and the callbacks it
// schedules must run on one goroutine, which is what runloop.Loop provides.
package animation

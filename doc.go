// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termclock is a clock face that pretends to be a terminal session.
//
// Every minute a prompt types three commands and prints the date, the time
// and the Unix epoch below them, then a block cursor blinks until the next
// minute. The animation lives in package animation; cmd/termclock wires it
// to a display, persisted settings and remote updates.
package termclock

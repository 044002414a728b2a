// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package timefmt formats the three values shown on the clock face.
//
// The epoch value is the Unix time plus a raw offset in seconds. It is not a
// timezone conversion: the platform the face was designed for has no
// timezone database, so the offset is whatever the user configured.
package timefmt

import (
	"strconv"
	"time"
)

const (
	hour24 = "15:04:05"
	hour12 = "03:04:05"
	date   = "2006-01-02"
)

// Values are the formatted strings for the value regions.
type Values struct {
	Date  string
	Hour  string
	Epoch string
}

// Format formats t. offset is added to the epoch value only.
func Format(t time.Time, use24h bool, offset int16) Values {
	return Values{
		Date:  Date(t),
		Hour:  Hour(t, use24h),
		Epoch: Epoch(t, offset),
	}
}

// Hour returns hh:mm:ss. In 12 hour mode the hour is zero padded and there
// is no AM/PM marker.
func Hour(t time.Time, use24h bool) string {
	if use24h {
		return t.Format(hour24)
	}
	return t.Format(hour12)
}

// Date returns YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(date)
}

// Epoch returns the Unix time of t plus offset seconds as an unsigned 32 bit
// decimal. The sum wraps around like the 32 bit counter it mimics.
func Epoch(t time.Time, offset int16) string {
	v := uint32(t.Unix()) + uint32(int32(offset))
	return strconv.FormatUint(uint64(v), 10)
}

// SystemClock reads the system clock in the local timezone.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a clock that always returns the same instant.
type Fixed time.Time

// Now returns f.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

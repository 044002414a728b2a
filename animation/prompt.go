// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

// Prompt is the bare shell prompt.
const Prompt = "pebble>"

// The typed frames are user visible. The epoch command skips "dat" and two
// frames gain more than one character.
var (
	dateCommand = [...]string{
		"pebble>d",
		"pebble>da",
		"pebble>dat",
		"pebble>date",
		"pebble>date +",
		"pebble>date +%",
		"pebble>date +%F",
	}
	hourCommand = [...]string{
		"pebble>d",
		"pebble>da",
		"pebble>dat",
		"pebble>date",
		"pebble>date +",
		"pebble>date +%",
		"pebble>date +%T",
	}
	epochCommand = [...]string{
		"pebble>d",
		"pebble>da",
		"pebble>date",
		"pebble>date +",
		"pebble>date +%",
		"pebble>date +%s",
	}
)

// Command returns the fully typed command shown by label region r, or "" for
// regions that are not command labels.
func Command(r Region) string {
	switch r {
	case DateLabel:
		return dateCommand[len(dateCommand)-1]
	case HourLabel:
		return hourCommand[len(hourCommand)-1]
	case EpochLabel:
		return epochCommand[len(epochCommand)-1]
	case PromptLabel:
		return Prompt
	}
	return ""
}

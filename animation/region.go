// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import "strconv"

// Region is one independently addressable line of text on the face.
//
// Label regions hold the command being typed, value regions hold the
// revealed result.
type Region uint8

// Regions, top to bottom.
const (
	DateLabel Region = iota
	DateValue
	HourLabel
	HourValue
	EpochLabel
	EpochValue
	PromptLabel

	// NumRegions is the number of regions on the face.
	NumRegions = int(PromptLabel) + 1
)

var regionNames = [NumRegions]string{
	"date-label",
	"date-value",
	"hour-label",
	"hour-value",
	"epoch-label",
	"epoch-value",
	"prompt-label",
}

func (r Region) String() string {
	if int(r) < NumRegions {
		return regionNames[r]
	}
	return "Region(" + strconv.Itoa(int(r)) + ")"
}

// IsValue reports whether r holds a revealed value rather than typed text.
func (r Region) IsValue() bool {
	return r == DateValue || r == HourValue || r == EpochValue
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package surface

import (
	"image"

	"github.com/GermanBionicSystems/termclock/animation"
)

// Layout places the regions and the cursor on the frame.
type Layout struct {
	// X is the left margin of every region.
	X int
	// Rows is the top of each region, indexed by animation.Region.
	Rows [animation.NumRegions]int
	// Cursor is the size of the cursor bar. It sits right after the prompt
	// text, CursorDY below the top of the prompt row.
	Cursor   image.Point
	CursorDY int
}

// PebbleLayout is the geometry of the 144x168 face.
var PebbleLayout = Layout{
	X: 5,
	Rows: [animation.NumRegions]int{
		animation.DateLabel:   24,
		animation.DateValue:   40,
		animation.HourLabel:   55,
		animation.HourValue:   71,
		animation.EpochLabel:  87,
		animation.EpochValue:  103,
		animation.PromptLabel: 119,
	},
	Cursor:   image.Point{X: 8, Y: 2},
	CursorDY: 13,
}

// pebbleSize is the frame PebbleLayout was drawn for.
var pebbleSize = image.Point{X: 144, Y: 168}

// LayoutFor scales PebbleLayout to the size of r.
func LayoutFor(r image.Rectangle) Layout {
	sz := r.Size()
	if sz == pebbleSize {
		return PebbleLayout
	}
	sx := func(v int) int { return v * sz.X / pebbleSize.X }
	sy := func(v int) int { return v * sz.Y / pebbleSize.Y }
	l := Layout{
		X:        sx(PebbleLayout.X),
		Cursor:   image.Point{X: max(1, sx(PebbleLayout.Cursor.X)), Y: max(1, sy(PebbleLayout.Cursor.Y))},
		CursorDY: sy(PebbleLayout.CursorDY),
	}
	for i, y := range PebbleLayout.Rows {
		l.Rows[i] = r.Min.Y + sy(y)
	}
	l.X += r.Min.X
	return l
}

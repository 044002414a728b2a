// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package surface renders the clock face regions onto any display.Drawer.
//
// A Canvas keeps the text and visibility of each region and the cursor
// state. Writes only mark the canvas dirty; Flush composes a frame and draws
// it to the device when something changed since the last Flush.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/termclock/animation"
)

// Opts configures a Canvas.
type Opts struct {
	// Face defaults to basicfont.Face7x13.
	Face font.Face
	// Foreground and Background default to white on black.
	Foreground color.Color
	Background color.Color
	// Layout defaults to LayoutFor(Bounds).
	Layout *Layout
	// Bounds is the frame size when there is no device. Ignored otherwise.
	Bounds image.Rectangle
}

// Canvas implements animation.Surface.
type Canvas struct {
	dev    display.Drawer
	bounds image.Rectangle
	face   font.Face
	fg, bg color.Color
	layout Layout

	text    [animation.NumRegions]string
	visible [animation.NumRegions]bool
	cursor  bool
	dirty   bool
}

var _ animation.Surface = (*Canvas)(nil)

// New returns a Canvas drawing to dev. dev may be nil, in which case frames
// are only available through Render and SavePNG.
func New(dev display.Drawer, opts *Opts) (*Canvas, error) {
	if opts == nil {
		opts = &Opts{}
	}
	c := &Canvas{
		dev:   dev,
		face:  opts.Face,
		fg:    opts.Foreground,
		bg:    opts.Background,
		dirty: true,
	}
	if dev != nil {
		c.bounds = dev.Bounds()
	} else {
		c.bounds = opts.Bounds
	}
	if c.bounds.Empty() {
		return nil, errors.New("surface: empty frame")
	}
	if c.face == nil {
		c.face = basicfont.Face7x13
	}
	if c.fg == nil {
		c.fg = color.White
	}
	if c.bg == nil {
		c.bg = color.Black
	}
	if opts.Layout != nil {
		c.layout = *opts.Layout
	} else {
		c.layout = LayoutFor(c.bounds)
	}
	for i := range c.visible {
		c.visible[i] = true
	}
	return c, nil
}

func (c *Canvas) String() string {
	if c.dev != nil {
		return fmt.Sprintf("Canvas{%s}", c.dev)
	}
	return "Canvas"
}

// SetText implements animation.Surface.
func (c *Canvas) SetText(r animation.Region, text string) {
	if c.text[r] != text {
		c.text[r] = text
		c.dirty = true
	}
}

// Show implements animation.Surface. It always marks the canvas dirty so a
// hide/show pair forces a redraw.
func (c *Canvas) Show(r animation.Region) {
	c.visible[r] = true
	c.dirty = true
}

// Hide implements animation.Surface.
func (c *Canvas) Hide(r animation.Region) {
	c.visible[r] = false
	c.dirty = true
}

// SetCursor implements animation.Surface.
func (c *Canvas) SetCursor(visible bool) {
	if c.cursor != visible {
		c.cursor = visible
		c.dirty = true
	}
}

// Text returns the text of r, visible or not.
func (c *Canvas) Text(r animation.Region) string {
	return c.text[r]
}

// Visible reports whether r is shown.
func (c *Canvas) Visible(r animation.Region) bool {
	return c.visible[r]
}

// Cursor reports whether the cursor is shown.
func (c *Canvas) Cursor() bool {
	return c.cursor
}

// Dirty reports whether the next Flush will draw.
func (c *Canvas) Dirty() bool {
	return c.dirty
}

// Bounds returns the frame rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.bounds
}

// CursorRect returns where the cursor is drawn when visible.
func (c *Canvas) CursorRect() image.Rectangle {
	w := font.MeasureString(c.face, c.text[animation.PromptLabel]).Ceil()
	p := image.Point{X: c.layout.X + w, Y: c.layout.Rows[animation.PromptLabel] + c.layout.CursorDY}
	return image.Rectangle{Min: p, Max: p.Add(c.layout.Cursor)}
}

// Render composes the current frame. The image is sized like Bounds with its
// origin at Bounds().Min.
func (c *Canvas) Render() image.Image {
	sz := c.bounds.Size()
	dc := gg.NewContext(sz.X, sz.Y)
	dc.SetColor(c.bg)
	dc.Clear()
	dc.SetColor(c.fg)
	dc.SetFontFace(c.face)
	ascent := float64(c.face.Metrics().Ascent.Ceil())
	origin := c.bounds.Min
	for i, text := range c.text {
		if !c.visible[i] || text == "" {
			continue
		}
		x := float64(c.layout.X - origin.X)
		y := float64(c.layout.Rows[i]-origin.Y) + ascent
		dc.DrawString(text, x, y)
	}
	if c.cursor {
		r := c.CursorRect().Sub(origin)
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		dc.Fill()
	}
	return dc.Image()
}

// Flush draws the frame to the device if anything changed since the last
// successful Flush.
func (c *Canvas) Flush() error {
	if !c.dirty || c.dev == nil {
		return nil
	}
	if err := c.dev.Draw(c.bounds, c.Render(), image.Point{}); err != nil {
		return fmt.Errorf("surface: draw: %w", err)
	}
	c.dirty = false
	return nil
}

// SavePNG writes the current frame to path.
func (c *Canvas) SavePNG(path string) error {
	if err := gg.SavePNG(path, c.Render()); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	return nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestNew(t *testing.T) {
	if _, err := New(&Opts{W: 0, H: 1}); err == nil {
		t.Error("New(0x1) succeeded")
	}
	d, err := New(&Opts{W: 4, H: 2, Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Bounds(); got != image.Rect(0, 0, 4, 2) {
		t.Errorf("Bounds() = %s", got)
	}
	if d.String() != "Screen" || d.ColorModel() != color.NRGBAModel {
		t.Error("unexpected identity")
	}
}

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d, err := New(&Opts{W: 4, H: 4, Step: 2, Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	red := color.NRGBA{R: 255, A: 255}
	img.SetNRGBA(0, 0, red)
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	transparent := ansi256.Default.Block(color.NRGBA{})
	want := "\033[H\033[0m" +
		ansi256.Default.Block(red) + transparent + "\033[0m\n" +
		transparent + transparent + "\033[0m\n"
	if got := out.String(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	out.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "\033[0m\n") {
		t.Errorf("Halt() wrote %q", out.String())
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/termclock/config"
	"github.com/GermanBionicSystems/termclock/preview"
	"github.com/GermanBionicSystems/termclock/screen"
	"github.com/GermanBionicSystems/termclock/surface"
)

// output is an opened display backend.
type output struct {
	dev display.Drawer
	// preview is set for the preview backend so it can be mounted on HTTP.
	preview *preview.Display
	fg, bg  color.Color
	close   func() error
}

func (o *output) Close() error {
	var err error
	if o.dev != nil {
		err = o.dev.Halt()
	}
	if o.close != nil {
		if err2 := o.close(); err == nil {
			err = err2
		}
	}
	return err
}

// openDisplay opens the backend selected in cfg.
func openDisplay(cfg *config.DisplayConfig) (*output, error) {
	switch cfg.Backend {
	case config.BackendTerminal:
		dev, err := screen.New(&screen.Opts{W: cfg.Width, H: cfg.Height, Step: cfg.TerminalStep})
		if err != nil {
			return nil, err
		}
		return &output{dev: dev}, nil
	case config.BackendPreview:
		f, err := preview.ParseFormat(cfg.PreviewFormat)
		if err != nil {
			return nil, err
		}
		d := preview.New(cfg.Width, cfg.Height, f)
		return &output{dev: d, preview: d}, nil
	case config.BackendSSD1306:
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("ssd1306: %w", err)
		}
		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			return nil, fmt.Errorf("ssd1306: %w", err)
		}
		opts := ssd1306.DefaultOpts
		opts.W = cfg.Width
		opts.H = cfg.Height
		dev, err := ssd1306.NewI2C(bus, &opts)
		if err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("ssd1306: %w", err)
		}
		return &output{dev: dev, fg: image1bit.On, bg: image1bit.Off, close: bus.Close}, nil
	case config.BackendNone:
		return &output{}, nil
	}
	return nil, fmt.Errorf("unknown display backend %q", cfg.Backend)
}

// newCanvas returns the Canvas for o.
func newCanvas(o *output, cfg *config.DisplayConfig) (*surface.Canvas, error) {
	face, err := surface.LoadFace(cfg.Font, cfg.FontSize)
	if err != nil {
		return nil, err
	}
	return surface.New(o.dev, &surface.Opts{
		Face:       face,
		Foreground: o.fg,
		Background: o.bg,
		Bounds:     image.Rect(0, 0, cfg.Width, cfg.Height),
	})
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package surface

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

// LoadFace returns the font face named by name:
//
//   - "" or "gomono": Go Mono at size points
//   - "basic": the fixed 7x13 bitmap face, size is ignored
//   - anything else: the path of a TrueType file
func LoadFace(name string, size float64) (font.Face, error) {
	if size <= 0 {
		size = 11
	}
	var data []byte
	switch name {
	case "basic":
		return basicfont.Face7x13, nil
	case "", "gomono":
		data = gomono.TTF
	default:
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("surface: read font: %w", err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("surface: parse font %q: %w", name, err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}

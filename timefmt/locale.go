// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package timefmt

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Locale carries the system-wide 12/24 hour preference.
type Locale struct {
	h24 bool
	tag language.Tag
}

// Is24Hour reports whether hours are shown on a 24 hour clock.
func (l Locale) Is24Hour() bool {
	return l.h24
}

func (l Locale) String() string {
	mode := "12h"
	if l.h24 {
		mode = "24h"
	}
	if l.tag == language.Und {
		return mode
	}
	return mode + " (" + l.tag.String() + ")"
}

// Fixed24 and Fixed12 ignore the environment.
var (
	Fixed24 = Locale{h24: true}
	Fixed12 = Locale{h24: false}
)

// twelveHour lists regions whose customary clock is 12 hour.
var twelveHour = map[string]bool{
	"AU": true,
	"BD": true,
	"CA": true,
	"EG": true,
	"IN": true,
	"MY": true,
	"NZ": true,
	"PH": true,
	"PK": true,
	"SA": true,
	"US": true,
}

// FromTag derives the preference from a BCP 47 or POSIX locale name such as
// "de-CH" or "en_US.UTF-8". When the region is missing, the most likely one
// for the language is used.
func FromTag(name string) (Locale, error) {
	name = posixToBCP47(name)
	if name == "" {
		return Fixed24, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return Fixed24, fmt.Errorf("timefmt: invalid locale %q: %w", name, err)
	}
	region, _ := tag.Region()
	return Locale{h24: !twelveHour[region.String()], tag: tag}, nil
}

// FromEnv looks at LC_ALL, LC_TIME and LANG in that order. The C and POSIX
// locales, or no locale at all, are 24 hour.
func FromEnv() Locale {
	for _, k := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(k); v != "" {
			l, err := FromTag(v)
			if err != nil {
				return Fixed24
			}
			return l
		}
	}
	return Fixed24
}

// Parse reads a configured clock format: "24h", "12h" or "auto".
func Parse(mode string) (Locale, error) {
	switch strings.ToLower(mode) {
	case "24h", "24":
		return Fixed24, nil
	case "12h", "12":
		return Fixed12, nil
	case "", "auto":
		return FromEnv(), nil
	}
	return Fixed24, fmt.Errorf("timefmt: unknown clock format %q", mode)
}

// posixToBCP47 turns "en_US.UTF-8@euro" into "en-US". C and POSIX map to "".
func posixToBCP47(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package timefmt

import "testing"

func TestFromTag(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"", true},
		{"C", true},
		{"POSIX", true},
		{"C.UTF-8", true},
		{"en_US.UTF-8", false},
		{"en-US", false},
		{"en_GB.UTF-8", true},
		{"de_CH", true},
		{"fr_CA", false},
		{"en_IN@euro", false},
		{"de", true},
		{"en", false},
	} {
		l, err := FromTag(tc.in)
		if err != nil {
			t.Errorf("FromTag(%q): %v", tc.in, err)
			continue
		}
		if l.Is24Hour() != tc.want {
			t.Errorf("FromTag(%q).Is24Hour() = %t, want %t", tc.in, l.Is24Hour(), tc.want)
		}
	}
	if _, err := FromTag("!!"); err == nil {
		t.Error("FromTag(!!) succeeded")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_TIME", "en_US.UTF-8")
	t.Setenv("LANG", "de_DE.UTF-8")
	if FromEnv().Is24Hour() {
		t.Error("LC_TIME ignored")
	}
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	if !FromEnv().Is24Hour() {
		t.Error("LC_ALL ignored")
	}
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_TIME", "")
	t.Setenv("LANG", "")
	if !FromEnv().Is24Hour() {
		t.Error("empty environment is not 24 hour")
	}
}

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Locale
	}{
		{"24h", Fixed24},
		{"24", Fixed24},
		{"12H", Fixed12},
		{"12", Fixed12},
	} {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := Parse("13h"); err == nil {
		t.Error("Parse(13h) succeeded")
	}
	if s := Fixed12.String(); s != "12h" {
		t.Errorf("String() = %q", s)
	}
}

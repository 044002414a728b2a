// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPhaseOf(t *testing.T) {
	for _, tc := range []struct {
		progress uint
		want     Phase
	}{
		{0, RevealTime},
		{1, TypeDate},
		{7, TypeDate},
		{8, SettleDate},
		{9, TypeHour},
		{15, TypeHour},
		{16, SettleHour},
		{17, TypeEpoch},
		{22, TypeEpoch},
		{23, SettleEpoch},
		{24, Blink},
		{Terminal, Blink},
		{1 << 40, Blink},
	} {
		if got := PhaseOf(tc.progress); got != tc.want {
			t.Errorf("PhaseOf(%d) = %s, want %s", tc.progress, got, tc.want)
		}
	}
}

func TestTransitionCadence(t *testing.T) {
	for p := uint(0); p < 40; p++ {
		want := Fast
		switch p {
		case settleDateAt, settleHourAt, settleEpochAt:
			want = Intermission
		}
		if p >= BlinkStart {
			want = Intermission
		}
		step := Transition(p)
		if step.Cadence != want {
			t.Errorf("Transition(%d).Cadence = %s, want %s", p, step.Cadence, want)
		}
		if step.Bridge != (p == settleHourAt) {
			t.Errorf("Transition(%d).Bridge = %t", p, step.Bridge)
		}
		if step.Phase != PhaseOf(p) {
			t.Errorf("Transition(%d).Phase = %s, want %s", p, step.Phase, PhaseOf(p))
		}
	}
}

// Each typing step extends the label of the previous step.
func TestTransitionTyping(t *testing.T) {
	for _, tc := range []struct {
		region     Region
		first      uint
		last       uint
		want       string
		settleFrom uint
	}{
		{DateLabel, 1, 7, "pebble>date +%F", 0},
		{HourLabel, 9, 15, "pebble>date +%T", settleDateAt},
		{EpochLabel, 17, 22, "pebble>date +%s", settleHourAt},
	} {
		t.Run(tc.region.String(), func(t *testing.T) {
			prev := Prompt
			if tc.settleFrom != 0 {
				got := Transition(tc.settleFrom).Effects
				if diff := cmp.Diff(got[1], Effect{Kind: SetText, Region: tc.region, Text: Prompt}); diff != "" {
					t.Fatalf("settle step difference (-got +want):\n%s", diff)
				}
			}
			for p := tc.first; p <= tc.last; p++ {
				effects := Transition(p).Effects
				if len(effects) != 1 || effects[0].Kind != SetText || effects[0].Region != tc.region {
					t.Fatalf("Transition(%d).Effects = %+v", p, effects)
				}
				text := effects[0].Text
				if len(text) <= len(prev) || !strings.HasPrefix(text, prev) {
					t.Errorf("Transition(%d) = %q does not extend %q", p, text, prev)
				}
				prev = text
			}
			if prev != tc.want {
				t.Errorf("final text = %q, want %q", prev, tc.want)
			}
			if c := Command(tc.region); c != tc.want {
				t.Errorf("Command(%s) = %q, want %q", tc.region, c, tc.want)
			}
		})
	}
}

func TestTransitionSettleEffects(t *testing.T) {
	want := []Effect{
		{Kind: Show, Region: EpochValue},
		{Kind: SetText, Region: PromptLabel, Text: Prompt},
		{Kind: ShowCursor},
	}
	if diff := cmp.Diff(Transition(settleEpochAt).Effects, want); diff != "" {
		t.Errorf("Transition(23) difference (-got +want):\n%s", diff)
	}
	if got := Transition(0).Effects; len(got) != 1 || got[0].Kind != WriteClock {
		t.Errorf("Transition(0).Effects = %+v", got)
	}
	if got := Transition(BlinkStart).Effects; len(got) != 0 {
		t.Errorf("Transition(24).Effects = %+v", got)
	}
}

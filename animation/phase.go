// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import "strconv"

// Phase is a contiguous range of progress values sharing one display
// behavior.
type Phase uint8

// Phases in the order a run goes through them.
const (
	RevealTime  Phase = iota // 0: values written while still hidden
	TypeDate                 // 1-7
	SettleDate               // 8
	TypeHour                 // 9-15
	SettleHour               // 16
	TypeEpoch                // 17-22
	SettleEpoch              // 23
	Blink                    // 24 and above
)

var phaseNames = [...]string{
	"reveal-time",
	"type-date",
	"settle-date",
	"type-hour",
	"settle-hour",
	"type-epoch",
	"settle-epoch",
	"blink",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Phase(" + strconv.Itoa(int(p)) + ")"
}

// Progress values delimiting the phases.
const (
	settleDateAt  = 8
	settleHourAt  = 16
	settleEpochAt = 23

	// BlinkStart is the first progress value of the blink phase.
	BlinkStart = 24
	// Terminal is the progress a steady-state restart jumps to when the
	// typing animation is disabled. During the first run, a minute tick
	// arriving before this point does not restart the run.
	Terminal = 26
)

// PhaseOf classifies progress. Values past the table are Blink.
func PhaseOf(progress uint) Phase {
	switch {
	case progress == 0:
		return RevealTime
	case progress < settleDateAt:
		return TypeDate
	case progress == settleDateAt:
		return SettleDate
	case progress < settleHourAt:
		return TypeHour
	case progress == settleHourAt:
		return SettleHour
	case progress < settleEpochAt:
		return TypeEpoch
	case progress == settleEpochAt:
		return SettleEpoch
	default:
		return Blink
	}
}

// Cadence selects the delay before the next step.
type Cadence uint8

const (
	// Fast is the per-character typing delay.
	Fast Cadence = iota
	// Intermission is the reading pause after a settle and between blinks.
	Intermission
)

func (c Cadence) String() string {
	if c == Fast {
		return "fast"
	}
	return "intermission"
}

// EffectKind is the kind of display write an Effect performs.
type EffectKind uint8

const (
	// WriteClock formats the current time into the three value regions.
	WriteClock EffectKind = iota
	// SetText replaces the text of Region.
	SetText
	// Show makes Region visible.
	Show
	// ShowCursor makes the cursor visible.
	ShowCursor
)

// Effect is one display write of a Step.
type Effect struct {
	Kind   EffectKind
	Region Region
	Text   string
}

// Step is the table entry for one progress value.
type Step struct {
	Phase   Phase
	Effects []Effect
	Cadence Cadence
	// Bridge marks the step where a first run with the animation disabled
	// starts fast-forwarding.
	Bridge bool
}

// steps holds every entry before the blink phase, indexed by progress.
var steps = buildSteps()

var blinkStep = Step{Phase: Blink, Cadence: Intermission}

func buildSteps() [BlinkStart]Step {
	var s [BlinkStart]Step
	s[0] = Step{Phase: RevealTime, Effects: []Effect{{Kind: WriteClock}}, Cadence: Fast}
	for i, text := range dateCommand {
		s[1+i] = typed(TypeDate, DateLabel, text)
	}
	s[settleDateAt] = Step{
		Phase: SettleDate,
		Effects: []Effect{
			{Kind: Show, Region: DateValue},
			{Kind: SetText, Region: HourLabel, Text: Prompt},
		},
		Cadence: Intermission,
	}
	for i, text := range hourCommand {
		s[settleDateAt+1+i] = typed(TypeHour, HourLabel, text)
	}
	s[settleHourAt] = Step{
		Phase: SettleHour,
		Effects: []Effect{
			{Kind: Show, Region: HourValue},
			{Kind: SetText, Region: EpochLabel, Text: Prompt},
		},
		Cadence: Intermission,
		Bridge:  true,
	}
	for i, text := range epochCommand {
		s[settleHourAt+1+i] = typed(TypeEpoch, EpochLabel, text)
	}
	s[settleEpochAt] = Step{
		Phase: SettleEpoch,
		Effects: []Effect{
			{Kind: Show, Region: EpochValue},
			{Kind: SetText, Region: PromptLabel, Text: Prompt},
			{Kind: ShowCursor},
		},
		Cadence: Intermission,
	}
	return s
}

func typed(p Phase, r Region, text string) Step {
	return Step{Phase: p, Effects: []Effect{{Kind: SetText, Region: r, Text: text}}, Cadence: Fast}
}

// Transition returns the table entry for progress.
//
// It covers the stateless part of the animation. The cursor toggle and the
// first-run bookkeeping of the blink phase, and the fast-forward started on a
// Bridge step, depend on Machine state and are applied by Machine.Advance.
//
// The returned Effects must not be modified.
func Transition(progress uint) Step {
	if progress < BlinkStart {
		return steps[progress]
	}
	return blinkStep
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TupleKey identifies a field in a remote update.
type TupleKey uint32

// Keys of the remote configuration protocol.
const (
	BluetoothVibeKey TupleKey = iota
	TypingAnimationKey
	TimezoneOffsetKey
)

var keyNames = [...]string{
	"BLUETOOTH_VIBE_KEY",
	"TYPING_ANIMATION_KEY",
	"TIMEZONE_OFFSET_KEY",
}

// Known reports whether Apply understands k.
func (k TupleKey) Known() bool {
	return int(k) < len(keyNames)
}

func (k TupleKey) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "TupleKey(" + strconv.FormatUint(uint64(k), 10) + ")"
}

// ErrUnknownKey is returned by ParseKey for names it does not know.
var ErrUnknownKey = errors.New("settings: unknown key")

// ParseKey accepts a key by protocol name (BLUETOOTH_VIBE_KEY), short name
// (bluetooth_vibe) or number.
func ParseKey(s string) (TupleKey, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return TupleKey(n), nil
	}
	u := strings.ToUpper(s)
	for i, name := range keyNames {
		if u == name || u+"_KEY" == name {
			return TupleKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownKey, s)
}

// Tuple is one field of a remote update.
type Tuple struct {
	Key   TupleKey
	Value int32
}

// Apply returns s with the tuples applied in order. Unknown keys are
// ignored. Offsets outside of the int16 range are clamped.
func (s Settings) Apply(tuples ...Tuple) Settings {
	for _, t := range tuples {
		switch t.Key {
		case BluetoothVibeKey:
			s.HapticOnDisconnect = t.Value != 0
		case TypingAnimationKey:
			s.AnimationEnabled = t.Value != 0
		case TimezoneOffsetKey:
			v := t.Value
			if v > math.MaxInt16 {
				v = math.MaxInt16
			} else if v < math.MinInt16 {
				v = math.MinInt16
			}
			s.TimezoneOffset = int16(v)
		}
	}
	return s
}

// Tuples returns the update that turns any Settings into s.
func (s Settings) Tuples() []Tuple {
	return []Tuple{
		{Key: BluetoothVibeKey, Value: int32(boolByte(s.HapticOnDisconnect))},
		{Key: TypingAnimationKey, Value: int32(boolByte(s.AnimationEnabled))},
		{Key: TimezoneOffsetKey, Value: int32(s.TimezoneOffset)},
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package settings holds the user preferences of the clock face and their
// persisted and remote representations.
//
// The persisted form is a packed 4 byte record stored under a single key:
//
//	offset size field
//	0      1    haptic on disconnect (0 or 1)
//	1      1    typing animation (0 or 1)
//	2      2    timezone offset in seconds, little-endian int16
//
// Remote updates are (key, value) tuples that each replace one field.
package settings

import (
	"context"
	"encoding/binary"
	"fmt"
)

// Key is the storage key of the settings record.
const Key uint32 = 262

// RecordSize is the size of the packed record.
const RecordSize = 4

// Settings are the user preferences.
type Settings struct {
	// HapticOnDisconnect vibrates when the phone link is lost.
	HapticOnDisconnect bool `json:"haptic_on_disconnect" yaml:"haptic_on_disconnect"`
	// AnimationEnabled enables the typing animation.
	AnimationEnabled bool `json:"animation_enabled" yaml:"animation_enabled"`
	// TimezoneOffset is added to the Unix time shown on the face, in seconds.
	//
	// It is a raw offset, not a timezone.
	TimezoneOffset int16 `json:"timezone_offset" yaml:"timezone_offset"`
}

// Defaults are used when nothing valid is persisted.
var Defaults = Settings{
	HapticOnDisconnect: true,
	AnimationEnabled:   true,
	TimezoneOffset:     0,
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Settings) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordSize)
	b[0] = boolByte(s.HapticOnDisconnect)
	b[1] = boolByte(s.AnimationEnabled)
	binary.LittleEndian.PutUint16(b[2:], uint16(s.TimezoneOffset))
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Any non-zero flag byte is true.
func (s *Settings) UnmarshalBinary(b []byte) error {
	if len(b) != RecordSize {
		return fmt.Errorf("settings: invalid record length; expected %d bytes, got %d bytes", RecordSize, len(b))
	}
	s.HapticOnDisconnect = b[0] != 0
	s.AnimationEnabled = b[1] != 0
	s.TimezoneOffset = int16(binary.LittleEndian.Uint16(b[2:]))
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// KV is the persistent storage the record lives in.
type KV interface {
	// Get returns ok == false when key was never written.
	Get(ctx context.Context, key uint32) (value []byte, ok bool, err error)
	Put(ctx context.Context, key uint32, value []byte) error
}

// Load reads the persisted settings.
//
// It always returns usable settings: Defaults when nothing is stored, and
// Defaults along with the error when the stored record is unreadable.
func Load(ctx context.Context, kv KV) (Settings, error) {
	b, ok, err := kv.Get(ctx, Key)
	if err != nil {
		return Defaults, fmt.Errorf("settings: load: %w", err)
	}
	if !ok {
		return Defaults, nil
	}
	var s Settings
	if err := s.UnmarshalBinary(b); err != nil {
		return Defaults, err
	}
	return s, nil
}

// Save persists s.
func Save(ctx context.Context, kv KV, s Settings) error {
	b, _ := s.MarshalBinary()
	if err := kv.Put(ctx, Key, b); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package remote delivers settings updates and phone link status from
// outside of the process.
//
// An update is a flat object mapping a key to a value. Keys are the protocol
// names (TYPING_ANIMATION_KEY), their short form (typing_animation) or the
// numeric key. Values are integers or booleans:
//
//	{"typing_animation": false, "timezone_offset": 3600}
//
// The same shape is accepted as JSON on NATS and as YAML in a watched file.
package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/termclock/settings"
)

// DecodeJSON parses a JSON update.
func DecodeJSON(data []byte) ([]settings.Tuple, error) {
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	var m map[string]any
	if err := d.Decode(&m); err != nil {
		return nil, fmt.Errorf("remote: invalid update: %w", err)
	}
	return fromMap(m)
}

// DecodeYAML parses a YAML update. An empty document is an empty update.
func DecodeYAML(data []byte) ([]settings.Tuple, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("remote: invalid update: %w", err)
	}
	return fromMap(m)
}

// EncodeJSON is the inverse of DecodeJSON. Known keys use their protocol
// names, others their number.
func EncodeJSON(tuples []settings.Tuple) ([]byte, error) {
	m := make(map[string]int32, len(tuples))
	for _, t := range tuples {
		name := t.Key.String()
		if !t.Key.Known() {
			name = strconv.FormatUint(uint64(t.Key), 10)
		}
		m[name] = t.Value
	}
	return json.Marshal(m)
}

// ParseAssignment parses a key=value pair as given on a command line. Values
// are integers or booleans.
func ParseAssignment(s string) (settings.Tuple, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return settings.Tuple{}, fmt.Errorf("remote: %q is not key=value", s)
	}
	key, err := settings.ParseKey(strings.TrimSpace(k))
	if err != nil {
		return settings.Tuple{}, fmt.Errorf("remote: %w", err)
	}
	v = strings.TrimSpace(v)
	if b, err := strconv.ParseBool(v); err == nil {
		n, _ := toInt32(b)
		return settings.Tuple{Key: key, Value: n}, nil
	}
	n, err := toInt32(json.Number(v))
	if err != nil {
		return settings.Tuple{}, fmt.Errorf("remote: %s: %w", key, err)
	}
	return settings.Tuple{Key: key, Value: n}, nil
}

// Link is the phone link status message.
type Link struct {
	Connected bool `json:"connected"`
}

// DecodeLink parses a link status message.
func DecodeLink(data []byte) (bool, error) {
	var l Link
	if err := json.Unmarshal(data, &l); err != nil {
		return false, fmt.Errorf("remote: invalid link status: %w", err)
	}
	return l.Connected, nil
}

// fromMap converts a decoded object into tuples ordered by key.
func fromMap(m map[string]any) ([]settings.Tuple, error) {
	out := make([]settings.Tuple, 0, len(m))
	for k, v := range m {
		key, err := settings.ParseKey(k)
		if errors.Is(err, settings.ErrUnknownKey) {
			slog.Debug("Ignoring unknown settings key", "key", k)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("remote: %w", err)
		}
		n, err := toInt32(v)
		if err != nil {
			return nil, fmt.Errorf("remote: %s: %w", key, err)
		}
		out = append(out, settings.Tuple{Key: key, Value: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func toInt32(v any) (int32, error) {
	var n int64
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of range", x)
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("value %s is not an integer", x)
		}
		n = i
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("value %d out of range", n)
	}
	return int32(n), nil
}

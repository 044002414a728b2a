// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("TERMCLOCK_NATS", "nats://broker:4222")
	path := writeFile(t, "termclock.yaml", `
display:
  backend: Preview
  width: 128
  height: 64
clock:
  format: 12h
  location: UTC
  fast: 50ms
remote:
  nats_url: ${TERMCLOCK_NATS}
haptic:
  pin: GPIO17
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendPreview, cfg.Display.Backend)
	require.Equal(t, 128, cfg.Display.Width)
	require.Equal(t, "basic", cfg.Display.Font)
	require.Equal(t, 50*time.Millisecond, cfg.Clock.Fast)
	require.Equal(t, time.Second, cfg.Clock.Intermission)
	require.Equal(t, "nats://broker:4222", cfg.Remote.NATSURL)
	require.Equal(t, "termclock", cfg.Remote.SubjectPrefix)
	require.Equal(t, "GPIO17", cfg.Haptic.Pin)

	loc, err := cfg.Clock.Loc()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
	lvl, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":   "display: [",
		"backend":  "display:\n  backend: crt\n",
		"size":     "display:\n  width: 0\n",
		"format":   "clock:\n  format: 13h\n",
		"location": "clock:\n  location: Mars/Olympus\n",
		"delay":    "clock:\n  fast: 0s\n",
		"level":    "logging:\n  level: loud\n",
		"preview":  "display:\n  preview_format: gif\n",
		"prefix":   "remote:\n  nats_url: nats://x\n  subject_prefix: \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", content))
			require.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("TERMCLOCK_A=from-file\nTERMCLOCK_B=from-file\n"), 0o644))
	t.Setenv("TERMCLOCK_A", "from-env")
	t.Setenv("TERMCLOCK_B", "")
	require.NoError(t, os.Unsetenv("TERMCLOCK_B"))

	require.NoError(t, LoadEnv(env, filepath.Join(dir, ".env.local")))
	require.Equal(t, "from-env", os.Getenv("TERMCLOCK_A"))
	require.Equal(t, "from-file", os.Getenv("TERMCLOCK_B"))
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"image/png"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/termclock/config"
	"github.com/GermanBionicSystems/termclock/metrics"
	"github.com/GermanBionicSystems/termclock/persist"
	"github.com/GermanBionicSystems/termclock/settings"
)

// newCLI returns a CLI whose configuration keeps all state in a temporary
// directory.
func newCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	db := filepath.Join(dir, "settings.db")
	path := filepath.Join(dir, "termclock.yaml")
	content := "storage:\n  path: " + db + "\nclock:\n  location: UTC\n  format: 24h\nhttp:\n  addr: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &CLI{Config: path}, db
}

func TestSnapshot(t *testing.T) {
	cli, _ := newCLI(t)
	out := filepath.Join(t.TempDir(), "face.png")
	cmd := &SnapshotCmd{Output: out, At: "2026-10-16T13:05:00Z", Steps: 24}
	require.NoError(t, cmd.Run(cli))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 144, img.Bounds().Dx())
	require.Equal(t, 168, img.Bounds().Dy())
}

func TestSnapshotBadTime(t *testing.T) {
	cli, _ := newCLI(t)
	cmd := &SnapshotCmd{Output: filepath.Join(t.TempDir(), "x.png"), At: "yesterday"}
	require.Error(t, cmd.Run(cli))
}

func TestSettingsSet(t *testing.T) {
	cli, db := newCLI(t)
	cmd := &SetSettingsCmd{Assignments: []string{"typing_animation=false", "timezone_offset=3600"}}
	require.NoError(t, cmd.Run(cli))

	store, err := persist.Open(db)
	require.NoError(t, err)
	defer store.Close()
	got, err := settings.Load(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, settings.Settings{HapticOnDisconnect: true, TimezoneOffset: 3600}, got)
	require.NoError(t, ShowSettingsCmd{}.Run(cli))
}

func TestSettingsSetErrors(t *testing.T) {
	cli, _ := newCLI(t)
	require.Error(t, (&SetSettingsCmd{Assignments: []string{"volume=11"}}).Run(cli))
	require.Error(t, (&SetSettingsCmd{Assignments: []string{"typing_animation=false"}, Publish: true}).Run(cli))
}

func TestStepper(t *testing.T) {
	var s stepper
	calls := 0
	id := s.Schedule(time.Second, func() { calls++ })
	s.Cancel(id + 1)
	require.True(t, s.step())
	require.False(t, s.step())
	id = s.Schedule(time.Second, func() { calls++ })
	s.Cancel(id)
	require.False(t, s.step())
	require.Equal(t, 1, calls)
}

func TestZoneClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 11, 0, 0, 0, time.UTC))
	got := zoneClock{Clock: clock, loc: time.FixedZone("X", 2*3600)}.Now()
	require.Equal(t, 13, got.Hour())
}

func TestOpenDisplay(t *testing.T) {
	for _, backend := range []string{config.BackendPreview, config.BackendNone} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.Default().Display
			cfg.Backend = backend
			out, err := openDisplay(&cfg)
			require.NoError(t, err)
			c, err := newCanvas(out, &cfg)
			require.NoError(t, err)
			require.NoError(t, c.Flush())
			require.Equal(t, backend == config.BackendPreview, out.preview != nil)
			require.NoError(t, out.Close())
		})
	}
	cfg := config.Default().Display
	cfg.Backend = "crt"
	_, err := openDisplay(&cfg)
	require.Error(t, err)
}

func TestPreviewFormatFromConfig(t *testing.T) {
	cfg := config.Default().Display
	cfg.Backend = config.BackendPreview
	cfg.PreviewFormat = "jpeg"
	out, err := openDisplay(&cfg)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	rec := httptest.NewRecorder()
	out.preview.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Type"))
	require.NoError(t, err)
	part, err := multipart.NewReader(rec.Body, params["boundary"]).NextPart()
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", part.Header.Get("Content-Type"))
}

func TestShutdownEndsPreviewStream(t *testing.T) {
	cfg := config.Default().Display
	cfg.Backend = config.BackendPreview
	out, err := openDisplay(&cfg)
	require.NoError(t, err)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := newServer(ln.Addr().String(), metrics.NewRegistry(), out)
	go func() { _ = srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	require.NoError(t, err)
	mr := multipart.NewReader(resp.Body, params["boundary"])
	_, err = mr.NextPart()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	require.Less(t, time.Since(start), 3*time.Second)
	_, err = mr.NextPart()
	require.Error(t, err)
}

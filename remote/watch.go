// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/GermanBionicSystems/termclock/settings"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher reloads a YAML update file whenever it changes.
type FileWatcher struct {
	path     string
	clock    clockwork.Clock
	debounce time.Duration
	fn       func([]settings.Tuple)
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending clockwork.Timer
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewFileWatcher returns a watcher for path. fn is called with each
// successfully decoded file, from a timer goroutine.
func NewFileWatcher(path string, clock clockwork.Clock, debounce time.Duration, fn func([]settings.Tuple)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("remote: resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("remote: create file watcher: %w", err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		path:     abs,
		clock:    clock,
		debounce: debounce,
		fn:       fn,
		watcher:  w,
		done:     make(chan struct{}),
	}, nil
}

// Start loads the file once if it exists, then watches its directory. Editors
// that save by rename replace the inode, so the file itself is not watched.
func (f *FileWatcher) Start(ctx context.Context) error {
	if err := f.watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("remote: watch %s: %w", filepath.Dir(f.path), err)
	}
	if err := f.load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Ignoring settings file", "path", f.path, "error", err)
	}
	slog.Info("Watching settings file", "path", f.path)
	f.wg.Add(1)
	go f.loop(ctx)
	return nil
}

// Close stops watching. Pending reloads are dropped.
func (f *FileWatcher) Close() error {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return nil
	default:
	}
	close(f.done)
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	f.mu.Unlock()
	err := f.watcher.Close()
	f.wg.Wait()
	return err
}

func (f *FileWatcher) loop(ctx context.Context) {
	defer f.wg.Done()
	name := filepath.Base(f.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				slog.Debug("Settings file changed", "path", ev.Name, "op", ev.Op.String())
				f.trigger()
			case ev.Has(fsnotify.Remove):
				slog.Warn("Settings file removed", "path", ev.Name)
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Settings watcher error", "error", err)
		}
	}
}

// trigger restarts the debounce timer.
func (f *FileWatcher) trigger() {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
		return
	default:
	}
	if f.pending != nil {
		f.pending.Stop()
	}
	f.pending = f.clock.AfterFunc(f.debounce, func() {
		if err := f.load(); err != nil {
			slog.Warn("Ignoring settings file", "path", f.path, "error", err)
		}
	})
}

func (f *FileWatcher) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	tuples, err := DecodeYAML(data)
	if err != nil {
		return err
	}
	if len(tuples) != 0 && f.fn != nil {
		f.fn(tuples)
	}
	return nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the termclock YAML configuration.
//
// ${VAR} references are expanded from the environment before parsing. .env
// and .env.local in the working directory are loaded first, without
// overriding variables already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/termclock/preview"
	"github.com/GermanBionicSystems/termclock/timefmt"
)

// Config is the whole configuration file.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Clock   ClockConfig   `yaml:"clock"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Haptic  HapticConfig  `yaml:"haptic"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// Display backends.
const (
	BackendTerminal = "terminal"
	BackendPreview  = "preview"
	BackendSSD1306  = "ssd1306"
	BackendNone     = "none"
)

// DisplayConfig selects where frames go.
type DisplayConfig struct {
	Backend  string  `yaml:"backend"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"font_size"`
	// TerminalStep is the number of pixels per terminal cell.
	TerminalStep int `yaml:"terminal_step"`
	// I2CBus is the bus name for the ssd1306 backend; "" is the first bus.
	I2CBus string `yaml:"i2c_bus"`
	// PreviewFormat is png or jpeg.
	PreviewFormat string `yaml:"preview_format"`
}

// ClockConfig controls the animation.
type ClockConfig struct {
	// Format is auto, 12h or 24h.
	Format string `yaml:"format"`
	// Location is an IANA zone name or Local.
	Location     string        `yaml:"location"`
	Fast         time.Duration `yaml:"fast"`
	Intermission time.Duration `yaml:"intermission"`
}

// StorageConfig is where settings persist.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig enables the remote settings channels. Empty values disable
// them.
type RemoteConfig struct {
	NATSURL       string        `yaml:"nats_url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	SettingsFile  string        `yaml:"settings_file"`
	Debounce      time.Duration `yaml:"debounce"`
}

// HapticConfig names the GPIO of the vibration motor. Empty disables it.
type HapticConfig struct {
	Pin string `yaml:"pin"`
}

// HTTPConfig is the listen address for /metrics and the preview. Empty
// disables the server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Backend:       BackendTerminal,
			Width:         144,
			Height:        168,
			Font:          "basic",
			FontSize:      11,
			TerminalStep:  2,
			PreviewFormat: "png",
		},
		Clock: ClockConfig{
			Format:       "auto",
			Location:     "Local",
			Fast:         200 * time.Millisecond,
			Intermission: time.Second,
		},
		Storage: StorageConfig{Path: "termclock.db"},
		Remote: RemoteConfig{
			SubjectPrefix: "termclock",
			Debounce:      500 * time.Millisecond,
		},
		HTTP:    HTTPConfig{Addr: ":9090"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadEnv loads .env files without overriding the environment. Missing files
// are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: %s: %w", f, err)
		}
		slog.Debug("Loaded environment file", "path", f)
	}
	return nil
}

// Load reads path over Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No configuration file, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and normalizes enumerations to lower case.
func (c *Config) Validate() error {
	var errs []error
	c.Display.Backend = strings.ToLower(c.Display.Backend)
	switch c.Display.Backend {
	case BackendTerminal, BackendPreview, BackendSSD1306, BackendNone:
	default:
		errs = append(errs, fmt.Errorf("display.backend: unknown backend %q", c.Display.Backend))
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("display: invalid size %dx%d", c.Display.Width, c.Display.Height))
	}
	if c.Display.TerminalStep <= 0 {
		errs = append(errs, fmt.Errorf("display.terminal_step: must be positive, got %d", c.Display.TerminalStep))
	}
	if _, err := preview.ParseFormat(c.Display.PreviewFormat); err != nil {
		errs = append(errs, fmt.Errorf("display.preview_format: %w", err))
	}
	if _, err := timefmt.Parse(c.Clock.Format); err != nil {
		errs = append(errs, fmt.Errorf("clock.format: %w", err))
	}
	if _, err := c.Clock.Loc(); err != nil {
		errs = append(errs, err)
	}
	if c.Clock.Fast <= 0 || c.Clock.Intermission <= 0 {
		errs = append(errs, fmt.Errorf("clock: delays must be positive, got fast=%s intermission=%s", c.Clock.Fast, c.Clock.Intermission))
	}
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path: required"))
	}
	if c.Remote.NATSURL != "" && c.Remote.SubjectPrefix == "" {
		errs = append(errs, errors.New("remote.subject_prefix: required with nats_url"))
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Loc resolves Location.
func (c ClockConfig) Loc() (*time.Location, error) {
	if c.Location == "" || strings.EqualFold(c.Location, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("clock.location: %w", err)
	}
	return loc, nil
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

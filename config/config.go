// Package config loads engine settings from a TOML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root of the configuration file
type Config struct {
	Session SessionConfig `toml:"session"`
	Audio   AudioConfig   `toml:"audio"`
}

// SessionConfig selects the terminal session
type SessionConfig struct {
	Kind  string `toml:"kind"` // auto, ansi, tcell
	Mouse bool   `toml:"mouse"`
	Title string `toml:"title"`
}

// AudioConfig selects and tunes the audio backend
type AudioConfig struct {
	Backend           string `toml:"backend"` // auto, oto, beep, pipe, none
	Format            string `toml:"format"`  // auto, float32, int16, int32
	Channels          int    `toml:"channels"`
	RingCapacity      int    `toml:"ring_capacity"`
	PeriodMS          int    `toml:"period_ms"`
	LivenessTimeoutMS int    `toml:"liveness_timeout_ms"`
	MaxFrames         int    `toml:"max_frames"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Kind:  "auto",
			Mouse: true,
		},
		Audio: AudioConfig{
			Backend:           "auto",
			Format:            "auto",
			Channels:          2,
			RingCapacity:      32768,
			PeriodMS:          5,
			LivenessTimeoutMS: 2000,
			MaxFrames:         4096,
		},
	}
}

// Load reads path over the defaults and applies environment overrides
// A missing file is not an error
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies CELLBOX_* variables; unparseable numbers are ignored
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CELLBOX_SESSION"); v != "" {
		c.Session.Kind = v
	}
	if v := os.Getenv("CELLBOX_AUDIO_BACKEND"); v != "" {
		c.Audio.Backend = v
	}
	if v := os.Getenv("CELLBOX_AUDIO_FORMAT"); v != "" {
		c.Audio.Format = v
	}
	if v := os.Getenv("CELLBOX_AUDIO_CHANNELS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Audio.Channels = n
		}
	}
	if v := os.Getenv("CELLBOX_RING_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Audio.RingCapacity = n
		}
	}
}

// ValidationError names one invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid field
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	validSessions = map[string]bool{"auto": true, "ansi": true, "tcell": true}
	validBackends = map[string]bool{"auto": true, "oto": true, "beep": true, "pipe": true, "none": true}
	validFormats  = map[string]bool{"auto": true, "float32": true, "int16": true, "int32": true}
)

// Validate normalises names and numeric ranges and rejects unknown names
// Ring capacity is rounded up to a power of two
func (c *Config) Validate() error {
	var errs ValidateErrors

	c.Session.Kind = strings.ToLower(strings.TrimSpace(c.Session.Kind))
	if c.Session.Kind == "" {
		c.Session.Kind = "auto"
	}
	if !validSessions[c.Session.Kind] {
		errs = append(errs, ValidationError{"session.kind", fmt.Sprintf("invalid kind %q, must be one of: auto, ansi, tcell", c.Session.Kind)})
	}

	c.Audio.Backend = strings.ToLower(strings.TrimSpace(c.Audio.Backend))
	if c.Audio.Backend == "" {
		c.Audio.Backend = "auto"
	}
	if !validBackends[c.Audio.Backend] {
		errs = append(errs, ValidationError{"audio.backend", fmt.Sprintf("invalid backend %q, must be one of: auto, oto, beep, pipe, none", c.Audio.Backend)})
	}

	c.Audio.Format = strings.ToLower(strings.TrimSpace(c.Audio.Format))
	if c.Audio.Format == "" {
		c.Audio.Format = "auto"
	}
	if !validFormats[c.Audio.Format] {
		errs = append(errs, ValidationError{"audio.format", fmt.Sprintf("invalid format %q, must be one of: auto, float32, int16, int32", c.Audio.Format)})
	}

	def := Default().Audio
	if c.Audio.Channels <= 0 || c.Audio.Channels > 8 {
		c.Audio.Channels = def.Channels
	}
	if c.Audio.RingCapacity <= 0 {
		c.Audio.RingCapacity = def.RingCapacity
	}
	c.Audio.RingCapacity = ceilPow2(c.Audio.RingCapacity)
	if c.Audio.PeriodMS <= 0 {
		c.Audio.PeriodMS = def.PeriodMS
	}
	if c.Audio.LivenessTimeoutMS <= 0 {
		c.Audio.LivenessTimeoutMS = def.LivenessTimeoutMS
	}
	if c.Audio.MaxFrames <= 0 {
		c.Audio.MaxFrames = def.MaxFrames
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func ceilPow2(n int) int {
	p := 1
	for p < n && p < 1<<30 {
		p <<= 1
	}
	return p
}

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/litecube/litecube/internal/window"
	"gopkg.in/yaml.v3"
)

// Position is a screen position for the window's top-left corner.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// WindowConfig describes the window the demo opens.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// Flags are window.ParseFlags names; "default" expands to the default set.
	Flags []string `yaml:"flags"`
	// Position is applied after Open. Nil leaves the backend's placement.
	Position *Position `yaml:"position,omitempty"`
}

// BounceConfig drives the window around the work area.
type BounceConfig struct {
	Enabled bool `yaml:"enabled"`
	// Speed is in pixels per frame.
	Speed float64 `yaml:"speed"`
}

// Config is the effective litecube configuration.
type Config struct {
	// Backend is one of: auto, x11, win32, headless.
	Backend      string        `yaml:"backend"`
	Window       WindowConfig  `yaml:"window"`
	Fullscreen   bool          `yaml:"fullscreen"`
	LogLevel     string        `yaml:"log_level"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Bounce       BounceConfig  `yaml:"bounce"`
}

// ValidationError ties a validation failure to the YAML path, and when known
// the file position, that caused it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DefaultConfig returns the configuration used when no file exists: the
// 800x600 "Hello, World!" window at (100, 100).
func DefaultConfig() *Config {
	return &Config{
		Backend: "auto",
		Window: WindowConfig{
			Width:    800,
			Height:   600,
			Title:    "Hello, World!",
			Flags:    []string{"default"},
			Position: &Position{X: 100, Y: 100},
		},
		LogLevel:     "info",
		PollInterval: 16 * time.Millisecond,
		Bounce: BounceConfig{
			Speed: 4,
		},
	}
}

// Flags parses Window.Flags. When Fullscreen is set the window opens with
// window.Fullscreen alone, replacing the configured flags.
func (c *Config) Flags() (window.Flags, error) {
	flags, err := window.ParseFlags(c.Window.Flags)
	if err != nil {
		return 0, err
	}
	if c.Fullscreen {
		return window.Fullscreen, nil
	}
	return flags, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "x11", "win32", "headless":
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, x11, win32, headless")}
	}
	if c.Window.Width <= 0 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Window.Height <= 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be > 0")}
	}
	if _, err := window.ParseFlags(c.Window.Flags); err != nil {
		return &ValidationError{Path: "window.flags", Err: err}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.PollInterval < 0 {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be >= 0")}
	}
	if c.Bounce.Speed < 0 {
		return &ValidationError{Path: "bounce.speed", Err: fmt.Errorf("speed must be >= 0")}
	}
	if c.Bounce.Enabled && c.Bounce.Speed == 0 {
		return &ValidationError{Path: "bounce.speed", Err: fmt.Errorf("speed must be > 0 when bounce is enabled")}
	}
	return nil
}

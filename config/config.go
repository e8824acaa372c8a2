// Package config holds the persistent settings of pianoviz.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pianoviz/canvas"
	"pianoviz/particles"
	"pianoviz/player"
	"pianoviz/renderer"
	"pianoviz/session"
)

// VideoConfig controls offline rendering.
type VideoConfig struct {
	Resolution string  `json:"resolution"`
	FPS        int     `json:"fps"`
	StartDelay float64 `json:"startDelay"` // seconds of empty keyboard before the first note
	OutputDir  string  `json:"outputDir"`
	FramesDir  string  `json:"framesDir"`
	Workers    int     `json:"workers"`
	Audio      bool    `json:"audio"`
	KeepFrames bool    `json:"keepFrames"`
}

// ViewConfig controls the look of a frame.
type ViewConfig struct {
	Visible        float64 `json:"visible"` // preferred visible span, seconds
	KeyboardHeight float64 `json:"keyboardHeight"`
	GlowHeight     float64 `json:"glowHeight"`
	Background     string  `json:"background"`
	Labels         bool    `json:"labels"`
}

// ServerConfig controls the live preview.
type ServerConfig struct {
	Addr       string `json:"addr"`
	Resolution string `json:"resolution"`
	Watch      bool   `json:"watch"`
}

// Config is the main configuration structure.
type Config struct {
	Video        VideoConfig      `json:"video"`
	View         ViewConfig       `json:"view"`
	Particles    particles.Params `json:"particles"`
	EmitAttempts int              `json:"emitAttempts"`
	Tail         float64          `json:"tail"` // seconds played past the last event
	Server       ServerConfig     `json:"server"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	return &Config{
		Video: VideoConfig{
			Resolution: "720p",
			FPS:        60,
			StartDelay: 3,
			OutputDir:  "output",
			FramesDir:  "_frames",
			Workers:    8,
			Audio:      true,
		},
		View: ViewConfig{
			Visible:        10,
			KeyboardHeight: 20,
			GlowHeight:     120,
			Background:     "#000000",
			Labels:         true,
		},
		Particles:    particles.DefaultParams(),
		EmitAttempts: particles.EmitAttempts,
		Tail:         player.DefaultTail,
		Server: ServerConfig{
			Addr:       "localhost:8080",
			Resolution: "480p",
			Watch:      true,
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pianoviz"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default location, or returns defaults if
// there is none.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads the config at path. Settings missing from the file keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := ParseResolution(c.Video.Resolution); err != nil {
		return fmt.Errorf("video: %w", err)
	}
	if _, err := ParseResolution(c.Server.Resolution); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if _, err := canvas.ParseHex(c.View.Background); err != nil {
		return fmt.Errorf("view: background: %w", err)
	}
	switch {
	case c.Video.FPS <= 0:
		return fmt.Errorf("video: fps must be positive, got %d", c.Video.FPS)
	case c.Video.StartDelay < 0:
		return fmt.Errorf("video: startDelay must not be negative, got %v", c.Video.StartDelay)
	case c.Video.Workers <= 0:
		return fmt.Errorf("video: workers must be positive, got %d", c.Video.Workers)
	case c.View.Visible <= 0:
		return fmt.Errorf("view: visible must be positive, got %v", c.View.Visible)
	case c.View.KeyboardHeight <= 0:
		return fmt.Errorf("view: keyboardHeight must be positive, got %v", c.View.KeyboardHeight)
	case c.View.GlowHeight < 0:
		return fmt.Errorf("view: glowHeight must not be negative, got %v", c.View.GlowHeight)
	case c.Particles.MaxParticles < 0:
		return fmt.Errorf("particles: maxParticles must not be negative, got %d", c.Particles.MaxParticles)
	case c.Particles.Lifetime <= 0:
		return fmt.Errorf("particles: lifetime must be positive, got %v", c.Particles.Lifetime)
	case c.EmitAttempts <= 0:
		return fmt.Errorf("emitAttempts must be positive, got %d", c.EmitAttempts)
	case c.Tail < 0:
		return fmt.Errorf("tail must not be negative, got %v", c.Tail)
	}
	return nil
}

// VideoResolution is the parsed video frame size.
func (c *Config) VideoResolution() ScreenResolution {
	r, err := ParseResolution(c.Video.Resolution)
	if err != nil {
		return Resolution720p
	}
	return r
}

// ServerResolution is the parsed preview frame size.
func (c *Config) ServerResolution() ScreenResolution {
	r, err := ParseResolution(c.Server.Resolution)
	if err != nil {
		return Resolution480p
	}
	return r
}

// Style builds the renderer style.
func (c *Config) Style() renderer.Style {
	st := renderer.DefaultStyle()
	st.KeyboardHeight = c.View.KeyboardHeight
	st.GlowHeight = c.View.GlowHeight
	st.Labels = c.View.Labels
	if bg, err := canvas.ParseHex(c.View.Background); err == nil {
		st.Background = bg
	}
	return st
}

// SessionOptions builds the options of a playback session.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Particles:    c.Particles,
		Style:        c.Style(),
		Visible:      c.View.Visible,
		EmitAttempts: c.EmitAttempts,
	}
}

// PlayerOptions builds the options of the real-time player.
func (c *Config) PlayerOptions() player.Options {
	return player.Options{FPS: c.Video.FPS, Tail: c.Tail}
}

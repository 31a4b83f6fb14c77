// Package config provides playback configuration management for the
// ppmckplay audio player.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all player configuration.
type Config struct {
	Audio   AudioConfig   `json:"audio"`
	Playback PlaybackConfig `json:"playback"`
	Paths   PathsConfig   `json:"paths"`

	configPath string
	loaded     bool
}

// AudioConfig contains output-device and sample-format settings.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	BufferSize int     `json:"buffer_size"`
	Volume     float32 `json:"volume"`
}

// PlaybackConfig contains song-playback settings. They are validated, saved
// and loaded with the rest of the file, but cmd/ppmckplay does not read
// them: it renders the song for --seconds regardless of loop count, fade
// or track index.
type PlaybackConfig struct {
	LoopCount    int     `json:"loop_count"` // 0 = play once, <0 = loop forever
	FadeSeconds  float64 `json:"fade_seconds"`
	TrackIndex   int     `json:"track_index"`
}

// PathsConfig contains file and directory paths.
type PathsConfig struct {
	ROMs   string `json:"roms"`
	Output string `json:"output"`
	Config string `json:"config"`
}

// New creates a new configuration with default values.
func New() *Config {
	return &Config{
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 48000,
			BufferSize: 2048,
			Volume:     0.8,
		},
		Playback: PlaybackConfig{
			LoopCount:   0,
			FadeSeconds: 2.0,
			TrackIndex:  0,
		},
		Paths: PathsConfig{
			ROMs:   "./roms",
			Output: "./out",
			Config: "./config",
		},
	}
}

// LoadFromFile loads configuration from a JSON file, writing out a default
// file first if none exists.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	c.validate()

	if err := c.createDirectories(); err != nil {
		return fmt.Errorf("config: create directories: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration back to the path it was last loaded from or
// saved to.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config: no file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate clamps out-of-range values to sane defaults rather than
// rejecting the whole file.
func (c *Config) validate() {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 48000
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = 2048
	}
	if c.Audio.Volume < 0.0 || c.Audio.Volume > 1.0 {
		c.Audio.Volume = 0.8
	}
	if c.Playback.FadeSeconds < 0 {
		c.Playback.FadeSeconds = 0
	}
}

func (c *Config) createDirectories() error {
	for _, dir := range []string{c.Paths.ROMs, c.Paths.Output, c.Paths.Config} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// IsLoaded reports whether the configuration was loaded from an existing
// file (as opposed to freshly defaulted).
func (c *Config) IsLoaded() bool { return c.loaded }

// GetConfigPath returns the path the configuration was loaded from or saved
// to, or "" if neither has happened yet.
func (c *Config) GetConfigPath() string { return c.configPath }

// DefaultConfigPath returns the conventional configuration file location.
func DefaultConfigPath() string { return "./config/ppmckplay.json" }

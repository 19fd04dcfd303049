// Package config holds the boot configuration of the jukebox firmware and
// the host tools.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"jukebox/core"
	"jukebox/melodies"
	"jukebox/protocol"
)

// Config is the serialisable configuration.
type Config struct {
	DebounceMs       uint32 `json:"debounce_ms" yaml:"debounce_ms"`
	OnOffPressMs     uint32 `json:"on_off_press_ms" yaml:"on_off_press_ms"`
	NextSongPressMs  uint32 `json:"next_song_press_ms" yaml:"next_song_press_ms"`
	ModeSwitchHoldMs uint32 `json:"mode_switch_hold_ms" yaml:"mode_switch_hold_ms"`
	KeyDebounceMs    uint32 `json:"key_debounce_ms" yaml:"key_debounce_ms"`
	KeyNoteMs        uint32 `json:"key_note_ms" yaml:"key_note_ms"`
	DisableKeyboard  bool   `json:"disable_keyboard" yaml:"disable_keyboard"`

	Serial   SerialConfig   `json:"serial" yaml:"serial"`
	Melodies []MelodyConfig `json:"melodies" yaml:"melodies"`
}

// SerialConfig selects the host serial port.
type SerialConfig struct {
	Device string `json:"device" yaml:"device"`
	Baud   int    `json:"baud" yaml:"baud"`
}

// MelodyConfig is an extra melody appended after the preloaded ones.
type MelodyConfig struct {
	Name      string    `json:"name" yaml:"name"`
	Notes     []float64 `json:"notes" yaml:"notes"`
	Durations []uint32  `json:"durations" yaml:"durations"`
}

var (
	ErrThresholds    = errors.New("next song press must be shorter than the on/off press")
	ErrTooManySongs  = errors.New("too many melodies")
	ErrInvalidMelody = errors.New("invalid melody")
)

// Load parses a JSON configuration and fills in defaults.
func Load(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Config) {
	if config.DebounceMs == 0 {
		config.DebounceMs = 150
	}
	if config.OnOffPressMs == 0 {
		config.OnOffPressMs = 1001
	}
	if config.NextSongPressMs == 0 {
		config.NextSongPressMs = 501
	}
	if config.ModeSwitchHoldMs == 0 {
		config.ModeSwitchHoldMs = 7000
	}
	if config.KeyDebounceMs == 0 {
		config.KeyDebounceMs = 50
	}
	if config.KeyNoteMs == 0 {
		config.KeyNoteMs = 1000
	}
	if config.Serial.Baud == 0 {
		config.Serial.Baud = protocol.BaudRate
	}
}

// Default returns the configuration the firmware boots with.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// Validate checks thresholds and melodies.
func (c *Config) Validate() error {
	if c.NextSongPressMs >= c.OnOffPressMs {
		return ErrThresholds
	}
	if n := len(melodies.Default()) + len(c.Melodies); n > core.MelodyLibrarySize {
		return fmt.Errorf("%w: %d > %d", ErrTooManySongs, n, core.MelodyLibrarySize)
	}
	for i, m := range c.Melodies {
		if m.Name == "" || len(m.Notes) == 0 || len(m.Notes) != len(m.Durations) {
			return fmt.Errorf("%w: melody %d (%q)", ErrInvalidMelody, i, m.Name)
		}
		for _, hz := range m.Notes {
			if hz < 0 {
				return fmt.Errorf("%w: melody %q has a negative frequency", ErrInvalidMelody, m.Name)
			}
		}
	}
	return nil
}

// Library returns the preloaded melodies followed by the configured ones.
func (c *Config) Library() []core.Melody {
	lib := melodies.Default()
	for _, m := range c.Melodies {
		lib = append(lib, core.Melody{
			Name:      m.Name,
			Notes:     m.Notes,
			Durations: m.Durations,
		})
	}
	return lib
}

// Core validates c and converts it to the firmware configuration.
func (c *Config) Core() (core.Config, error) {
	if err := c.Validate(); err != nil {
		return core.Config{}, err
	}

	chime := melodies.StateChange
	cfg := core.Config{
		DebounceMs:          c.DebounceMs,
		OnOffThresholdMs:    c.OnOffPressMs,
		NextSongThresholdMs: c.NextSongPressMs,
		Melodies:            c.Library(),
		ModeSwitchHoldMs:    c.ModeSwitchHoldMs,
		KeyDebounceMs:       c.KeyDebounceMs,
		KeyNoteMs:           c.KeyNoteMs,
		SwitchMelody:        &chime,
	}
	if c.DisableKeyboard {
		cfg.ModeSwitchHoldMs = 0
	}
	return cfg, nil
}

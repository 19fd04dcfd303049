package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"debounce", c.DebounceMs, 150},
		{"on/off", c.OnOffPressMs, 1001},
		{"next song", c.NextSongPressMs, 501},
		{"mode switch", c.ModeSwitchHoldMs, 7000},
		{"key debounce", c.KeyDebounceMs, 50},
		{"key note", c.KeyNoteMs, 1000},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, tt.got)
		}
	}
	if c.Serial.Baud != 9600 {
		t.Errorf("Expected baud 9600, got %d", c.Serial.Baud)
	}

	cfg, err := c.Core()
	if err != nil {
		t.Fatalf("Core failed: %v", err)
	}
	if len(cfg.Melodies) != 3 {
		t.Errorf("Expected 3 preloaded melodies, got %d", len(cfg.Melodies))
	}
	if cfg.SwitchMelody == nil || cfg.SwitchMelody.Len() != 2 {
		t.Error("Expected the two-note switch melody")
	}
}

func TestLoadJSON(t *testing.T) {
	c, err := Load([]byte(`{
		"on_off_press_ms": 2000,
		"melodies": [{"name": "beep", "notes": [440, 0], "durations": [100, 50]}]
	}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.OnOffPressMs != 2000 {
		t.Errorf("Expected on/off 2000, got %d", c.OnOffPressMs)
	}
	if c.DebounceMs != 150 {
		t.Errorf("Expected default debounce 150, got %d", c.DebounceMs)
	}

	lib := c.Library()
	if len(lib) != 4 || lib[3].Name != "beep" {
		t.Fatalf("Expected beep appended in slot 3, got %d melodies", len(lib))
	}
	if lib[3].Len() != 2 {
		t.Errorf("Expected 2 notes, got %d", lib[3].Len())
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jukebox.yaml")
	data := []byte("debounce_ms: 80\nserial:\n  device: /dev/ttyACM0\ndisable_keyboard: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.DebounceMs != 80 {
		t.Errorf("Expected debounce 80, got %d", c.DebounceMs)
	}
	if c.Serial.Device != "/dev/ttyACM0" || c.Serial.Baud != 9600 {
		t.Errorf("Unexpected serial config %+v", c.Serial)
	}

	cfg, err := c.Core()
	if err != nil {
		t.Fatalf("Core failed: %v", err)
	}
	if cfg.ModeSwitchHoldMs != 0 {
		t.Errorf("Expected keyboard disabled, got hold %d", cfg.ModeSwitchHoldMs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"ok", func(c *Config) {}, nil},
		{"thresholds", func(c *Config) { c.NextSongPressMs = 1500 }, ErrThresholds},
		{"mismatched melody", func(c *Config) {
			c.Melodies = []MelodyConfig{{Name: "x", Notes: []float64{440}, Durations: nil}}
		}, ErrInvalidMelody},
		{"unnamed melody", func(c *Config) {
			c.Melodies = []MelodyConfig{{Notes: []float64{440}, Durations: []uint32{1}}}
		}, ErrInvalidMelody},
		{"negative frequency", func(c *Config) {
			c.Melodies = []MelodyConfig{{Name: "x", Notes: []float64{-1}, Durations: []uint32{1}}}
		}, ErrInvalidMelody},
		{"too many", func(c *Config) {
			for i := 0; i < 8; i++ {
				c.Melodies = append(c.Melodies, MelodyConfig{Name: "x", Notes: []float64{440}, Durations: []uint32{1}})
			}
		}, ErrTooManySongs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

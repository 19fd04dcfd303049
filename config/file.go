//go:build !tinygo

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		config, err := Load(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return config, nil
	}
}

// LoadYAML parses a YAML configuration and fills in defaults.
func LoadYAML(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse yaml config: %w", err)
	}
	applyDefaults(&config)
	return &config, nil
}

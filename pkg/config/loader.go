package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/b/sandbar/pkg/colors"
)

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadOrDefault loads path if it exists. A missing file is only an error
// when required is set.
func LoadOrDefault(path string, required bool) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil && !required && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// SaveConfig writes cfg as YAML, creating the parent directory.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// DefaultTags returns the labels "1" through "9".
func DefaultTags() []string {
	tags := make([]string, 9)
	for i := range tags {
		tags[i] = strconv.Itoa(i + 1)
	}
	return tags
}

func applyDefaults(cfg *Config) {
	if cfg.Font == "" {
		cfg.Font = "monospace:size=16"
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = DefaultTags()
	}
	if cfg.VerticalPadding == nil {
		pad := 1
		cfg.VerticalPadding = &pad
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1
	}

	def := colors.DefaultPalette()
	fill := func(s *string, c color.NRGBA64) {
		if *s == "" {
			*s = colors.Hex(c)
		}
	}
	fill(&cfg.Colors.ActiveFg, def.ActiveFG)
	fill(&cfg.Colors.ActiveBg, def.ActiveBG)
	fill(&cfg.Colors.InactiveFg, def.InactiveFG)
	fill(&cfg.Colors.InactiveBg, def.InactiveBG)
	fill(&cfg.Colors.UrgentFg, def.UrgentFG)
	fill(&cfg.Colors.UrgentBg, def.UrgentBG)
	fill(&cfg.Colors.TitleFg, def.TitleFG)
	fill(&cfg.Colors.TitleBg, def.TitleBG)
}

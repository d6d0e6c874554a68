// Package config loads user defaults for findui from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds defaults for command-line flags. Flags given explicitly on
// the command line always win.
type Config struct {
	Backend      string        `yaml:"backend"`       // Provider backend ("" = platform default)
	Timeout      time.Duration `yaml:"timeout"`       // Window search timeout
	Depth        string        `yaml:"depth"`         // Enumeration depth: integer or "max"
	Format       string        `yaml:"format"`        // Output format
	CursorDelay  time.Duration `yaml:"cursor_delay"`  // Wait before sampling the pointer
	PollInterval time.Duration `yaml:"poll_interval"` // Delay between window lookups
	OnlyVisible  bool          `yaml:"only_visible"`  // Default for --only-visible
	NoColor      bool          `yaml:"no_color"`      // Default for --no-color
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Timeout:      5 * time.Second,
		Depth:        "3",
		Format:       "text",
		CursorDelay:  5 * time.Second,
		PollInterval: 500 * time.Millisecond,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/findui/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "findui", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "findui", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error unless
// required is set.
func Load(path string, required bool) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// durationKeys are the keys decoded as time.Duration. Bare numbers under
// them are seconds, as on the command line.
var durationKeys = map[string]bool{"timeout": true, "cursor_delay": true, "poll_interval": true}

// Decode reads YAML over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].ShortTag() == "!!null" {
		return cfg, cfg.Validate()
	}
	secondsToDurations(&doc)

	// Re-encode so unknown keys are still rejected.
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// secondsToDurations rewrites numeric values of duration keys, e.g.
// "timeout: 5", into duration strings ("5s").
func secondsToDurations(doc *yaml.Node) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if !durationKeys[key.Value] || val.Kind != yaml.ScalarNode {
			continue
		}
		if tag := val.ShortTag(); tag == "!!int" || tag == "!!float" {
			val.Value += "s"
			val.Tag = "!!str"
			val.Style = 0
		}
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Timeout < time.Second:
		return fmt.Errorf("timeout must be at least 1s (bare numbers are seconds), got %s", c.Timeout)
	case c.CursorDelay < 0:
		return fmt.Errorf("cursor_delay must not be negative, got %s", c.CursorDelay)
	case c.PollInterval <= 0:
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return nil
}

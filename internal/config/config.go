// Package config loads game-setup configuration from YAML files:
// player names, seed, board radius, and an optional explicit port
// layout overriding the generated one.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hex-settlers/internal/board"
)

// Config describes one game to create.
type Config struct {
	Players []string     `yaml:"players"`
	Seed    int64        `yaml:"seed"`
	Radius  int          `yaml:"radius"`
	Ports   []PortConfig `yaml:"ports"`
}

// PortConfig is one custom port entry. Resource is a resource name, or
// empty for a generic port.
type PortConfig struct {
	Edge     int    `yaml:"edge"`
	Rate     int    `yaml:"rate"`
	Resource string `yaml:"resource"`
}

// Default returns the standard four-player setup on a radius-2 board.
func Default() Config {
	return Config{
		Players: []string{"Alice", "Bram", "Cleo", "Dara"},
		Seed:    42,
		Radius:  2,
	}
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields the board generator cannot.
func (c Config) Validate() error {
	if len(c.Players) < 2 {
		return fmt.Errorf("config needs at least 2 players, got %d", len(c.Players))
	}
	if c.Radius < 1 {
		return fmt.Errorf("config radius must be >= 1, got %d", c.Radius)
	}
	for i, port := range c.Ports {
		if port.Resource == "" {
			continue
		}
		r, ok := board.ParseResource(port.Resource)
		if !ok {
			return fmt.Errorf("config port %d has unknown resource %q", i, port.Resource)
		}
		if !r.Productive() {
			return fmt.Errorf("config port %d resource must be productive, got %s", i, r)
		}
	}
	return nil
}

// PortSpecs converts the custom port entries for the board generator.
// Returns nil when no override is configured.
func (c Config) PortSpecs() []board.PortSpec {
	if len(c.Ports) == 0 {
		return nil
	}
	specs := make([]board.PortSpec, 0, len(c.Ports))
	for _, port := range c.Ports {
		spec := board.PortSpec{EdgeID: port.Edge, Rate: port.Rate}
		if port.Resource != "" {
			if r, ok := board.ParseResource(port.Resource); ok {
				spec.Resource = &r
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

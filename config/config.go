// Package config loads heimdall's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Uzaaft/heimdall/binding"
)

// ErrConfig wraps every load, decode and validation failure.
var ErrConfig = errors.New("config error")

const DefaultWatchInterval = 2 * time.Second

type Config struct {
	// Shell runs binding commands. Empty means the platform default.
	Shell         string            `toml:"shell"`
	WatchInterval time.Duration     `toml:"watch_interval"`
	Bindings      []binding.Binding `toml:"bindings"`
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document, rejecting unknown keys and invalid
// bindings.
func Parse(doc string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrConfig, strings.Join(keys, ", "))
	}

	switch {
	case cfg.WatchInterval < 0:
		return nil, fmt.Errorf("%w: watch_interval must be positive, got %v", ErrConfig, cfg.WatchInterval)
	case cfg.WatchInterval == 0:
		cfg.WatchInterval = DefaultWatchInterval
	}

	for i, b := range cfg.Bindings {
		if _, err := binding.Encode(b); err != nil {
			return nil, fmt.Errorf("%w: binding %d (%s): %w", ErrConfig, i+1, b, err)
		}
		if strings.TrimSpace(b.Command) == "" {
			return nil, fmt.Errorf("%w: binding %d (%s): command is empty", ErrConfig, i+1, b)
		}
	}
	return &cfg, nil
}

// Codes returns the canonical code of every binding, in file order.
func (c *Config) Codes() []string {
	codes := make([]string, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		code, err := binding.Encode(b)
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

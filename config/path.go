package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve picks the config file: the -config flag, then HEIMDALL_CONFIG,
// then $XDG_CONFIG_HOME/heimdall/config.toml, then
// ~/.config/heimdall/config.toml.
func Resolve(flagPath string) (string, error) {
	if flagPath != "" {
		return filepath.Abs(flagPath)
	}
	if env := os.Getenv("HEIMDALL_CONFIG"); env != "" {
		return filepath.Abs(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "heimdall", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: cannot locate home directory: %w", ErrConfig, err)
	}
	return filepath.Join(home, ".config", "heimdall", "config.toml"), nil
}

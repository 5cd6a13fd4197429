// Package login starts heimdall automatically when the user logs in.
package login

import (
	"errors"
	"fmt"
	"os"
)

var ErrUnsupported = errors.New("login auto-launch is not supported on this platform")

const appName = "heimdall"

// Restart re-creates the login entry so it points at the current executable
// and args.
func Restart(args ...string) error {
	if err := Disable(); err != nil {
		return err
	}
	return Enable(args...)
}

func executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

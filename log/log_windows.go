//go:build windows

package log

import (
	"os"
	"path/filepath"
)

// getDefaultDir returns %LOCALAPPDATA%\heimdall\logs.
func getDefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "heimdall", "logs"), nil
}

//go:build !windows

package shutdown

import (
	"os"
	"syscall"
)

// launchd and systemd stop sessions with SIGTERM.
var signals = []os.Signal{os.Interrupt, syscall.SIGTERM}

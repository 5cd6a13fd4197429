//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

const (
	isWindows     = false
	platformShell = "/bin/sh"
)

func shellFlag(string) string { return "-c" }

// detach puts the child in its own process group so a Ctrl+C aimed at the
// daemon's terminal does not kill commands it started.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

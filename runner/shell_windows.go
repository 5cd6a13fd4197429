//go:build windows

package runner

import (
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

const (
	isWindows     = true
	platformShell = "cmd.exe"

	createNewProcessGroup = 0x00000200
	createNoWindow        = 0x08000000
)

func shellFlag(path string) string {
	switch strings.ToLower(filepath.Base(path)) {
	case "cmd", "cmd.exe":
		return "/C"
	case "powershell", "powershell.exe", "pwsh", "pwsh.exe":
		return "-Command"
	}
	return "-c"
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup | createNoWindow}
}

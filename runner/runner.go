// Package runner starts configured commands through a shell without waiting
// for them.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/Uzaaft/heimdall/log"
)

// Shell spawns commands as "<shell> <flag> <command>".
type Shell struct {
	path string
	flag string

	wg sync.WaitGroup

	// exited is called after every child exits; tests hook it.
	exited func(command string, exitCode int)
}

// New returns a Shell using path, or the platform default when path is empty.
func New(path string) *Shell {
	if path == "" {
		path = defaultShell()
	}
	return &Shell{path: path, flag: shellFlag(path)}
}

func (s *Shell) Path() string { return s.path }

// Spawn starts command and returns once the child is running. Its exit is
// logged from a separate goroutine.
func (s *Shell) Spawn(command string) error {
	// Stdio is left nil: the child reads and writes the null device.
	cmd := exec.Command(s.path, s.flag, command)
	detach(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %q via %s: %w", command, s.path, err)
	}
	pid := cmd.Process.Pid
	log.Debugf("spawned %q pid=%d", command, pid)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		code := exitCode(cmd.Wait())
		log.CommandExit(command, pid, code, time.Since(start))
		if s.exited != nil {
			s.exited(command, code)
		}
	}()
	return nil
}

// Wait blocks until every spawned child has exited.
func (s *Shell) Wait() {
	s.wg.Wait()
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	log.Errorf("wait: %v", err)
	return -1
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" && !isWindows {
		return sh
	}
	return platformShell
}

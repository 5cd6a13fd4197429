// Package lock keeps a second daemon from starting while one is running.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Uzaaft/heimdall/log"
)

// ErrAlreadyRunning is returned by Acquire when another holder has the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Guard is an exclusive hold on a lock file. Release drops the lock and
// deletes the file.
type Guard struct {
	f    *os.File
	path string
	once sync.Once
	err  error
}

func DefaultPath() string {
	return filepath.Join(os.TempDir(), "heimdall.lock")
}

// Acquire creates or opens path and takes a non-blocking exclusive lock on
// it. It never waits: a held lock yields ErrAlreadyRunning at once.
func Acquire(path string) (*Guard, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := tryLock(f); err != nil {
		f.Close()
		return nil, err
	}
	// A holder that was releasing may have unlinked path between our open
	// and our lock; then we hold a lock nobody else can see.
	if !samePath(f, path) {
		unlock(f)
		f.Close()
		return nil, ErrAlreadyRunning
	}

	// The pid is informational; the flock alone decides who holds the lock.
	if err := recordPID(f); err != nil {
		log.Debugf("lock %s: record pid: %v", path, err)
	}
	return &Guard{f: f, path: path}, nil
}

func recordPID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	return err
}

func samePath(f *os.File, path string) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	named, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, named)
}

func (g *Guard) Path() string {
	if g == nil {
		return ""
	}
	return g.path
}

// Release unlocks and removes the lock file. Safe on a nil receiver and
// idempotent.
func (g *Guard) Release() error {
	if g == nil {
		return nil
	}
	g.once.Do(func() {
		g.err = release(g.f, g.path)
	})
	return g.err
}

// Holder reads the pid recorded in the lock file at path.
func Holder(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("lock file %s: no pid recorded", path)
	}
	return pid, nil
}

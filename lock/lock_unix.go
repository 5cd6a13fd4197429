//go:build unix

package lock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func tryLock(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrAlreadyRunning
	}
	if err != nil {
		return fmt.Errorf("flock %s: %w", f.Name(), err)
	}
	return nil
}

func unlock(f *os.File) {
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// release removes the file before unlocking so a waiting opener can never
// lock a path that is about to vanish unnoticed.
func release(f *os.File, path string) error {
	rmErr := os.Remove(path)
	unlock(f)
	closeErr := f.Close()
	if rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("remove lock file: %w", rmErr)
	}
	return closeErr
}

//go:build !unix && !windows

package lock

import (
	"errors"
	"os"
)

func tryLock(f *os.File) error {
	return errors.New("single-instance locking is not supported on this platform")
}

func unlock(f *os.File) {}

func release(f *os.File, path string) error {
	f.Close()
	return os.Remove(path)
}

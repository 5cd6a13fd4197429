// Package watcher polls a single file and reports when it is created,
// modified or deleted.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
	Error
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "error"
	}
}

// Event is one change to the watched file. Err is set only for Error.
type Event struct {
	Kind Kind
	Path string
	Err  error
}

type snapshot struct {
	modTime time.Time
	size    int64
}

type Option func(*Watcher)

// WithNotify adds an fsnotify watch on the file's directory. Any event
// naming the file triggers an immediate poll; the poll still decides what,
// if anything, is reported.
func WithNotify() Option {
	return func(w *Watcher) { w.notify = true }
}

// Watcher polls one path on a fixed interval. It starts in New, stops for
// good in Stop and cannot be restarted.
type Watcher struct {
	path     string
	interval time.Duration
	notify   bool

	events chan Event
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// New takes the initial snapshot of path and starts polling it every
// interval. If that snapshot fails, the first successful poll becomes the
// baseline and reports nothing.
func New(path string, interval time.Duration, opts ...Option) (*Watcher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("watcher: poll interval must be positive, got %v", interval)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	w := &Watcher{
		path:     abs,
		interval: interval,
		events:   make(chan Event, 16),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	var fw *fsnotify.Watcher
	var notifyErr error
	if w.notify {
		fw, notifyErr = w.startNotify()
	}

	initial, initErr := stat(w.path)
	go w.run(initial, initErr, fw, notifyErr)
	return w, nil
}

// Watch polls path until ctx is done, then closes the returned channel.
func Watch(ctx context.Context, path string, interval time.Duration, opts ...Option) (<-chan Event, error) {
	w, err := New(path, interval, opts...)
	if err != nil {
		return nil, err
	}
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.done:
		}
	}()
	return w.Events(), nil
}

func (w *Watcher) Path() string { return w.path }

// Events is closed once polling has stopped.
func (w *Watcher) Events() <-chan Event { return w.events }

// Stop ends polling and returns after the polling goroutine has exited.
func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Watcher) startNotify() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("fsnotify watch %s: %w", filepath.Dir(w.path), err)
	}
	return fw, nil
}

// stat returns nil for a missing file.
func stat(path string) (*snapshot, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot{modTime: fi.ModTime(), size: fi.Size()}, nil
}

func diff(prev, cur *snapshot) (Kind, bool) {
	switch {
	case prev == nil && cur != nil:
		return Created, true
	case prev != nil && cur == nil:
		return Deleted, true
	case prev != nil && cur != nil:
		if !cur.modTime.Equal(prev.modTime) || cur.size != prev.size {
			return Modified, true
		}
	}
	return 0, false
}

func (w *Watcher) send(ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.stop:
		return false
	}
}

func (w *Watcher) names(name string) bool {
	name = filepath.Clean(name)
	return name == w.path || filepath.Base(name) == filepath.Base(w.path)
}

func (w *Watcher) run(prev *snapshot, initErr error, fw *fsnotify.Watcher, notifyErr error) {
	defer close(w.done)
	defer close(w.events)

	var nudges <-chan fsnotify.Event
	var notifyErrs <-chan error
	if fw != nil {
		defer fw.Close()
		nudges, notifyErrs = fw.Events, fw.Errors
	}
	if notifyErr != nil && !w.send(Event{Kind: Error, Path: w.path, Err: notifyErr}) {
		return
	}

	var lastErr string
	primed := initErr == nil
	if !primed {
		lastErr = initErr.Error()
		if !w.send(Event{Kind: Error, Path: w.path, Err: initErr}) {
			return
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
		case ev, ok := <-nudges:
			if !ok {
				nudges = nil
				continue
			}
			if !w.names(ev.Name) {
				continue
			}
		case err, ok := <-notifyErrs:
			if !ok {
				notifyErrs = nil
				continue
			}
			if !w.send(Event{Kind: Error, Path: w.path, Err: err}) {
				return
			}
			continue
		}

		cur, err := stat(w.path)
		if err != nil {
			// Report a failure once, not on every tick it persists.
			if err.Error() != lastErr {
				lastErr = err.Error()
				if !w.send(Event{Kind: Error, Path: w.path, Err: err}) {
					return
				}
			}
			continue
		}
		lastErr = ""

		if !primed {
			prev, primed = cur, true
			continue
		}
		if kind, changed := diff(prev, cur); changed {
			if !w.send(Event{Kind: kind, Path: w.path}) {
				return
			}
		}
		prev = cur
	}
}

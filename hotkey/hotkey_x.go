//go:build darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

type xKey struct {
	hk   *xhotkey.Hotkey
	done chan struct{}
}

type xManager struct {
	registry
	sink chan<- Event

	mu   sync.Mutex
	keys map[ID]*xKey
}

// New creates a manager backed by golang.design/x/hotkey (Cocoa/Win32).
// On macOS the caller must run under mainthread.Init.
func New(sink chan<- Event) (Manager, error) {
	return &xManager{sink: sink, keys: make(map[ID]*xKey)}, nil
}

func toX(ch Chord) ([]xhotkey.Modifier, xhotkey.Key, error) {
	key, ok := xKeys[ch.Key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownKey, ch.Key)
	}
	var mods []xhotkey.Modifier
	for _, m := range []Modifier{ModCtrl, ModShift, ModAlt, ModSuper} {
		if ch.Mods&m != 0 {
			mods = append(mods, xModifiers[m])
		}
	}
	return mods, key, nil
}

func (m *xManager) Register(code string) (ID, error) {
	ch, err := ParseCode(code)
	if err != nil {
		return 0, err
	}
	mods, key, err := toX(ch)
	if err != nil {
		return 0, err
	}
	id, err := m.add(ch)
	if err != nil {
		return 0, err
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		m.remove(id)
		return 0, fmt.Errorf("register %s: %w", ch, err)
	}

	k := &xKey{hk: hk, done: make(chan struct{})}
	m.mu.Lock()
	m.keys[id] = k
	m.mu.Unlock()

	go func() {
		for {
			select {
			case <-k.done:
				return
			case <-hk.Keydown():
				emit(m.sink, Event{ID: id, State: Pressed}, k.done)
			case <-hk.Keyup():
				emit(m.sink, Event{ID: id, State: Released}, k.done)
			}
		}
	}()
	return id, nil
}

func (m *xManager) Unregister(id ID) error {
	if _, err := m.remove(id); err != nil {
		return err
	}
	m.mu.Lock()
	k := m.keys[id]
	delete(m.keys, id)
	m.mu.Unlock()
	if k == nil {
		return nil
	}
	close(k.done)
	return k.hk.Unregister()
}

func (m *xManager) Close() {
	for _, id := range m.registered() {
		m.Unregister(id)
	}
}

// Diagnose reports the backend in use.
func Diagnose() (string, error) {
	return "golang.design/x/hotkey backend available", nil
}

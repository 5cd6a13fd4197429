// Package hotkey registers global keyboard shortcuts with the OS and delivers
// press/release events for them on a channel supplied by the caller.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrDuplicate       = errors.New("hotkey already registered")
	ErrNotRegistered   = errors.New("hotkey not registered")
	ErrUnknownModifier = errors.New("unknown modifier")
	ErrUnknownKey      = errors.New("unsupported key")
	ErrUnsupported     = errors.New("global hotkeys are not supported on this platform")
)

// ID identifies one registration for as long as it stays registered.
type ID uint32

type State int

const (
	Pressed State = iota
	Released
)

func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is one press or release of a registered hotkey.
type Event struct {
	ID    ID
	State State
}

// Manager is the OS hotkey subsystem. Events for registered hotkeys are sent
// to the channel given to the constructor.
type Manager interface {
	Register(code string) (ID, error)
	Unregister(id ID) error
	Close()
}

type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"win":     ModSuper,
	"meta":    ModSuper,
}

// Chord is a parsed canonical code: a modifier set plus a base code such as
// "KeyC" or "ArrowUp". Two codes naming the same combination parse to equal
// chords regardless of modifier order or alias.
type Chord struct {
	Mods Modifier
	Key  string
}

func (c Chord) String() string {
	var parts []string
	for _, m := range []struct {
		mod  Modifier
		name string
	}{{ModCtrl, "ctrl"}, {ModShift, "shift"}, {ModAlt, "alt"}, {ModSuper, "super"}} {
		if c.Mods&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, c.Key), "+")
}

// ParseCode splits a canonical code ("ctrl+shift+KeyC") into a Chord.
func ParseCode(code string) (Chord, error) {
	i := strings.LastIndex(code, "+")
	// A trailing "+" belongs to the base code ("ctrl+Key+").
	if i == len(code)-1 && i > 0 {
		i = strings.LastIndex(code[:i], "+")
	}
	base := code[i+1:]
	if base == "" {
		return Chord{}, fmt.Errorf("%w: empty key in %q", ErrUnknownKey, code)
	}
	ch := Chord{Key: base}
	if i < 0 {
		return ch, nil
	}
	for _, name := range strings.Split(code[:i], "+") {
		m, ok := modifierNames[strings.ToLower(name)]
		if !ok {
			return Chord{}, fmt.Errorf("%w %q in %q (available: ctrl, shift, alt, super)", ErrUnknownModifier, name, code)
		}
		ch.Mods |= m
	}
	return ch, nil
}

// registry is the id bookkeeping shared by every backend.
type registry struct {
	mu     sync.Mutex
	next   ID
	chords map[ID]Chord
	ids    map[Chord]ID
}

func (r *registry) add(ch Chord) (ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chords == nil {
		r.chords = make(map[ID]Chord)
		r.ids = make(map[Chord]ID)
	}
	if id, ok := r.ids[ch]; ok {
		return 0, fmt.Errorf("%w: %s (id %d)", ErrDuplicate, ch, id)
	}
	r.next++
	r.chords[r.next] = ch
	r.ids[ch] = r.next
	return r.next, nil
}

func (r *registry) remove(id ID) (Chord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.chords[id]
	if !ok {
		return Chord{}, fmt.Errorf("%w: id %d", ErrNotRegistered, id)
	}
	delete(r.chords, id)
	delete(r.ids, ch)
	return ch, nil
}

func (r *registry) lookup(ch Chord) (ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[ch]
	return id, ok
}

func (r *registry) registered() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ID, 0, len(r.chords))
	for id := range r.chords {
		ids = append(ids, id)
	}
	return ids
}

// emit delivers ev unless stop closes first.
func emit(sink chan<- Event, ev Event, stop <-chan struct{}) {
	select {
	case sink <- ev:
	case <-stop:
	}
}

// Package dispatch registers bindings with the hotkey subsystem and runs the
// loop that turns hotkey releases into commands.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Uzaaft/heimdall/binding"
	"github.com/Uzaaft/heimdall/hotkey"
	"github.com/Uzaaft/heimdall/log"
)

var (
	ErrNoBindings   = errors.New("no bindings could be registered")
	ErrEventsClosed = errors.New("hotkey event channel closed")
)

// Table maps registered hotkeys to the command each one runs.
type Table map[hotkey.ID]string

// Spawner starts a command without waiting for it.
type Spawner interface {
	Spawn(command string) error
}

// Register encodes every binding, then registers each code with mgr. A
// binding that fails to encode aborts before anything is registered; one
// that fails to register is logged and skipped.
func Register(bindings []binding.Binding, mgr hotkey.Manager) (Table, error) {
	codes := make([]string, len(bindings))
	for i, b := range bindings {
		code, err := binding.Encode(b)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i+1, b, err)
		}
		codes[i] = code
	}

	table := make(Table, len(bindings))
	for i, code := range codes {
		id, err := mgr.Register(code)
		if err != nil {
			log.RegisterFailed(code, err)
			continue
		}
		table[id] = bindings[i].Command
		log.Registered(uint32(id), code, bindings[i].Command)
	}
	if len(table) == 0 {
		return nil, ErrNoBindings
	}
	return table, nil
}

// Unregister releases every hotkey in t.
func (t Table) Unregister(mgr hotkey.Manager) {
	for id := range t {
		if err := mgr.Unregister(id); err != nil {
			log.Warnf("unregister hotkey %d: %v", id, err)
		}
	}
}

// Loop reacts to hotkey events for one immutable Table.
type Loop struct {
	table   Table
	events  <-chan hotkey.Event
	spawner Spawner

	dispatched atomic.Int64
}

func New(table Table, events <-chan hotkey.Event, spawner Spawner) *Loop {
	return &Loop{table: table, events: events, spawner: spawner}
}

// Run handles events until ctx is done, which returns nil, or the event
// channel is closed, which returns ErrEventsClosed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-l.events:
			if !ok {
				return ErrEventsClosed
			}
			l.handle(ev)
		}
	}
}

func (l *Loop) handle(ev hotkey.Event) {
	// Commands run on release so a held chord fires once.
	if ev.State != hotkey.Released {
		return
	}
	command, ok := l.table[ev.ID]
	if !ok {
		log.Tracef("no binding for hotkey id %d", ev.ID)
		return
	}
	log.Debugf("hotkey %d released, running %q", ev.ID, command)
	if err := l.spawner.Spawn(command); err != nil {
		log.Errorf("hotkey %d: %v", ev.ID, err)
		return
	}
	l.dispatched.Add(1)
}

// Dispatched counts commands started so far.
func (l *Loop) Dispatched() int {
	return int(l.dispatched.Load())
}

// BuildAndRun registers bindings, runs a Loop over the resulting table and
// unregisters them once the loop ends.
func BuildAndRun(ctx context.Context, bindings []binding.Binding, mgr hotkey.Manager, events <-chan hotkey.Event, spawner Spawner) error {
	table, err := Register(bindings, mgr)
	if err != nil {
		return err
	}
	defer table.Unregister(mgr)
	return New(table, events, spawner).Run(ctx)
}

// Package daemon runs heimdall: it holds the instance lock, registers the
// configured hotkeys and dispatches them until shutdown, reloading the
// config when it changes.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/Uzaaft/heimdall/config"
	"github.com/Uzaaft/heimdall/dispatch"
	"github.com/Uzaaft/heimdall/hotkey"
	"github.com/Uzaaft/heimdall/lock"
	"github.com/Uzaaft/heimdall/log"
	"github.com/Uzaaft/heimdall/runner"
	"github.com/Uzaaft/heimdall/watcher"
)

type Options struct {
	LockPath   string
	ConfigPath string
	// Watch reloads the config whenever the file changes.
	Watch   bool
	Version string

	// NewManager opens the hotkey backend. Defaults to hotkey.New.
	NewManager func(events chan<- hotkey.Event) (hotkey.Manager, error)
	// NewSpawner builds the command runner for a shell. Defaults to runner.New.
	NewSpawner func(shell string) dispatch.Spawner

	reloaded func(err error)
}

func (o *Options) defaults() {
	if o.LockPath == "" {
		o.LockPath = lock.DefaultPath()
	}
	if o.NewManager == nil {
		o.NewManager = hotkey.New
	}
	if o.NewSpawner == nil {
		o.NewSpawner = func(shell string) dispatch.Spawner { return runner.New(shell) }
	}
}

// session is the running state between reloads.
type session struct {
	opts    Options
	mgr     hotkey.Manager
	events  chan hotkey.Event
	cfg     *config.Config
	table   dispatch.Table
	spawner dispatch.Spawner

	loop       *dispatch.Loop
	stopLoop   context.CancelFunc
	loopErr    chan error
	dispatched int
}

// Run blocks until ctx is done. The lock is taken before anything else and
// released last; lock.ErrAlreadyRunning and config.ErrConfig pass through.
func Run(ctx context.Context, opts Options) error {
	opts.defaults()

	guard, err := lock.Acquire(opts.LockPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			log.Warnf("release lock %s: %v", guard.Path(), err)
		}
	}()
	log.Debugf("holding lock %s", guard.Path())

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	events := make(chan hotkey.Event, 64)
	mgr, err := opts.NewManager(events)
	if err != nil {
		return fmt.Errorf("hotkey backend: %w", err)
	}
	defer mgr.Close()

	table, err := dispatch.Register(cfg.Bindings, mgr)
	if err != nil {
		return err
	}
	s := &session{
		opts:    opts,
		mgr:     mgr,
		events:  events,
		cfg:     cfg,
		table:   table,
		spawner: opts.NewSpawner(cfg.Shell),
	}
	defer func() { s.table.Unregister(mgr) }()
	log.SessionStart(opts.Version, opts.ConfigPath, len(table))

	var changes <-chan watcher.Event
	if opts.Watch {
		w, err := watcher.New(opts.ConfigPath, cfg.WatchInterval, watcher.WithNotify())
		if err != nil {
			log.Warnf("config watch disabled: %v", err)
		} else {
			defer w.Stop()
			changes = w.Events()
			log.Infof("watching %s every %v", w.Path(), cfg.WatchInterval)
		}
	}

	s.start(ctx)
	for {
		select {
		case <-ctx.Done():
			s.stop()
			log.SessionEnd(s.dispatched)
			return nil
		case err := <-s.loopErr:
			s.stopLoop()
			return err
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if err := s.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (s *session) start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.loop = dispatch.New(s.table, s.events, s.spawner)
	s.stopLoop = cancel
	s.loopErr = make(chan error, 1)
	go func(loop *dispatch.Loop, errc chan<- error) {
		errc <- loop.Run(loopCtx)
	}(s.loop, s.loopErr)
}

func (s *session) stop() {
	s.stopLoop()
	<-s.loopErr
	s.dispatched += s.loop.Dispatched()
}

func (s *session) handle(ctx context.Context, ev watcher.Event) error {
	switch ev.Kind {
	case watcher.Created, watcher.Modified:
		log.Infof("config %s: %s, reloading", ev.Kind, ev.Path)
		err := s.reload(ctx)
		if s.opts.reloaded != nil {
			s.opts.reloaded(err)
		}
		if errors.Is(err, errRestore) {
			return err
		}
		if err != nil {
			log.Errorf("reload: %v (keeping %d active bindings)", err, len(s.table))
		}
	case watcher.Deleted:
		log.Warnf("config %s deleted, keeping %d active bindings", ev.Path, len(s.table))
	case watcher.Error:
		log.Warnf("config watch: %v", ev.Err)
	}
	return nil
}

var errRestore = errors.New("could not restore previous bindings")

// reload replaces the whole table. An invalid new config leaves the running
// table untouched.
func (s *session) reload(ctx context.Context) error {
	cfg, err := config.Load(s.opts.ConfigPath)
	if err != nil {
		return err
	}
	if len(cfg.Bindings) == 0 {
		return fmt.Errorf("%w: no bindings", config.ErrConfig)
	}

	s.stop()
	s.table.Unregister(s.mgr)

	table, err := dispatch.Register(cfg.Bindings, s.mgr)
	if err != nil {
		restored, rerr := dispatch.Register(s.cfg.Bindings, s.mgr)
		if rerr != nil {
			s.table = nil
			return fmt.Errorf("%w: %w", errRestore, rerr)
		}
		s.table = restored
		s.start(ctx)
		return err
	}

	if cfg.Shell != s.cfg.Shell {
		s.spawner = s.opts.NewSpawner(cfg.Shell)
	}
	if cfg.WatchInterval != s.cfg.WatchInterval {
		log.Warnf("watch_interval change to %v applies after restart", cfg.WatchInterval)
	}
	s.cfg = cfg
	s.table = table
	s.start(ctx)
	log.Infof("reloaded %d bindings", len(table))
	return nil
}

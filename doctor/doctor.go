package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Uzaaft/heimdall/binding"
	"github.com/Uzaaft/heimdall/config"
	"github.com/Uzaaft/heimdall/hotkey"
	"github.com/Uzaaft/heimdall/lock"
	"github.com/Uzaaft/heimdall/shutdown"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

type Options struct {
	ConfigPath string
	LockPath   string
	// SelfTest registers one binding and types it with a synthetic keyboard.
	SelfTest bool
	Out      io.Writer
}

type checker struct {
	out   io.Writer
	step  int
	total int
}

func (c *checker) header(title string) {
	c.step++
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, headStyle.Render(fmt.Sprintf("[%d/%d] %s", c.step, c.total, title)))
}

func (c *checker) pass(format string, args ...any) bool {
	fmt.Fprintf(c.out, "  %s %s\n", passStyle.Render("PASS:"), fmt.Sprintf(format, args...))
	return true
}

func (c *checker) fail(format string, args ...any) bool {
	fmt.Fprintf(c.out, "  %s %s\n", failStyle.Render("FAIL:"), fmt.Sprintf(format, args...))
	return false
}

func (c *checker) info(format string, args ...any) {
	fmt.Fprintf(c.out, "  %s\n", infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Run executes diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(opts Options) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.LockPath == "" {
		opts.LockPath = lock.DefaultPath()
	}
	setupInterruptHandler()

	c := &checker{out: opts.Out, total: 3}
	if opts.SelfTest {
		c.total = 4
	}

	fmt.Fprintln(c.out, headStyle.Render("heimdall doctor"))
	fmt.Fprintln(c.out, "===============")

	allPass := true
	cfg, ok := checkConfig(c, opts.ConfigPath)
	allPass = allPass && ok

	guard, ok := checkLock(c, opts.LockPath)
	allPass = allPass && ok
	defer guard.Release()

	backendOK := checkBackend(c)
	allPass = allPass && backendOK

	if opts.SelfTest {
		switch {
		case cfg == nil || guard == nil || !backendOK:
			c.header("Self-test")
			allPass = c.fail("skipped: fix the checks above first")
		default:
			allPass = checkSelfTest(c, cfg) && allPass
		}
	}

	fmt.Fprintln(c.out)
	if allPass {
		fmt.Fprintln(c.out, passStyle.Render("All checks passed!"))
		return 0
	}
	fmt.Fprintln(c.out, failStyle.Render("Some checks failed. See details above."))
	return 1
}

func checkConfig(c *checker, path string) (*config.Config, bool) {
	c.header("Config")
	c.info("path: %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, c.fail("%v", err)
	}
	for _, b := range cfg.Bindings {
		code, _ := binding.Encode(b)
		c.info("%-24s %-28s %s", b, code, b.Command)
	}
	if len(cfg.Bindings) == 0 {
		return cfg, c.fail("no bindings configured")
	}
	return cfg, c.pass("%d binding(s) parsed", len(cfg.Bindings))
}

// checkLock takes the instance lock so no daemon starts mid-check. A nil
// guard means another instance holds it.
func checkLock(c *checker, path string) (*lock.Guard, bool) {
	c.header("Instance lock")
	c.info("path: %s", path)

	guard, err := lock.Acquire(path)
	if errors.Is(err, lock.ErrAlreadyRunning) {
		if pid, perr := lock.Holder(path); perr == nil {
			c.info("heimdall is running as pid %d", pid)
		} else {
			c.info("heimdall is running")
		}
		return nil, c.pass("lock held by the running daemon")
	}
	if err != nil {
		return nil, c.fail("%v", err)
	}
	return guard, c.pass("lock is free")
}

func checkBackend(c *checker) bool {
	c.header("Hotkey backend")
	msg, err := hotkey.Diagnose()
	if err != nil {
		return c.fail("%v", err)
	}
	return c.pass("%s", msg)
}

func checkSelfTest(c *checker, cfg *config.Config) bool {
	c.header("Self-test")

	b, code, ok := selfTestBinding(cfg.Bindings)
	if !ok {
		return c.fail("no binding can be typed synthetically (needs a letter or digit key with ctrl/shift/alt only)")
	}
	c.info("binding: %s (%s)", b, code)

	sc, err := chordKeys(code)
	if err != nil {
		return c.fail("%v", err)
	}
	kb, err := newKeyboard()
	if err != nil {
		return c.fail("virtual keyboard: %v", err)
	}

	events := make(chan hotkey.Event, 4)
	mgr, err := openBackend(events)
	if err != nil {
		return c.fail("open backend: %v", err)
	}
	defer mgr.Close()

	id, err := mgr.Register(code)
	if err != nil {
		return c.fail("register %s: %v", code, err)
	}
	defer mgr.Unregister(id)

	if err := kb.press(sc); err != nil {
		return c.fail("synthesize %s: %v", code, err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.ID == id && ev.State == hotkey.Released {
				return c.pass("%s delivered (command not run)", code)
			}
		case <-deadline:
			return c.fail("timeout waiting for %s", code)
		}
	}
}

// selfTestBinding picks the first binding the virtual keyboard can reproduce.
func selfTestBinding(bindings []binding.Binding) (binding.Binding, string, bool) {
	for _, b := range bindings {
		code, err := binding.Encode(b)
		if err != nil {
			continue
		}
		if _, err := chordKeys(code); err == nil {
			return b, code, true
		}
	}
	return binding.Binding{}, "", false
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}

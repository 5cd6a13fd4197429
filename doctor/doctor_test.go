package doctor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Uzaaft/heimdall/binding"
	"github.com/Uzaaft/heimdall/config"
	"github.com/Uzaaft/heimdall/hotkey"
	"github.com/Uzaaft/heimdall/lock"
)

func key(k string, mods ...string) binding.Binding {
	return binding.Binding{Key: &k, Modifiers: mods, Command: "true"}
}

func TestSelfTestBindingPicksTypeableChord(t *testing.T) {
	up := binding.ArrowUp
	b, code, ok := selfTestBinding([]binding.Binding{
		{Arrow: &up, Command: "true"},
		key("q", "Super"),
		key("enter", "Ctrl"),
		key("7", "Ctrl", "Alt"),
		key("k"),
	})
	if !ok {
		t.Fatal("no binding picked")
	}
	if code != "ctrl+alt+Digit7" || *b.Key != "7" {
		t.Errorf("picked %s (%s)", b, code)
	}

	if _, _, ok := selfTestBinding([]binding.Binding{key("q", "Super")}); ok {
		t.Error("super chord picked")
	}
}

func TestChordKeys(t *testing.T) {
	sc, err := chordKeys("ctrl+shift+KeyC")
	if err != nil {
		t.Fatal(err)
	}
	if !sc.ctrl || !sc.shift || sc.alt {
		t.Errorf("modifiers = %+v", sc)
	}
	if _, err := chordKeys("ArrowLeft"); !errors.Is(err, errNotSynthesizable) {
		t.Errorf("arrow: got %v", err)
	}
}

func TestRunReportsConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	doc := "[[bindings]]\nkey = \"c\"\nmodifiers = [\"Ctrl\", \"Shift\"]\ncommand = \"echo hi\"\n"
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	lockPath := filepath.Join(dir, "heimdall.lock")

	var out bytes.Buffer
	Run(Options{ConfigPath: cfgPath, LockPath: lockPath, Out: &out})

	for _, want := range []string{"[1/3] Config", "ctrl+shift+KeyC", "1 binding(s) parsed", "lock is free", "[3/3] Hotkey backend"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("doctor left the lock file behind: %v", err)
	}
}

func TestRunFailsOnBadConfig(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	code := Run(Options{
		ConfigPath: filepath.Join(dir, "missing.toml"),
		LockPath:   filepath.Join(dir, "heimdall.lock"),
		SelfTest:   true,
		Out:        &out,
	})
	if code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Errorf("self-test not skipped:\n%s", out.String())
	}
}

func TestRunWithDaemonRunning(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "heimdall.lock")
	g, err := lock.Acquire(lockPath)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Release()

	var out bytes.Buffer
	Run(Options{ConfigPath: filepath.Join(dir, "missing.toml"), LockPath: lockPath, Out: &out})
	if !strings.Contains(out.String(), "running as pid") {
		t.Errorf("holder pid not reported:\n%s", out.String())
	}
}

type pressFunc func(sc synthChord) error

func (f pressFunc) press(sc synthChord) error { return f(sc) }

func TestSelfTestOpensKeyboardBeforeBackend(t *testing.T) {
	oldKeyboard, oldBackend := newKeyboard, openBackend
	t.Cleanup(func() { newKeyboard, openBackend = oldKeyboard, oldBackend })

	var order []string
	var fake *hotkey.FakeManager
	newKeyboard = func() (keyboard, error) {
		order = append(order, "keyboard")
		return pressFunc(func(sc synthChord) error {
			if !sc.ctrl || !sc.shift {
				t.Errorf("typed %+v, want ctrl+shift", sc)
			}
			id, ok := fake.ID("ctrl+shift+KeyC")
			if !ok {
				return errors.New("chord not registered before typing")
			}
			fake.SimKeydown(id)
			fake.SimKeyup(id)
			return nil
		}), nil
	}
	openBackend = func(ev chan<- hotkey.Event) (hotkey.Manager, error) {
		order = append(order, "backend")
		fake = hotkey.NewFake(ev)
		return fake, nil
	}

	cfg, err := config.Parse("[[bindings]]\nkey = \"c\"\nmodifiers = [\"Ctrl\", \"Shift\"]\ncommand = \"echo hi\"\n")
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if !checkSelfTest(&checker{out: &out, total: 1}, cfg) {
		t.Fatalf("self-test failed:\n%s", out.String())
	}
	if len(order) != 2 || order[0] != "keyboard" || order[1] != "backend" {
		t.Errorf("open order %v, want keyboard before backend", order)
	}
	if fake.Active() != 0 {
		t.Errorf("%d hotkeys left registered", fake.Active())
	}
}

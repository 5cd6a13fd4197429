package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func readDiag(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("HEIMDALL_LOG_PATH", "/tmp/heimdall-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/heimdall-env-log" {
		t.Errorf("got %q, want /tmp/heimdall-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("HEIMDALL_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("expected non-empty default directory")
	}
}

func TestLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"bogus":   zerolog.InfoLevel,
		" error ": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		t.Setenv("HEIMDALL_LOG", in)
		if got := Level(); got != want {
			t.Errorf("Level() with HEIMDALL_LOG=%q = %v, want %v", in, got, want)
		}
	}
}

func TestInitCreatesFile(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(tmp, fileName)); err != nil {
		t.Errorf("%s not created: %v", fileName, err)
	}
}

func TestStructuredEvents(t *testing.T) {
	tmp := setupLogDir(t)
	t.Setenv("HEIMDALL_LOG", "info")

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	Registered(3, "ctrl+shift+KeyC", "echo hi")
	RegisterFailed("ctrl+KeyD", errors.New("already claimed"))
	CommandExit("false", 1234, 1, 15*time.Millisecond)
	Close()

	out := readDiag(t, tmp)
	for _, want := range []string{"hotkey_registered", "ctrl+shift+KeyC", "hotkey_register_failed", "already claimed", "command_exit", "exit_code=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q, got:\n%s", want, out)
		}
	}
}

func TestLevelFiltersTrace(t *testing.T) {
	tmp := setupLogDir(t)
	t.Setenv("HEIMDALL_LOG", "info")

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Trace("stale id 42")
	Info("visible")
	Close()

	out := readDiag(t, tmp)
	if strings.Contains(out, "stale id 42") {
		t.Errorf("trace line written at info level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestNoopBeforeInit(t *testing.T) {
	Close()
	Info("dropped")
	Errorf("dropped %d", 1)
	CommandExit("true", 1, 0, time.Millisecond)
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}

// Child exits are logged from runner goroutines that can outlive the daemon.
func TestCloseDuringCommandExit(t *testing.T) {
	setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 500; i++ {
				CommandExit("sleep 60", 4321, 0, time.Millisecond)
				Infof("line %d", i)
			}
		}()
	}
	close(start)
	Close()
	wg.Wait()

	CommandExit("after close", 1, 0, time.Millisecond)
}

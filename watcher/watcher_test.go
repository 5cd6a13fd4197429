package watcher

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

const tick = 20 * time.Millisecond

// writeAtomic replaces path in one step so a poll never sees a half-written file.
func writeAtomic(t *testing.T, path, content string) {
	t.Helper()
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func next(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("events channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func quiet(t *testing.T, events <-chan Event) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v %v", ev.Kind, ev.Err)
	case <-time.After(6 * tick):
	}
}

func TestLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w, err := New(path, tick)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	quiet(t, w.Events())

	writeAtomic(t, path, "a")
	if ev := next(t, w.Events()); ev.Kind != Created || ev.Path != w.Path() {
		t.Fatalf("got %v %s, want created", ev.Kind, ev.Path)
	}
	quiet(t, w.Events())

	writeAtomic(t, path, "abc")
	if ev := next(t, w.Events()); ev.Kind != Modified {
		t.Fatalf("got %v, want modified", ev.Kind)
	}
	quiet(t, w.Events())

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if ev := next(t, w.Events()); ev.Kind != Deleted {
		t.Fatalf("got %v, want deleted", ev.Kind)
	}
	quiet(t, w.Events())
}

func TestExistingFileIsNotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeAtomic(t, path, "x")

	w, err := New(path, tick)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	quiet(t, w.Events())
}

func TestStatErrorReportedOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("a path under a regular file reads as missing on windows")
	}
	file := filepath.Join(t.TempDir(), "plain")
	writeAtomic(t, file, "x")

	w, err := New(filepath.Join(file, "config.toml"), tick)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ev := next(t, w.Events())
	if ev.Kind != Error || ev.Err == nil {
		t.Fatalf("got %v %v, want error", ev.Kind, ev.Err)
	}
	quiet(t, w.Events())
}

func TestUnreadableAtStartIsNotCreated(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs unix permissions enforced")
	}
	dir := filepath.Join(t.TempDir(), "conf")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.toml")
	writeAtomic(t, path, "x")

	if err := os.Chmod(dir, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	w, err := New(path, tick)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if ev := next(t, w.Events()); ev.Kind != Error || ev.Err == nil {
		t.Fatalf("got %v %v, want error", ev.Kind, ev.Err)
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	quiet(t, w.Events())

	writeAtomic(t, path, "xyz")
	if ev := next(t, w.Events()); ev.Kind != Modified {
		t.Fatalf("got %v, want modified", ev.Kind)
	}
}

func TestStopClosesEvents(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x"), tick)
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatal("received event after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel not closed after Stop")
	}
}

func TestStopWithUnreadEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	w, err := New(path, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	// Churn the file without reading so the buffer fills up.
	for i := 0; i < 40; i++ {
		writeAtomic(t, path, string(make([]byte, i+1)))
		time.Sleep(2 * time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a full events channel")
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events, err := Watch(ctx, filepath.Join(t.TempDir(), "x"), tick)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestNotifyTriggersPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w, err := New(path, time.Hour, WithNotify())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeAtomic(t, path, "a")
	if ev := next(t, w.Events()); ev.Kind != Created {
		t.Fatalf("got %v %v, want created", ev.Kind, ev.Err)
	}
}

func TestRejectsBadInterval(t *testing.T) {
	if _, err := New("x", 0); err == nil {
		t.Error("zero interval accepted")
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{Created: "created", Modified: "modified", Deleted: "deleted", Error: "error"} {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}

package hotkey

import "sync"

// FakeManager is an in-memory Manager for tests and headless runs.
type FakeManager struct {
	registry
	sink chan<- Event
	stop chan struct{}
	once sync.Once

	callMu sync.Mutex
	calls  []string
	fail   map[string]error
}

func NewFake(sink chan<- Event) *FakeManager {
	return &FakeManager{
		sink: sink,
		stop: make(chan struct{}),
		fail: make(map[string]error),
	}
}

// FailOn makes every Register(code) call return err.
func (f *FakeManager) FailOn(code string, err error) {
	f.callMu.Lock()
	defer f.callMu.Unlock()
	f.fail[code] = err
}

func (f *FakeManager) Register(code string) (ID, error) {
	f.callMu.Lock()
	f.calls = append(f.calls, code)
	err := f.fail[code]
	f.callMu.Unlock()
	if err != nil {
		return 0, err
	}
	ch, err := ParseCode(code)
	if err != nil {
		return 0, err
	}
	return f.add(ch)
}

func (f *FakeManager) Unregister(id ID) error {
	_, err := f.remove(id)
	return err
}

func (f *FakeManager) Close() {
	f.once.Do(func() { close(f.stop) })
}

// Calls returns every code passed to Register, failed ones included.
func (f *FakeManager) Calls() []string {
	f.callMu.Lock()
	defer f.callMu.Unlock()
	return append([]string(nil), f.calls...)
}

// ID returns the id code is registered under.
func (f *FakeManager) ID(code string) (ID, bool) {
	ch, err := ParseCode(code)
	if err != nil {
		return 0, false
	}
	return f.lookup(ch)
}

// Active returns the number of live registrations.
func (f *FakeManager) Active() int {
	return len(f.registered())
}

func (f *FakeManager) SimKeydown(id ID) { emit(f.sink, Event{ID: id, State: Pressed}, f.stop) }
func (f *FakeManager) SimKeyup(id ID)   { emit(f.sink, Event{ID: id, State: Released}, f.stop) }

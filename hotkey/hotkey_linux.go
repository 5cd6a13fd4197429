//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const evKey = 1

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

type evdevManager struct {
	registry
	sink  chan<- Event
	files []*os.File
	stop  chan struct{}
	once  sync.Once
}

// New opens every keyboard under /dev/input and delivers events for
// registered chords to sink. Requires the user to be in the 'input' group.
func New(sink chan<- Event) (Manager, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return nil, fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return nil, fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	m := &evdevManager{sink: sink, stop: make(chan struct{})}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		m.files = append(m.files, f)
		go m.readEvents(f)
	}

	if len(m.files) == 0 {
		return nil, fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	return m, nil
}

func (m *evdevManager) Register(code string) (ID, error) {
	ch, err := ParseCode(code)
	if err != nil {
		return 0, err
	}
	if _, ok := evdevKeys[ch.Key]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownKey, ch.Key)
	}
	return m.add(ch)
}

func (m *evdevManager) Unregister(id ID) error {
	_, err := m.remove(id)
	return err
}

func (m *evdevManager) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	matcher := newChordMatcher()

	for {
		select {
		case <-m.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}
			if ev, ok := matcher.feed(evCode, evValue, m.lookup); ok {
				emit(m.sink, ev, m.stop)
			}
		}
	}
}

func (m *evdevManager) Close() {
	m.once.Do(func() {
		close(m.stop)
		for _, f := range m.files {
			f.Close()
		}
	})
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("evdev: %d keyboard(s) found, opened %s", len(keyboards), opened), nil
}

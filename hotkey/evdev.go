package hotkey

// Linux input event key codes (KEY_* in linux/input-event-codes.h).
var evdevKeys = map[string]uint16{
	"KeyA": 30, "KeyB": 48, "KeyC": 46, "KeyD": 32, "KeyE": 18, "KeyF": 33,
	"KeyG": 34, "KeyH": 35, "KeyI": 23, "KeyJ": 36, "KeyK": 37, "KeyL": 38,
	"KeyM": 50, "KeyN": 49, "KeyO": 24, "KeyP": 25, "KeyQ": 16, "KeyR": 19,
	"KeyS": 31, "KeyT": 20, "KeyU": 22, "KeyV": 47, "KeyW": 17, "KeyX": 45,
	"KeyY": 21, "KeyZ": 44,

	"Digit1": 2, "Digit2": 3, "Digit3": 4, "Digit4": 5, "Digit5": 6,
	"Digit6": 7, "Digit7": 8, "Digit8": 9, "Digit9": 10, "Digit0": 11,

	"Enter": 28, "Escape": 1, "Space": 57, "Equal": 13, "Tab": 15,
	"Backspace": 14, "Delete": 111,

	"ArrowUp": 103, "ArrowDown": 108, "ArrowLeft": 105, "ArrowRight": 106,

	"Key-": 12, "Key[": 26, "Key]": 27, "Key;": 39, "Key'": 40, "Key`": 41,
	"Key\\": 43, "Key,": 51, "Key.": 52, "Key/": 53,

	"KeyF1": 59, "KeyF2": 60, "KeyF3": 61, "KeyF4": 62, "KeyF5": 63, "KeyF6": 64,
	"KeyF7": 65, "KeyF8": 66, "KeyF9": 67, "KeyF10": 68, "KeyF11": 87, "KeyF12": 88,
}

var evdevModifiers = map[uint16]Modifier{
	29: ModCtrl, 97: ModCtrl, // KEY_LEFTCTRL, KEY_RIGHTCTRL
	42: ModShift, 54: ModShift, // KEY_LEFTSHIFT, KEY_RIGHTSHIFT
	56: ModAlt, 100: ModAlt, // KEY_LEFTALT, KEY_RIGHTALT
	125: ModSuper, 126: ModSuper, // KEY_LEFTMETA, KEY_RIGHTMETA
}

var evdevNames = func() map[uint16]string {
	m := make(map[uint16]string, len(evdevKeys))
	for name, code := range evdevKeys {
		m[code] = name
	}
	return m
}()

const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// chordMatcher turns one keyboard's raw key events into hotkey events. A
// chord fires Pressed on the key-down of its base key while exactly its
// modifiers are held, and Released on that key's key-up, whatever the
// modifiers are doing by then.
type chordMatcher struct {
	held   map[uint16]bool
	active map[uint16]ID
}

func newChordMatcher() *chordMatcher {
	return &chordMatcher{
		held:   make(map[uint16]bool),
		active: make(map[uint16]ID),
	}
}

func (c *chordMatcher) mods() Modifier {
	var m Modifier
	for code, down := range c.held {
		if down {
			m |= evdevModifiers[code]
		}
	}
	return m
}

func (c *chordMatcher) feed(code uint16, value int32, lookup func(Chord) (ID, bool)) (Event, bool) {
	if _, ok := evdevModifiers[code]; ok {
		c.held[code] = value != keyRelease
		return Event{}, false
	}
	name, ok := evdevNames[code]
	if !ok {
		return Event{}, false
	}
	switch value {
	case keyPress:
		if _, down := c.active[code]; down {
			return Event{}, false
		}
		id, ok := lookup(Chord{Mods: c.mods(), Key: name})
		if !ok {
			return Event{}, false
		}
		c.active[code] = id
		return Event{ID: id, State: Pressed}, true
	case keyRelease:
		id, ok := c.active[code]
		if !ok {
			return Event{}, false
		}
		delete(c.active, code)
		return Event{ID: id, State: Released}, true
	}
	// keyRepeat
	return Event{}, false
}

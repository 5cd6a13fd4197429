//go:build darwin || windows

package hotkey

import xhotkey "golang.design/x/hotkey"

var xKeys = map[string]xhotkey.Key{
	"KeyA": xhotkey.KeyA, "KeyB": xhotkey.KeyB, "KeyC": xhotkey.KeyC, "KeyD": xhotkey.KeyD,
	"KeyE": xhotkey.KeyE, "KeyF": xhotkey.KeyF, "KeyG": xhotkey.KeyG, "KeyH": xhotkey.KeyH,
	"KeyI": xhotkey.KeyI, "KeyJ": xhotkey.KeyJ, "KeyK": xhotkey.KeyK, "KeyL": xhotkey.KeyL,
	"KeyM": xhotkey.KeyM, "KeyN": xhotkey.KeyN, "KeyO": xhotkey.KeyO, "KeyP": xhotkey.KeyP,
	"KeyQ": xhotkey.KeyQ, "KeyR": xhotkey.KeyR, "KeyS": xhotkey.KeyS, "KeyT": xhotkey.KeyT,
	"KeyU": xhotkey.KeyU, "KeyV": xhotkey.KeyV, "KeyW": xhotkey.KeyW, "KeyX": xhotkey.KeyX,
	"KeyY": xhotkey.KeyY, "KeyZ": xhotkey.KeyZ,

	"Digit0": xhotkey.Key0, "Digit1": xhotkey.Key1, "Digit2": xhotkey.Key2, "Digit3": xhotkey.Key3,
	"Digit4": xhotkey.Key4, "Digit5": xhotkey.Key5, "Digit6": xhotkey.Key6, "Digit7": xhotkey.Key7,
	"Digit8": xhotkey.Key8, "Digit9": xhotkey.Key9,

	"Enter": xhotkey.KeyReturn, "Escape": xhotkey.KeyEscape, "Space": xhotkey.KeySpace,
	"Tab": xhotkey.KeyTab,

	"ArrowUp": xhotkey.KeyUp, "ArrowDown": xhotkey.KeyDown,
	"ArrowLeft": xhotkey.KeyLeft, "ArrowRight": xhotkey.KeyRight,

	"KeyF1": xhotkey.KeyF1, "KeyF2": xhotkey.KeyF2, "KeyF3": xhotkey.KeyF3, "KeyF4": xhotkey.KeyF4,
	"KeyF5": xhotkey.KeyF5, "KeyF6": xhotkey.KeyF6, "KeyF7": xhotkey.KeyF7, "KeyF8": xhotkey.KeyF8,
	"KeyF9": xhotkey.KeyF9, "KeyF10": xhotkey.KeyF10, "KeyF11": xhotkey.KeyF11, "KeyF12": xhotkey.KeyF12,
}

func init() {
	for name, k := range xPlatformKeys {
		xKeys[name] = k
	}
}

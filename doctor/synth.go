package doctor

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/micmonay/keybd_event"

	"github.com/Uzaaft/heimdall/hotkey"
)

var errNotSynthesizable = errors.New("chord cannot be synthesized")

var vkKeys = map[string]int{
	"KeyA": keybd_event.VK_A, "KeyB": keybd_event.VK_B, "KeyC": keybd_event.VK_C,
	"KeyD": keybd_event.VK_D, "KeyE": keybd_event.VK_E, "KeyF": keybd_event.VK_F,
	"KeyG": keybd_event.VK_G, "KeyH": keybd_event.VK_H, "KeyI": keybd_event.VK_I,
	"KeyJ": keybd_event.VK_J, "KeyK": keybd_event.VK_K, "KeyL": keybd_event.VK_L,
	"KeyM": keybd_event.VK_M, "KeyN": keybd_event.VK_N, "KeyO": keybd_event.VK_O,
	"KeyP": keybd_event.VK_P, "KeyQ": keybd_event.VK_Q, "KeyR": keybd_event.VK_R,
	"KeyS": keybd_event.VK_S, "KeyT": keybd_event.VK_T, "KeyU": keybd_event.VK_U,
	"KeyV": keybd_event.VK_V, "KeyW": keybd_event.VK_W, "KeyX": keybd_event.VK_X,
	"KeyY": keybd_event.VK_Y, "KeyZ": keybd_event.VK_Z,

	"Digit0": keybd_event.VK_0, "Digit1": keybd_event.VK_1, "Digit2": keybd_event.VK_2,
	"Digit3": keybd_event.VK_3, "Digit4": keybd_event.VK_4, "Digit5": keybd_event.VK_5,
	"Digit6": keybd_event.VK_6, "Digit7": keybd_event.VK_7, "Digit8": keybd_event.VK_8,
	"Digit9": keybd_event.VK_9,
}

type synthChord struct {
	vk               int
	ctrl, shift, alt bool
}

func chordKeys(code string) (synthChord, error) {
	ch, err := hotkey.ParseCode(code)
	if err != nil {
		return synthChord{}, err
	}
	vk, ok := vkKeys[ch.Key]
	if !ok || ch.Mods&hotkey.ModSuper != 0 {
		return synthChord{}, fmt.Errorf("%w: %s", errNotSynthesizable, code)
	}
	return synthChord{
		vk:    vk,
		ctrl:  ch.Mods&hotkey.ModCtrl != 0,
		shift: ch.Mods&hotkey.ModShift != 0,
		alt:   ch.Mods&hotkey.ModAlt != 0,
	}, nil
}

// keyboard types chords. The Linux evdev backend only reads devices that
// exist when it opens, so a keyboard must be created before the backend.
type keyboard interface {
	press(sc synthChord) error
}

type virtualKeyboard struct {
	kb keybd_event.KeyBonding
}

// newVirtualKeyboard creates the uinput/CGEvent/SendInput keyboard.
func newVirtualKeyboard() (keyboard, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, err
	}
	// The uinput device needs a moment before it shows up under /dev/input.
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}
	return &virtualKeyboard{kb: kb}, nil
}

func (v *virtualKeyboard) press(sc synthChord) error {
	v.kb.SetKeys(sc.vk)
	v.kb.HasCTRL(sc.ctrl)
	v.kb.HasSHIFT(sc.shift)
	v.kb.HasALT(sc.alt)
	return v.kb.Launching()
}

var (
	newKeyboard = newVirtualKeyboard
	openBackend = hotkey.New
)

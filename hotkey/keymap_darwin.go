//go:build darwin

package hotkey

import xhotkey "golang.design/x/hotkey"

var xModifiers = map[Modifier]xhotkey.Modifier{
	ModCtrl:  xhotkey.ModCtrl,
	ModShift: xhotkey.ModShift,
	ModAlt:   xhotkey.ModOption,
	ModSuper: xhotkey.ModCmd,
}

// Carbon kVK_* virtual key codes. KeyDelete in x/hotkey is the key labelled
// "delete" on Mac keyboards, which is Backspace elsewhere.
var xPlatformKeys = map[string]xhotkey.Key{
	"Backspace": xhotkey.KeyDelete,
	"Delete":    xhotkey.Key(0x75),
	"Equal":     xhotkey.Key(0x18),
	"Key-":      xhotkey.Key(0x1B),
	"Key[":      xhotkey.Key(0x21),
	"Key]":      xhotkey.Key(0x1E),
	"Key;":      xhotkey.Key(0x29),
	"Key'":      xhotkey.Key(0x27),
	"Key`":      xhotkey.Key(0x32),
	"Key\\":     xhotkey.Key(0x2A),
	"Key,":      xhotkey.Key(0x2B),
	"Key.":      xhotkey.Key(0x2F),
	"Key/":      xhotkey.Key(0x2C),
}

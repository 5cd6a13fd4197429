//go:build windows

package hotkey

import xhotkey "golang.design/x/hotkey"

var xModifiers = map[Modifier]xhotkey.Modifier{
	ModCtrl:  xhotkey.ModCtrl,
	ModShift: xhotkey.ModShift,
	ModAlt:   xhotkey.ModAlt,
	ModSuper: xhotkey.ModWin,
}

// Win32 VK_* codes for keys x/hotkey has no constant for.
var xPlatformKeys = map[string]xhotkey.Key{
	"Backspace": xhotkey.Key(0x08),
	"Delete":    xhotkey.KeyDelete,
	"Equal":     xhotkey.Key(0xBB),
	"Key-":      xhotkey.Key(0xBD),
	"Key[":      xhotkey.Key(0xDB),
	"Key]":      xhotkey.Key(0xDD),
	"Key;":      xhotkey.Key(0xBA),
	"Key'":      xhotkey.Key(0xDE),
	"Key`":      xhotkey.Key(0xC0),
	"Key\\":     xhotkey.Key(0xDC),
	"Key,":      xhotkey.Key(0xBC),
	"Key.":      xhotkey.Key(0xBE),
	"Key/":      xhotkey.Key(0xBF),
}

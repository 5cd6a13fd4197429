// Package binding turns configured shortcuts into canonical hotkey codes.
//
// A canonical code is the lowercase modifiers joined with "+" followed by a
// base code, for example "ctrl+shift+KeyC", "Digit5" or "shift+ArrowLeft".
package binding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidBinding is returned for bindings that cannot be encoded.
var ErrInvalidBinding = errors.New("invalid binding")

// Arrow names one of the four arrow keys.
type Arrow string

const (
	ArrowUp    Arrow = "Up"
	ArrowDown  Arrow = "Down"
	ArrowLeft  Arrow = "Left"
	ArrowRight Arrow = "Right"
)

// ParseArrow accepts the arrow name in any letter case.
func ParseArrow(s string) (Arrow, error) {
	for _, a := range []Arrow{ArrowUp, ArrowDown, ArrowLeft, ArrowRight} {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("invalid arrow %q (use Up, Down, Left or Right)", s)
}

// UnmarshalText lets config decoders reject unknown arrow names.
func (a *Arrow) UnmarshalText(text []byte) error {
	parsed, err := ParseArrow(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Binding is one configured shortcut. Exactly one of Key and Arrow is set.
type Binding struct {
	Key       *string  `toml:"key"`
	Arrow     *Arrow   `toml:"arrow"`
	Modifiers []string `toml:"modifiers"`
	Command   string   `toml:"command"`
}

// String renders a label for logs, e.g. "Ctrl+Shift+c" or "Super+Left".
func (b Binding) String() string {
	parts := append([]string(nil), b.Modifiers...)
	switch {
	case b.Key != nil:
		parts = append(parts, *b.Key)
	case b.Arrow != nil:
		parts = append(parts, string(*b.Arrow))
	default:
		parts = append(parts, "<none>")
	}
	return strings.Join(parts, "+")
}

// namedKeys maps lowercase key names to their base codes.
var namedKeys = map[string]string{
	"enter":     "Enter",
	"esc":       "Escape",
	"escape":    "Escape",
	"space":     "Space",
	"=":         "Equal",
	"equal":     "Equal",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
}

// Encode derives the canonical code for b.
//
// Key resolution order is fixed: a non-negative integer becomes DigitN, then
// the named-key table is consulted, and anything else falls back to
// Key<UPPER>. An arrow is used only when no key is set.
func Encode(b Binding) (string, error) {
	base, err := baseCode(b)
	if err != nil {
		return "", err
	}
	if len(b.Modifiers) == 0 {
		return base, nil
	}
	mods := make([]string, len(b.Modifiers))
	for i, m := range b.Modifiers {
		mods[i] = strings.ToLower(m)
	}
	return strings.Join(mods, "+") + "+" + base, nil
}

func baseCode(b Binding) (string, error) {
	switch {
	case b.Key != nil && b.Arrow != nil:
		return "", fmt.Errorf("%w: both key %q and arrow %q set", ErrInvalidBinding, *b.Key, *b.Arrow)
	case b.Key != nil:
		return keyCode(*b.Key)
	case b.Arrow != nil:
		if _, err := ParseArrow(string(*b.Arrow)); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidBinding, err)
		}
		return "Arrow" + string(*b.Arrow), nil
	default:
		return "", fmt.Errorf("%w: must have either key or arrow", ErrInvalidBinding)
	}
}

func keyCode(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidBinding)
	}
	if n, err := strconv.ParseUint(key, 10, 64); err == nil {
		return "Digit" + strconv.FormatUint(n, 10), nil
	}
	if named, ok := namedKeys[strings.ToLower(key)]; ok {
		return named, nil
	}
	return "Key" + strings.ToUpper(key), nil
}

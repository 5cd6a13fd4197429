package binding

import (
	"errors"
	"testing"
)

func key(s string) *string { return &s }

func arrow(a Arrow) *Arrow { return &a }

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		b    Binding
		want string
	}{
		{"letter with modifiers", Binding{Key: key("c"), Modifiers: []string{"Ctrl", "Shift"}}, "ctrl+shift+KeyC"},
		{"digit", Binding{Key: key("5")}, "Digit5"},
		{"named key with modifier", Binding{Key: key("enter"), Modifiers: []string{"Ctrl"}}, "ctrl+Enter"},
		{"equal symbol", Binding{Key: key("=")}, "Equal"},
		{"arrow", Binding{Arrow: arrow(ArrowUp)}, "ArrowUp"},
		{"arrow with modifier", Binding{Arrow: arrow(ArrowLeft), Modifiers: []string{"Shift"}}, "shift+ArrowLeft"},
		{"named key any case", Binding{Key: key("Enter")}, "Enter"},
		{"esc alias", Binding{Key: key("ESC")}, "Escape"},
		{"escape", Binding{Key: key("escape"), Modifiers: []string{"Alt"}}, "alt+Escape"},
		{"space", Binding{Key: key("Space")}, "Space"},
		{"equal word", Binding{Key: key("equal")}, "Equal"},
		{"tab", Binding{Key: key("tab")}, "Tab"},
		{"backspace", Binding{Key: key("backspace")}, "Backspace"},
		{"delete", Binding{Key: key("Delete"), Modifiers: []string{"Super"}}, "super+Delete"},
		{"uppercase letter", Binding{Key: key("Q")}, "KeyQ"},
		{"multi digit", Binding{Key: key("10")}, "Digit10"},
		{"empty modifiers slice", Binding{Key: key("x"), Modifiers: []string{}}, "KeyX"},
		{"modifier order kept", Binding{Key: key("a"), Modifiers: []string{"Shift", "Ctrl"}}, "shift+ctrl+KeyA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.b)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeDigitBeatsLetterFallback(t *testing.T) {
	for _, k := range []string{"0", "1", "5", "9", "42"} {
		got, err := Encode(Binding{Key: key(k), Modifiers: []string{"Ctrl"}})
		if err != nil {
			t.Fatal(err)
		}
		if got != "ctrl+Digit"+k {
			t.Errorf("key %q encoded as %q, want ctrl+Digit%s", k, got, k)
		}
	}
}

func TestEncodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		b    Binding
	}{
		{"neither key nor arrow", Binding{Command: "echo hi"}},
		{"neither with modifiers", Binding{Modifiers: []string{"Ctrl"}, Command: "echo hi"}},
		{"both key and arrow", Binding{Key: key("a"), Arrow: arrow(ArrowDown)}},
		{"empty key", Binding{Key: key("")}},
		{"bogus arrow", Binding{Arrow: arrow(Arrow("Sideways"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Encode(tt.b)
			if !errors.Is(err, ErrInvalidBinding) {
				t.Fatalf("Encode() = %q, %v; want ErrInvalidBinding", code, err)
			}
		})
	}
}

func TestParseArrow(t *testing.T) {
	for in, want := range map[string]Arrow{"up": ArrowUp, "DOWN": ArrowDown, "Left": ArrowLeft, "right": ArrowRight} {
		got, err := ParseArrow(in)
		if err != nil || got != want {
			t.Errorf("ParseArrow(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseArrow("north"); err == nil {
		t.Error("ParseArrow(north) succeeded, want error")
	}
}

func TestString(t *testing.T) {
	b := Binding{Key: key("c"), Modifiers: []string{"Ctrl", "Shift"}}
	if got := b.String(); got != "Ctrl+Shift+c" {
		t.Errorf("String() = %q", got)
	}
	if got := (Binding{Arrow: arrow(ArrowRight)}).String(); got != "Right" {
		t.Errorf("String() = %q", got)
	}
	if got := (Binding{}).String(); got != "<none>" {
		t.Errorf("String() = %q", got)
	}
}

package retrocon

import (
	"fmt"
	"strings"

	"github.com/ryanlewis/retrocon/internal/codepage"
)

// Key is a console key code. Codes 1-27 are the special keys below;
// every other code is the codepage symbol of a typed character.
type Key int

// Special keys.
const (
	KeyCursorUp Key = iota + 1
	KeyCursorDown
	KeyCursorLeft
	KeyCursorRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyBackspace
	KeyTab
	KeyEnter
	KeyPageDown
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyToggleFullscreen
	KeyClear // keypad 5 without num lock
	KeyEscape
	KeySpace  Key = 32
	KeyDelete Key = 127
)

var keyNames = [...]string{
	"CURSOR_UP", "CURSOR_DOWN", "CURSOR_LEFT", "CURSOR_RIGHT", "HOME",
	"END", "PAGE_UP", "BACKSPACE", "TAB", "ENTER", "PAGE_DOWN", "INSERT",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"TOGGLE_FULLSCREEN", "CLEAR", "ESCAPE",
}

// KeyName returns the name of a special key, or "" for character keys.
func KeyName(k Key) string {
	switch {
	case k >= KeyCursorUp && k <= KeyEscape:
		return keyNames[k-1]
	case k == KeySpace:
		return "SPACE"
	case k == KeyDelete:
		return "DELETE"
	}
	return ""
}

// String returns the key name, or the character for symbol keys.
func (k Key) String() string {
	if name := KeyName(k); name != "" {
		return name
	}
	if k > 0 && k < 256 {
		return string(codepage.CP850().Rune(byte(k)))
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Printable reports whether k types a symbol rather than controlling input.
func (k Key) Printable() bool {
	return k >= KeySpace && k < 256 && k != KeyDelete
}

// ParseKey converts a key name such as "enter" or "F5" to a Key. Any other
// non-empty string yields the codepage symbol of its first character.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return 0, fmt.Errorf("empty key name")
	}
	upper := strings.ToUpper(s)
	for i, name := range keyNames {
		if upper == name {
			return Key(i + 1), nil
		}
	}
	switch upper {
	case "SPACE":
		return KeySpace, nil
	case "DELETE":
		return KeyDelete, nil
	}
	r := []rune(s)[0]
	return Key(codepage.CP850().Symbol(r)), nil
}

// KeyForRune maps a typed character to its key through the codepage.
// Characters outside the codepage become '?'.
func KeyForRune(r rune) Key {
	return Key(codepage.CP850().Symbol(r))
}

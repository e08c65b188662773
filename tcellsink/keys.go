package tcellsink

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/ryanlewis/retrocon"
)

// ErrClosed is returned by PresentFrame after Close.
var ErrClosed = errors.New("terminal closed")

var keyMap = map[tcell.Key]retrocon.Key{
	tcell.KeyUp:         retrocon.KeyCursorUp,
	tcell.KeyDown:       retrocon.KeyCursorDown,
	tcell.KeyLeft:       retrocon.KeyCursorLeft,
	tcell.KeyRight:      retrocon.KeyCursorRight,
	tcell.KeyHome:       retrocon.KeyHome,
	tcell.KeyEnd:        retrocon.KeyEnd,
	tcell.KeyPgUp:       retrocon.KeyPageUp,
	tcell.KeyPgDn:       retrocon.KeyPageDown,
	tcell.KeyBackspace:  retrocon.KeyBackspace,
	tcell.KeyBackspace2: retrocon.KeyBackspace,
	tcell.KeyTab:        retrocon.KeyTab,
	tcell.KeyEnter:      retrocon.KeyEnter,
	tcell.KeyInsert:     retrocon.KeyInsert,
	tcell.KeyDelete:     retrocon.KeyDelete,
	tcell.KeyEsc:        retrocon.KeyEscape,
	tcell.KeyClear:      retrocon.KeyClear,
	tcell.KeyCenter:     retrocon.KeyClear,
	tcell.KeyF1:         retrocon.KeyF1,
	tcell.KeyF2:         retrocon.KeyF2,
	tcell.KeyF3:         retrocon.KeyF3,
	tcell.KeyF4:         retrocon.KeyF4,
	tcell.KeyF5:         retrocon.KeyF5,
	tcell.KeyF6:         retrocon.KeyF6,
	tcell.KeyF7:         retrocon.KeyF7,
	tcell.KeyF8:         retrocon.KeyF8,
	tcell.KeyF9:         retrocon.KeyF9,
	tcell.KeyF10:        retrocon.KeyF10,
	tcell.KeyF11:        retrocon.KeyF11,
	tcell.KeyF12:        retrocon.KeyF12,
}

// translateKey maps a terminal key event to a console key. Typed
// characters go through the codepage; unmapped keys are dropped.
func translateKey(ev *tcell.EventKey) (retrocon.Key, bool) {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r < ' ' || r == 0x7F {
			return 0, false
		}
		return retrocon.KeyForRune(r), true
	}
	k, ok := keyMap[ev.Key()]
	return k, ok
}

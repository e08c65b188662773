// Package tcellsink shows a console in a terminal using tcell.
//
// Each console cell maps to one terminal cell: the glyph is written as its
// codepage 850 character and the resolved palette colors as 24-bit colors,
// which tcell downgrades for terminals with fewer colors. Glyph pixels and
// gamma beyond the palette are not reproduced.
package tcellsink

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ryanlewis/retrocon"
	"github.com/ryanlewis/retrocon/internal/codepage"
)

// Terminal is a retrocon.Display drawing into a tcell screen.
type Terminal struct {
	screen tcell.Screen
	cp     *codepage.Table

	mu     sync.Mutex
	closed bool
}

// New takes over screen, or the controlling terminal when screen is nil.
// Close restores the terminal.
func New(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to open terminal: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.Clear()
	return &Terminal{screen: screen, cp: codepage.CP850()}, nil
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

// BlitCell implements retrocon.Display.
func (t *Terminal) BlitCell(col, row int, glyph byte, fg, bg uint32) {
	style := tcell.StyleDefault.Foreground(rgb(fg)).Background(rgb(bg))
	t.screen.SetContent(col, row, t.glyphRune(glyph), nil, style)
}

// PresentFrame implements retrocon.Display.
func (t *Terminal) PresentFrame() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.screen.Show()
	return nil
}

// Close restores the terminal. Pump returns once the screen is closed.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

// glyphRune returns the character shown for glyph. Control codes have no
// printable form in the codepage table and show as spaces.
func (t *Terminal) glyphRune(glyph byte) rune {
	if glyph < 32 || glyph == 127 {
		return ' '
	}
	return t.cp.Rune(glyph)
}

func rgb(argb uint32) tcell.Color {
	return tcell.NewRGBColor(int32(argb>>16&0xFF), int32(argb>>8&0xFF), int32(argb&0xFF))
}

// Pump forwards terminal input to con until the screen is closed. Ctrl+C
// calls interrupt, if set, instead of queueing a key. Resizes repaint the
// terminal from tcell's own buffer.
func (t *Terminal) Pump(con *retrocon.Console, interrupt func()) {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.mu.Lock()
			if !t.closed {
				t.screen.Sync()
			}
			t.mu.Unlock()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC && interrupt != nil {
				interrupt()
				continue
			}
			if k, ok := translateKey(ev); ok {
				con.PushKey(k)
			}
		}
	}
}

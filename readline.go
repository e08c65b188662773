package retrocon

import (
	"context"

	"github.com/ryanlewis/retrocon/internal/codepage"
)

// ReadLine runs a single line editor in the field of maxLen cells at (x, y),
// pre-filled with initial, and returns the text when Enter is pressed. The
// cursor is shown with fg and bg swapped.
//
// Left/Right move the cursor, Home or Down jump to the start, End or Up to
// the end of the text. Backspace and Delete remove a symbol, Insert opens a
// gap. Escape abandons the edit: the field shows initial again and ok is
// false. Either way the text is what the field shows, so an initial longer
// than maxLen comes back cut and runes outside CP850 come back as '?'.
//
// ReadLine blocks in WaitKey. A display error ends the edit with ok false.
func (c *Console) ReadLine(x, y, maxLen, fg, bg int, initial string) (text string, ok bool) {
	text, ok, err := c.ReadLineContext(context.Background(), x, y, maxLen, fg, bg, initial)
	if err != nil {
		return text, false
	}
	return text, ok
}

// ReadLineContext is ReadLine that stops with ctx.Err() when ctx is done.
func (c *Console) ReadLineContext(ctx context.Context, x, y, maxLen, fg, bg int, initial string) (string, bool, error) {
	if maxLen < 1 {
		return "", true, nil
	}
	cp := codepage.CP850()

	ed := newLineEditor(maxLen, cp.EncodeString(initial))
	for {
		ed.draw(c, x, y, fg, bg, true)
		if err := c.Update(); err != nil {
			return ed.text(), false, err
		}

		k, err := c.keys.WaitContext(ctx)
		if err != nil {
			return ed.text(), false, err
		}

		switch k {
		case KeyEnter:
			ed.draw(c, x, y, fg, bg, false)
			return ed.text(), true, c.Update()
		case KeyEscape:
			ed = newLineEditor(maxLen, cp.EncodeString(initial))
			ed.draw(c, x, y, fg, bg, false)
			return ed.text(), false, c.Update()
		default:
			ed.handle(k)
		}
	}
}

// lineEditor is the state of a fixed width edit field.
type lineEditor struct {
	buf []byte // always maxLen symbols, padded with spaces
	n   int    // length of the text
	pos int    // cursor, always < len(buf)
}

func newLineEditor(maxLen int, initial []byte) *lineEditor {
	ed := &lineEditor{buf: make([]byte, maxLen)}
	for i := range ed.buf {
		ed.buf[i] = ' '
	}
	ed.n = copy(ed.buf, initial)
	ed.pos = min(ed.n, maxLen-1)
	return ed
}

func (ed *lineEditor) text() string {
	return codepage.CP850().DecodeBytes(ed.buf[:ed.n])
}

func (ed *lineEditor) draw(c *Console, x, y, fg, bg int, cursor bool) {
	for i, s := range ed.buf {
		if cursor && i == ed.pos {
			c.PrintSymbol(x+i, y, s, bg, fg)
		} else {
			c.PrintSymbol(x+i, y, s, fg, bg)
		}
	}
}

func (ed *lineEditor) handle(k Key) {
	last := len(ed.buf) - 1
	switch {
	case k == KeyCursorLeft:
		if ed.pos > 0 {
			ed.pos--
		}
	case k == KeyCursorRight:
		if ed.pos < ed.n && ed.pos < last {
			ed.pos++
		}
	case k == KeyHome || k == KeyCursorDown:
		ed.pos = 0
	case k == KeyEnd || k == KeyCursorUp:
		ed.pos = min(ed.n, last)
	case k == KeyBackspace:
		if ed.pos > 0 {
			copy(ed.buf[ed.pos-1:], ed.buf[ed.pos:])
			ed.buf[last] = ' '
			ed.pos--
			ed.n--
		}
	case k == KeyInsert:
		if ed.pos < last {
			copy(ed.buf[ed.pos+1:], ed.buf[ed.pos:last])
			ed.buf[ed.pos] = ' '
			if ed.n < len(ed.buf) {
				ed.n++
			}
		}
	case k == KeyDelete:
		if ed.pos < last {
			if ed.pos < ed.n {
				ed.n--
			}
			copy(ed.buf[ed.pos:], ed.buf[ed.pos+1:])
			ed.buf[last] = ' '
		}
	case k.Printable():
		ed.buf[ed.pos] = byte(k)
		ed.n = max(ed.n, ed.pos+1)
		if ed.pos < last {
			ed.pos++
		}
	}
}

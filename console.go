package retrocon

import (
	"context"
	"strings"

	"github.com/ryanlewis/retrocon/internal/codepage"
	"github.com/ryanlewis/retrocon/internal/debug"
)

// Clear sets every cell to a space in the default colors. The next Update
// redraws what changed; the display history is untouched.
func (c *Console) Clear() { c.grid.Clear() }

// SetDefaultColors sets the colors Clear and scrolling fill with.
func (c *Console) SetDefaultColors(fg, bg int) { c.grid.SetDefaultColors(fg, bg) }

// Cell returns the cell at (x, y). Out of range coordinates are clamped to
// the nearest cell.
func (c *Console) Cell(x, y int) Cell { return c.grid.Cell(x, y) }

// SetCell stores v, masked to 24 bits, at the clamped position (x, y).
func (c *Console) SetCell(x, y int, v Cell) { c.grid.SetCell(x, y, v) }

// Cells returns the grid row by row. The slice is the console's own storage
// and must not be modified.
func (c *Console) Cells() []Cell { return c.grid.Cells() }

// Bounds returns the rectangle covering the whole grid.
func (c *Console) Bounds() Rect { return c.grid.Bounds() }

// PrintSymbol writes one codepage symbol at the clamped position (x, y).
func (c *Console) PrintSymbol(x, y int, symbol byte, fg, bg int) {
	c.grid.PrintSymbol(x, y, symbol, fg, bg)
}

// PrintSymbols writes codepage symbols from (x, y) onwards, wrapping to the
// next row at the right edge. Symbols past the last cell overwrite it.
func (c *Console) PrintSymbols(x, y int, symbols []byte, fg, bg int) {
	c.grid.PrintSymbols(x, y, symbols, fg, bg)
}

// PrintString writes s like PrintSymbols. Characters outside codepage 850
// are printed as '?'.
func (c *Console) PrintString(x, y int, s string, fg, bg int) {
	c.grid.PrintSymbols(x, y, codepage.CP850().EncodeString(s), fg, bg)
}

// Fill sets every cell to v.
func (c *Console) Fill(v Cell) { c.grid.Fill(v) }

// FillRect sets every cell of r, clipped to the grid, to v.
func (c *Console) FillRect(r Rect, v Cell) { c.grid.FillRect(r, v) }

// Colorize recolors every cell of r, clipped to the grid, keeping glyphs.
func (c *Console) Colorize(r Rect, fg, bg int) { c.grid.Colorize(r, fg, bg) }

// ColorizeAll recolors the whole grid, keeping glyphs.
func (c *Console) ColorizeAll(fg, bg int) { c.grid.Colorize(c.grid.Bounds(), fg, bg) }

// Scroll shifts the contents of r one cell in direction d and fills the
// vacated edge with the blank cell.
func (c *Console) Scroll(r Rect, d Direction) { c.grid.Scroll(r, d) }

// DrawFrame draws a border around r, joining with line glyphs of the same
// style already on the grid. Frames smaller than 2x2 are not drawn.
func (c *Console) DrawFrame(r Rect, fg, bg int, style FrameStyle) {
	c.grid.DrawFrame(r, fg, bg, style)
}

// CreateBuffer stores a copy of the screen and returns its handle.
func (c *Console) CreateBuffer() int { return c.grid.CreateBuffer() }

// CaptureBuffer overwrites buffer h with the current screen.
func (c *Console) CaptureBuffer(h int) error { return c.grid.Capture(h) }

// RestoreBuffer copies buffer h back onto the screen.
func (c *Console) RestoreBuffer(h int) error { return c.grid.Restore(h) }

// SetColor sets palette entry index (masked to 8 bits) to a 0xRRGGBB color.
func (c *Console) SetColor(index int, rgb uint32) { c.pal.Set(index, rgb) }

// Color returns the raw 0xRRGGBB color of a palette entry.
func (c *Console) Color(index int) uint32 { return c.pal.Get(index) }

// ResolvedColor returns the gamma corrected 0xFFRRGGBB pixel of an entry.
func (c *Console) ResolvedColor(index int) uint32 { return c.pal.Resolved(index) }

// Palette returns a copy of the raw palette.
func (c *Console) Palette() [256]uint32 { return c.pal.Raw() }

// ResetPalette restores the 16 standard colors repeated over all entries.
func (c *Console) ResetPalette() { c.pal.Reset() }

// SetGamma sets the display gamma, clamped to [0.01, 3].
func (c *Console) SetGamma(g float64) { c.pal.SetGamma(g) }

// Gamma returns the clamped display gamma.
func (c *Console) Gamma() float64 { return c.pal.Gamma() }

// PushKey queues keys for PollKey and WaitKey. It is safe to call from any
// goroutine and is how displays deliver input.
func (c *Console) PushKey(keys ...Key) {
	c.keys.Push(keys...)
	if c.session != nil {
		for _, k := range keys {
			c.session.Emit("input", "Key", debug.KeyData{Code: int(k), Name: KeyName(k)})
		}
	}
}

// PushString queues the keys for each character of s.
func (c *Console) PushString(s string) {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		switch r {
		case '\n':
			keys = append(keys, KeyEnter)
		case '\t':
			keys = append(keys, KeyTab)
		case '\r':
		default:
			keys = append(keys, KeyForRune(r))
		}
	}
	c.PushKey(keys...)
}

// PollKey returns the oldest queued key without blocking.
func (c *Console) PollKey() (Key, bool) { return c.keys.Poll() }

// WaitKey blocks until a key is queued. It polls every 5ms and cannot be
// cancelled; see WaitKeyContext.
func (c *Console) WaitKey() Key { return c.keys.Wait() }

// WaitKeyContext is WaitKey that gives up when ctx is done.
func (c *Console) WaitKeyContext(ctx context.Context) (Key, error) {
	return c.keys.WaitContext(ctx)
}

// ClearKeys drops every queued key.
func (c *Console) ClearKeys() { c.keys.Clear() }

// PendingKeys returns the number of queued keys.
func (c *Console) PendingKeys() int { return c.keys.Len() }

// Text returns the screen as text, one line per row, with every glyph
// decoded through codepage 850. Control codes become spaces.
func (c *Console) Text() string {
	cp := codepage.CP850()
	cols := c.grid.Cols()
	var b strings.Builder
	b.Grow(len(c.grid.Cells()) + c.grid.Rows())
	for i, cell := range c.grid.Cells() {
		g := cell.Glyph()
		if g < 32 || g == 127 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(cp.Rune(g))
		}
		if i%cols == cols-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Package grid implements the console cell grid: packed cells, clamped point
// access, rectangle fills, scrolling, frame drawing and screen buffers.
//
// A Grid has a single owner and performs no locking.
package grid

import (
	"fmt"

	"github.com/ryanlewis/retrocon/internal/common"
)

// Cell is a packed (bg << 16) | (fg << 8) | glyph value.
type Cell uint32

// MakeCell packs a glyph and two color indices, masking each to 8 bits.
func MakeCell(glyph, fg, bg int) Cell {
	return Cell((bg&0xFF)<<16 | (fg&0xFF)<<8 | glyph&0xFF)
}

// Glyph returns the code page symbol of the cell.
func (c Cell) Glyph() byte { return byte(c) }

// Fg returns the foreground color index.
func (c Cell) Fg() int { return int(c>>8) & 0xFF }

// Bg returns the background color index.
func (c Cell) Bg() int { return int(c>>16) & 0xFF }

// WithColors returns c with its glyph kept and the colors replaced.
func (c Cell) WithColors(fg, bg int) Cell {
	return MakeCell(int(c.Glyph()), fg, bg)
}

// Rect is a rectangle of cells. W and H may be zero or negative, in which
// case the rectangle is empty.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r contains no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the part of r that is also inside s.
func (r Rect) Intersect(s Rect) Rect {
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.X+r.W, s.X+s.W), min(r.Y+r.H, s.Y+s.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Grid is a fixed size rows*cols cell buffer with auxiliary screen buffers.
type Grid struct {
	cols    int
	rows    int
	cells   []Cell
	blank   Cell
	buffers [][]Cell
}

// New creates a grid filled with blank cells (space, colors 0/0).
func New(cols, rows int) (*Grid, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("invalid grid size %dx%d", cols, rows)
	}
	g := &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
		blank: MakeCell(common.SpaceGlyph, 0, 0),
	}
	g.Clear()
	return g, nil
}

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Bounds returns the rectangle covering the whole grid.
func (g *Grid) Bounds() Rect {
	return Rect{W: g.cols, H: g.rows}
}

// Cells returns the live row-major cell slice. Callers must not retain it
// across mutations they do not own.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// Load replaces every cell. The slice length must match the grid.
func (g *Grid) Load(cells []Cell) error {
	if len(cells) != len(g.cells) {
		return fmt.Errorf("cell count %d does not match grid size %d", len(cells), len(g.cells))
	}
	for i, c := range cells {
		g.cells[i] = c & common.CellMask
	}
	return nil
}

// SetDefaultColors sets the colors of the blank cell used by Clear and by
// scroll back-filling.
func (g *Grid) SetDefaultColors(fg, bg int) {
	g.blank = MakeCell(common.SpaceGlyph, fg, bg)
}

// Blank returns the cell used for clearing.
func (g *Grid) Blank() Cell {
	return g.blank
}

// clamp maps any coordinate onto the nearest cell index.
func (g *Grid) clamp(x, y int) int {
	x = min(max(x, 0), g.cols-1)
	y = min(max(y, 0), g.rows-1)
	return y*g.cols + x
}

// Cell returns the cell at (x, y), clamping out of range coordinates.
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[g.clamp(x, y)]
}

// SetCell stores v at (x, y), clamping out of range coordinates.
func (g *Grid) SetCell(x, y int, v Cell) {
	g.cells[g.clamp(x, y)] = v & common.CellMask
}

// Clear sets every cell to the blank cell.
func (g *Grid) Clear() {
	g.FillRect(g.Bounds(), g.blank)
}

// PrintSymbol writes one symbol at (x, y), clamping the position.
func (g *Grid) PrintSymbol(x, y int, symbol byte, fg, bg int) {
	g.SetCell(x, y, MakeCell(int(symbol), fg, bg))
}

// PrintSymbols writes symbols left to right starting at the clamped position,
// wrapping at the right edge. Past the bottom-right corner the position stays
// on the last cell.
func (g *Grid) PrintSymbols(x, y int, symbols []byte, fg, bg int) {
	i := g.clamp(x, y)
	last := len(g.cells) - 1
	for _, s := range symbols {
		g.cells[i] = MakeCell(int(s), fg, bg)
		if i < last {
			i++
		}
	}
}

// Fill sets every cell to v.
func (g *Grid) Fill(v Cell) {
	g.FillRect(g.Bounds(), v)
}

// FillRect sets every cell of r that lies inside the grid to v.
func (g *Grid) FillRect(r Rect, v Cell) {
	v &= common.CellMask
	g.each(r, func(i int) {
		g.cells[i] = v
	})
}

// Colorize replaces the colors of every cell in r, keeping the glyphs.
func (g *Grid) Colorize(r Rect, fg, bg int) {
	g.each(r, func(i int) {
		g.cells[i] = g.cells[i].WithColors(fg, bg)
	})
}

// each calls fn with the index of every cell of r clipped to the grid.
func (g *Grid) each(r Rect, fn func(i int)) {
	r = r.Intersect(g.Bounds())
	for y := r.Y; y < r.Y+r.H; y++ {
		row := y * g.cols
		for x := r.X; x < r.X+r.W; x++ {
			fn(row + x)
		}
	}
}

// CreateBuffer allocates a screen buffer and returns its handle.
// The buffer starts as a copy of the current screen.
func (g *Grid) CreateBuffer() int {
	buf := make([]Cell, len(g.cells))
	copy(buf, g.cells)
	g.buffers = append(g.buffers, buf)
	return len(g.buffers) - 1
}

// Buffers returns the number of screen buffers created so far.
func (g *Grid) Buffers() int {
	return len(g.buffers)
}

// Capture copies the screen into buffer h.
func (g *Grid) Capture(h int) error {
	buf, err := g.buffer(h)
	if err != nil {
		return err
	}
	copy(buf, g.cells)
	return nil
}

// Restore copies buffer h onto the screen.
func (g *Grid) Restore(h int) error {
	buf, err := g.buffer(h)
	if err != nil {
		return err
	}
	copy(g.cells, buf)
	return nil
}

func (g *Grid) buffer(h int) ([]Cell, error) {
	if h < 0 || h >= len(g.buffers) {
		return nil, fmt.Errorf("%w: %d", common.ErrNoSuchBuffer, h)
	}
	return g.buffers[h], nil
}

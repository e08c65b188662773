package renderer

import (
	"fmt"

	"github.com/ryanlewis/retrocon/internal/grid"
)

// DiffEngine remembers what was last drawn for every cell and forwards only
// changed cells to a Sink. It is owned by a single goroutine.
//
// The history holds three words per cell: the cell value and the resolved
// foreground and background pixels. Comparing resolved pixels means palette
// and gamma changes redraw exactly the affected cells.
type DiffEngine struct {
	cols    int
	rows    int
	history []uint32
}

// NewDiffEngine returns an engine for a cols x rows grid. Its history starts
// invalidated, so the first Update draws every cell.
func NewDiffEngine(cols, rows int) *DiffEngine {
	e := &DiffEngine{
		cols:    cols,
		rows:    rows,
		history: make([]uint32, shadowStride*cols*rows),
	}
	e.Invalidate()
	return e
}

// Invalidate forces the next Update to redraw every cell.
func (e *DiffEngine) Invalidate() {
	for i := range e.history {
		e.history[i] = sentinel
	}
}

// Update blits every cell whose (cell, fg pixel, bg pixel) triple differs
// from the history, records the new triple and then presents the frame.
// It returns the number of cells blitted.
func (e *DiffEngine) Update(cells []grid.Cell, pal Resolver, sink Sink) (int, error) {
	if len(cells) != e.cols*e.rows {
		return 0, fmt.Errorf("%w: got %d cells for %dx%d", ErrSizeMismatch, len(cells), e.cols, e.rows)
	}

	blits := 0
	for i, c := range cells {
		fg := pal.Resolved(c.Fg())
		bg := pal.Resolved(c.Bg())
		h := e.history[i*shadowStride : (i+1)*shadowStride]
		if h[0] == uint32(c) && h[1] == fg && h[2] == bg {
			continue
		}
		sink.BlitCell(i%e.cols, i/e.cols, c.Glyph(), fg, bg)
		h[0], h[1], h[2] = uint32(c), fg, bg
		blits++
	}

	return blits, sink.PresentFrame()
}

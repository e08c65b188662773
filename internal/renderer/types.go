// Package renderer rasterizes glyph cells into an RGBA framebuffer and keeps
// the shadow history that limits each update to the cells that changed.
package renderer

import "errors"

// Error definitions for the renderer package
var (
	// ErrNilFont is returned when a nil font is provided
	ErrNilFont = errors.New("font cannot be nil")
	// ErrSizeMismatch is returned when a cell slice does not match the engine size
	ErrSizeMismatch = errors.New("cell count does not match engine size")
)

// Sink receives the cells that changed during an update.
type Sink interface {
	// BlitCell draws glyph at cell (col, row) with opaque 0xAARRGGBB colors.
	BlitCell(col, row int, glyph byte, fg, bg uint32)
	// PresentFrame is called once after every update pass.
	PresentFrame() error
}

// Resolver maps palette indices to final pixel colors.
type Resolver interface {
	Resolved(index int) uint32
}

// sentinel never equals a cell because cells only use 24 bits.
const sentinel = 0xFFFFFFFF

// shadowStride is the number of history words kept per cell:
// the cell, its foreground pixel and its background pixel.
const shadowStride = 3

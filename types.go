package retrocon

import (
	"errors"
	"io"

	"github.com/ryanlewis/retrocon/internal/common"
	"github.com/ryanlewis/retrocon/internal/glyphfont"
	"github.com/ryanlewis/retrocon/internal/grid"
)

// Cell is a packed grid cell: (bg << 16) | (fg << 8) | glyph.
type Cell = grid.Cell

// MakeCell packs a glyph and two palette indices, masking each to 8 bits.
func MakeCell(glyph, fg, bg int) Cell {
	return grid.MakeCell(glyph, fg, bg)
}

// Rect is a cell rectangle. Operations taking a Rect clip it to the grid.
type Rect = grid.Rect

// Direction is one of the eight scroll directions.
type Direction = grid.Direction

// Scroll directions.
const (
	North     = grid.N
	NorthEast = grid.NE
	East      = grid.E
	SouthEast = grid.SE
	South     = grid.S
	SouthWest = grid.SW
	West      = grid.W
	NorthWest = grid.NW
)

// ParseDirection converts a compass name such as "N" or "sw" to a Direction.
func ParseDirection(s string) (Direction, error) {
	return grid.ParseDirection(s)
}

// FrameStyle selects single (Thin) or double (Thick) frame lines.
type FrameStyle = grid.FrameStyle

// Frame styles.
const (
	Thin  = grid.Thin
	Thick = grid.Thick
)

// Font is an immutable 256-glyph bitmap font. It is safe for concurrent use.
type Font = glyphfont.Font

// ParseFont reads a font in the packed bitmap format:
// a width byte, a height byte and height*256 big-endian glyph rows.
func ParseFont(r io.Reader) (*Font, error) {
	return glyphfont.Parse(r)
}

// Display receives the cells that changed during Update.
//
// BlitCell is called once per changed cell with opaque 0xAARRGGBB colors,
// then PresentFrame once per Update. Both run on the console's goroutine.
type Display interface {
	BlitCell(col, row int, glyph byte, fg, bg uint32)
	PresentFrame() error
}

// FontReceiver is implemented by displays that rasterize glyphs themselves.
// The console calls SetFont before the first Update and on every charset
// change.
type FontReceiver interface {
	SetFont(f *Font)
}

// Common errors returned by the retrocon package
var (
	// ErrBadFontFormat is returned when font data has an invalid structure
	ErrBadFontFormat = common.ErrBadFontFormat

	// ErrBadSnapshot is returned when a screen snapshot is malformed or truncated
	ErrBadSnapshot = common.ErrBadSnapshot

	// ErrBadMagic is returned when a snapshot does not start with 0xDEADAFFE
	ErrBadMagic = common.ErrBadMagic

	// ErrDimensionMismatch is returned when a snapshot was saved from a grid of another size
	ErrDimensionMismatch = common.ErrDimensionMismatch

	// ErrNoSuchBuffer is returned for an unknown screen buffer handle
	ErrNoSuchBuffer = common.ErrNoSuchBuffer

	// ErrUnknownCharset is returned when a charset name cannot be parsed
	ErrUnknownCharset = errors.New("unknown charset")

	// ErrNotRecording is returned by StopRecording when no recording is active
	ErrNotRecording = errors.New("not recording")

	// ErrAlreadyRecording is returned by StartRecording during a recording
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNilLoader is returned when a nil resource loader is supplied
	ErrNilLoader = errors.New("resource loader cannot be nil")
)

// Package common provides shared constants and errors for internal packages.
// These values must match the public API in the retrocon package.
package common

import "errors"

// Glyph constants
const (
	// SpaceGlyph is the code page symbol used for blank cells
	SpaceGlyph = 32
	// CellMask keeps the 24 meaningful bits of a packed cell
	CellMask = 0xFFFFFF
	// PaletteSize is the number of palette entries
	PaletteSize = 256
	// GlyphCount is the number of glyphs in every font
	GlyphCount = 256
)

// Direction bits used by frame drawing and scrolling (must match public API)
const (
	// North is up
	North = 1 << 0
	// East is right
	East = 1 << 1
	// South is down
	South = 1 << 2
	// West is left
	West = 1 << 3
)

// Common errors (must match public API in retrocon package)
var (
	// ErrBadFontFormat is returned when a glyph font has an invalid structure
	ErrBadFontFormat = errors.New("bad font format")
	// ErrBadSnapshot is returned when a screen snapshot is malformed or truncated
	ErrBadSnapshot = errors.New("bad snapshot")
	// ErrBadMagic is returned when a snapshot does not start with the magic word
	ErrBadMagic = errors.New("bad snapshot magic")
	// ErrDimensionMismatch is returned when snapshot dimensions differ from the grid
	ErrDimensionMismatch = errors.New("snapshot dimensions do not match grid")
	// ErrNoSuchBuffer is returned for an unknown screen buffer handle
	ErrNoSuchBuffer = errors.New("no such screen buffer")
)

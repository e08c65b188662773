package grid

import "github.com/ryanlewis/retrocon/internal/common"

// FrameStyle selects the line drawing glyph set of a frame.
type FrameStyle int

const (
	// Thin draws single lines.
	Thin FrameStyle = iota
	// Thick draws double lines.
	Thick
)

func (s FrameStyle) String() string {
	if s == Thick {
		return "thick"
	}
	return "thin"
}

// Direction masks of the frame pieces.
const (
	cornerTopLeft     = common.East | common.South
	cornerTopRight    = common.South | common.West
	cornerBottomLeft  = common.North | common.East
	cornerBottomRight = common.North | common.West
	edgeHorizontal    = common.East | common.West
	edgeVertical      = common.North | common.South
)

// Line drawing glyphs indexed by the set of directions a line leaves the
// cell in. Entry 0 and the single direction stubs have no glyph.
var (
	thinGlyphs = [16]byte{
		0x00, 0x00, 0x00, 0xC0, // -, N, E, NE
		0x00, 0xB3, 0xDA, 0xC3, // S, NS, ES, NES
		0x00, 0xD9, 0xC4, 0xC1, // W, NW, EW, NEW
		0xBF, 0xB4, 0xC2, 0xC5, // SW, NSW, ESW, NESW
	}
	thickGlyphs = [16]byte{
		0x00, 0x00, 0x00, 0xC8,
		0x00, 0xBA, 0xC9, 0xCC,
		0x00, 0xBC, 0xCD, 0xCA,
		0xBB, 0xB9, 0xCB, 0xCE,
	}
)

func (s FrameStyle) glyphs() *[16]byte {
	if s == Thick {
		return &thickGlyphs
	}
	return &thinGlyphs
}

// LineDirections returns the direction mask drawn by glyph in style s, or 0
// when glyph is not a line glyph of that style.
func LineDirections(glyph byte, s FrameStyle) int {
	for dirs, g := range s.glyphs() {
		if g != 0 && g == glyph {
			return dirs
		}
	}
	return 0
}

// LineGlyph returns the glyph drawing the directions in dirs.
func LineGlyph(dirs int, s FrameStyle) byte {
	return s.glyphs()[dirs&15]
}

// DrawFrame draws the border of r. Where the border crosses a line glyph of
// the same style the two are merged into a junction. Frames smaller than
// 2x2 are not drawn; cells outside the grid are skipped.
func (g *Grid) DrawFrame(r Rect, fg, bg int, style FrameStyle) {
	if r.W < 2 || r.H < 2 {
		return
	}
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W-1, r.Y+r.H-1

	g.mergeLine(x0, y0, cornerTopLeft, fg, bg, style)
	g.mergeLine(x1, y0, cornerTopRight, fg, bg, style)
	g.mergeLine(x0, y1, cornerBottomLeft, fg, bg, style)
	g.mergeLine(x1, y1, cornerBottomRight, fg, bg, style)

	for x := x0 + 1; x < x1; x++ {
		g.mergeLine(x, y0, edgeHorizontal, fg, bg, style)
		g.mergeLine(x, y1, edgeHorizontal, fg, bg, style)
	}
	for y := y0 + 1; y < y1; y++ {
		g.mergeLine(x0, y, edgeVertical, fg, bg, style)
		g.mergeLine(x1, y, edgeVertical, fg, bg, style)
	}
}

func (g *Grid) mergeLine(x, y, dirs, fg, bg int, style FrameStyle) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	i := y*g.cols + x
	dirs |= LineDirections(g.cells[i].Glyph(), style)
	g.cells[i] = MakeCell(int(LineGlyph(dirs, style)), fg, bg)
}

// Package fontgen synthesises codepage 850 bitmap fonts at any supported
// cell size.
//
// Printable ASCII comes from basicfont.Face7x13. Accented letters are drawn
// as their compatibility-decomposed base letter plus a small mark, line and
// block graphics are drawn procedurally at the target size so they join
// across cells. Everything else falls back to a hollow box.
package fontgen

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/ryanlewis/retrocon/internal/codepage"
	"github.com/ryanlewis/retrocon/internal/common"
	"github.com/ryanlewis/retrocon/internal/glyphfont"
	"github.com/ryanlewis/retrocon/internal/grid"
)

// threshold is the minimum alpha for a scaled pixel to be lit.
const threshold = 0x60

var face = basicfont.Face7x13

// Generate builds a complete 256-glyph font of the given cell size.
func Generate(width, height int) (*glyphfont.Font, error) {
	if width < 1 || width > 32 || height < 1 || height > 255 {
		return nil, fmt.Errorf("%w: cannot generate %dx%d", common.ErrBadFontFormat, width, height)
	}

	cp := codepage.CP850()
	rows := make([]uint32, height*common.GlyphCount)
	for g := 0; g < common.GlyphCount; g++ {
		cell := image.NewAlpha(image.Rect(0, 0, width, height))
		drawGlyph(cell, byte(g), cp.Rune(byte(g)))
		pack(cell, rows[g*height:(g+1)*height])
	}
	return glyphfont.New(width, height, rows)
}

// Bytes generates a font and returns it in the resource format.
func Bytes(width, height int) ([]byte, error) {
	f, err := Generate(width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode %dx%d font: %w", width, height, err)
	}
	return buf.Bytes(), nil
}

func drawGlyph(cell *image.Alpha, symbol byte, r rune) {
	switch {
	case symbol < 32 || symbol == 127 || r == ' ' || r == '\u00a0':
		return
	case drawLines(cell, symbol):
		return
	case drawBlock(cell, r):
		return
	}

	src, ok := sourceGlyph(r)
	if !ok {
		hollowBox(cell)
		return
	}
	scale(cell, src)
}

// sourceGlyph renders r at the face's native size, building accented and
// substituted letters from their ASCII base.
func sourceGlyph(r rune) (*image.Alpha, bool) {
	if r >= 0x20 && r < 0x7F {
		return faceGlyph(r)
	}

	base, marks := decompose(r)
	flip := false
	if base == 0 {
		sub, ok := substitutes[r]
		if !ok {
			return nil, false
		}
		base, flip = sub.base, sub.flip
	}

	img, ok := faceGlyph(base)
	if !ok {
		return nil, false
	}
	if flip {
		flipVertical(img)
	}
	for _, m := range marks {
		stamp(img, m)
	}
	return img, true
}

func faceGlyph(r rune) (*image.Alpha, bool) {
	img := image.NewAlpha(image.Rect(0, 0, face.Advance, face.Ascent+face.Descent))
	dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, face.Ascent), r)
	if !ok {
		return nil, false
	}
	draw.DrawMask(img, dr, image.Opaque, image.Point{}, mask, maskp, draw.Over)
	return img, true
}

// decompose returns the ASCII base letter of r and the marks the font knows
// how to draw. A zero base means r has no usable decomposition.
func decompose(r rune) (rune, []mark) {
	var base rune
	var marks []mark
	for i, d := range []rune(norm.NFKD.String(string(r))) {
		if i == 0 {
			if d < 0x20 || d >= 0x7F {
				return 0, nil
			}
			base = d
			continue
		}
		if m, ok := combining[d]; ok {
			marks = append(marks, m)
		}
	}
	return base, marks
}

func scale(dst, src *image.Alpha) {
	tmp := image.NewAlpha(dst.Bounds())
	var s draw.Scaler = draw.NearestNeighbor
	if dst.Bounds().Dx() < src.Bounds().Dx() || dst.Bounds().Dy() < src.Bounds().Dy() {
		s = draw.BiLinear
	}
	s.Scale(tmp, tmp.Bounds(), src, src.Bounds(), draw.Src, nil)
	for i, a := range tmp.Pix {
		if a >= threshold {
			dst.Pix[i] = 0xFF
		}
	}
}

func pack(cell *image.Alpha, rows []uint32) {
	w := cell.Bounds().Dx()
	mask := uint32(1) << (uint((w+7)/8)*8 - 1)
	for y := range rows {
		var bits uint32
		for x := 0; x < w; x++ {
			if cell.AlphaAt(x, y).A != 0 {
				bits |= mask >> uint(x)
			}
		}
		rows[y] = bits
	}
}

// drawLines draws the single and double line glyphs the frame tables know.
func drawLines(cell *image.Alpha, symbol byte) bool {
	b := cell.Bounds()
	cx, cy := b.Dx()/2, b.Dy()/2

	if dirs := grid.LineDirections(symbol, grid.Thin); dirs != 0 {
		segments(cell, dirs, cx, cy, 0)
		return true
	}
	if dirs := grid.LineDirections(symbol, grid.Thick); dirs != 0 {
		gap := 1
		if b.Dx() < 5 || b.Dy() < 5 {
			gap = 0
		}
		segments(cell, dirs, cx-gap, cy-gap, gap)
		segments(cell, dirs, cx+gap, cy+gap, gap)
		return true
	}
	return false
}

// segments draws the arms selected by dirs from the edges to (cx, cy),
// extended by reach so parallel rails meet.
func segments(cell *image.Alpha, dirs, cx, cy, reach int) {
	b := cell.Bounds()
	if dirs&common.North != 0 {
		vline(cell, cx, 0, min(cy+reach, b.Dy()-1))
	}
	if dirs&common.South != 0 {
		vline(cell, cx, max(cy-reach, 0), b.Dy()-1)
	}
	if dirs&common.West != 0 {
		hline(cell, 0, min(cx+reach, b.Dx()-1), cy)
	}
	if dirs&common.East != 0 {
		hline(cell, max(cx-reach, 0), b.Dx()-1, cy)
	}
}

func hline(cell *image.Alpha, x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		set(cell, x, y)
	}
}

func vline(cell *image.Alpha, x, y0, y1 int) {
	for y := y0; y <= y1; y++ {
		set(cell, x, y)
	}
}

func set(cell *image.Alpha, x, y int) {
	if image.Pt(x, y).In(cell.Bounds()) {
		cell.Pix[cell.PixOffset(x, y)] = 0xFF
	}
}

// drawBlock draws shades and block elements.
func drawBlock(cell *image.Alpha, r rune) bool {
	var lit func(x, y, w, h int) bool
	switch r {
	case '░':
		lit = func(x, y, _, _ int) bool { return x%2 == 0 && y%2 == 0 }
	case '▒':
		lit = func(x, y, _, _ int) bool { return (x+y)%2 == 0 }
	case '▓':
		lit = func(x, y, _, _ int) bool { return x%2 == 0 || y%2 == 0 }
	case '█':
		lit = func(_, _, _, _ int) bool { return true }
	case '▄':
		lit = func(_, y, _, h int) bool { return y >= h/2 }
	case '▀':
		lit = func(_, y, _, h int) bool { return y < h/2 }
	case '■':
		lit = func(x, y, w, h int) bool {
			return x >= w/4 && x < w-w/4 && y >= h/4 && y < h-h/4
		}
	default:
		return false
	}

	w, h := cell.Bounds().Dx(), cell.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if lit(x, y, w, h) {
				set(cell, x, y)
			}
		}
	}
	return true
}

func hollowBox(cell *image.Alpha) {
	w, h := cell.Bounds().Dx(), cell.Bounds().Dy()
	x0, y0, x1, y1 := w/6, h/6, w-1-w/6, h-1-h/6
	hline(cell, x0, x1, y0)
	hline(cell, x0, x1, y1)
	vline(cell, x0, y0, y1)
	vline(cell, x1, y0, y1)
}

func flipVertical(img *image.Alpha) {
	b := img.Bounds()
	for top, bottom := 0, b.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		for x := 0; x < b.Dx(); x++ {
			i, j := img.PixOffset(x, top), img.PixOffset(x, bottom)
			img.Pix[i], img.Pix[j] = img.Pix[j], img.Pix[i]
		}
	}
}

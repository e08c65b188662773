package renderer

import (
	"github.com/ryanlewis/retrocon/internal/glyphfont"
)

// BlitCell draws glyph with its top-left pixel at (ox, oy). For every glyph
// row a single mask walks from the leftmost bit to the right, choosing fg
// where the bit is set and bg elsewhere. Pixels outside fb are skipped.
func BlitCell(fb *Framebuffer, ox, oy int, glyph byte, fg, bg uint32, f *glyphfont.Font) {
	w, h := f.Width(), f.Height()

	// Visible column span of the cell.
	x0, x1 := max(ox, 0), min(ox+w, fb.Width)
	if x0 >= x1 {
		return
	}

	var fgp, bgp [4]byte
	putPixel(fgp[:], fg)
	putPixel(bgp[:], bg)

	for r := 0; r < h; r++ {
		y := oy + r
		if y < 0 || y >= fb.Height {
			continue
		}
		bits := f.Row(glyph, r)
		mask := f.Mask() >> uint(x0-ox)
		p := fb.Pix[y*fb.Stride+x0*4:]
		for x := x0; x < x1; x++ {
			if bits&mask != 0 {
				copy(p, fgp[:])
			} else {
				copy(p, bgp[:])
			}
			p = p[4:]
			mask >>= 1
		}
	}
}

// Canvas is a Sink that rasterizes cells into a framebuffer with a font.
// It does not present anything; PresentFrame is a no-op.
type Canvas struct {
	FB   *Framebuffer
	Font *glyphfont.Font
}

// NewCanvas allocates a framebuffer sized for cols x rows cells of f.
func NewCanvas(cols, rows int, f *glyphfont.Font) (*Canvas, error) {
	if f == nil {
		return nil, ErrNilFont
	}
	return &Canvas{
		FB:   NewFramebuffer(cols*f.Width(), rows*f.Height()),
		Font: f,
	}, nil
}

// BlitCell implements Sink.
func (c *Canvas) BlitCell(col, row int, glyph byte, fg, bg uint32) {
	BlitCell(c.FB, col*c.Font.Width(), row*c.Font.Height(), glyph, fg, bg, c.Font)
}

// PresentFrame implements Sink.
func (c *Canvas) PresentFrame() error {
	return nil
}

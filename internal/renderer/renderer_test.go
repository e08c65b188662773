package renderer

import (
	"errors"
	"testing"

	"github.com/ryanlewis/retrocon/internal/glyphfont"
	"github.com/ryanlewis/retrocon/internal/grid"
	"github.com/ryanlewis/retrocon/internal/palette"
)

// testFont returns a font whose glyph g has row r equal to g ^ r, masked to
// the stride, so every glyph row is distinct and predictable.
func testFont(tb testing.TB, width, height int) *glyphfont.Font {
	tb.Helper()
	rows := make([]uint32, 256*height)
	for g := 0; g < 256; g++ {
		for r := 0; r < height; r++ {
			rows[g*height+r] = uint32(g ^ r)
		}
	}
	f, err := glyphfont.New(width, height, rows)
	if err != nil {
		tb.Fatalf("glyphfont.New failed: %v", err)
	}
	return f
}

type blit struct {
	col, row int
	glyph    byte
	fg, bg   uint32
}

// recordingSink remembers every blit and counts presented frames.
type recordingSink struct {
	blits    []blit
	presents int
	err      error
}

func (s *recordingSink) BlitCell(col, row int, glyph byte, fg, bg uint32) {
	s.blits = append(s.blits, blit{col, row, glyph, fg, bg})
}

func (s *recordingSink) PresentFrame() error {
	s.presents++
	return s.err
}

func TestBlitCellPixels(t *testing.T) {
	f := testFont(t, 8, 4)
	fb := NewFramebuffer(16, 4)
	const fg, bg = 0xFF112233, 0xFF445566

	BlitCell(fb, 8, 0, 0xA5, fg, bg, f)

	for r := 0; r < 4; r++ {
		bits := uint32(0xA5 ^ r)
		for x := 0; x < 8; x++ {
			want := uint32(bg)
			if bits&(0x80>>uint(x)) != 0 {
				want = fg
			}
			if got := fb.At(8+x, r); got != want {
				t.Errorf("pixel (%d,%d) = 0x%08X, want 0x%08X", 8+x, r, got, want)
			}
		}
		for x := 0; x < 8; x++ {
			if fb.At(x, r) != 0 {
				t.Fatalf("pixel (%d,%d) outside the cell was written", x, r)
			}
		}
	}
}

func TestBlitCellWideGlyph(t *testing.T) {
	rows := make([]uint32, 256*1)
	rows['W'] = 0x8040 // pixels 0 and 9 of a 10 pixel glyph
	f, err := glyphfont.New(10, 1, rows)
	if err != nil {
		t.Fatalf("glyphfont.New failed: %v", err)
	}
	fb := NewFramebuffer(10, 1)
	BlitCell(fb, 0, 0, 'W', 0xFFFFFFFF, 0xFF000000, f)

	for x := 0; x < 10; x++ {
		want := uint32(0xFF000000)
		if x == 0 || x == 9 {
			want = 0xFFFFFFFF
		}
		if got := fb.At(x, 0); got != want {
			t.Errorf("pixel %d = 0x%08X, want 0x%08X", x, got, want)
		}
	}
}

func TestBlitCellClipsToFramebuffer(t *testing.T) {
	f := testFont(t, 8, 8)
	fb := NewFramebuffer(4, 4)
	BlitCell(fb, -2, -2, 0xFF, 0xFFFFFFFF, 0xFF000000, f)
	BlitCell(fb, 3, 3, 0xFF, 0xFFFFFFFF, 0xFF000000, f)
	BlitCell(fb, 100, 0, 0xFF, 0xFFFFFFFF, 0xFF000000, f)

	// (0,0) shows pixel (2,2) of the first glyph; row 2 of 0xFF is 0xFD
	if got := fb.At(0, 0); got != 0xFFFFFFFF {
		t.Errorf("(0,0) = 0x%08X, want fg", got)
	}
	if len(fb.Pix) != 4*4*4 {
		t.Error("framebuffer must not grow")
	}
}

func TestFramebufferRGBA(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Set(1, 1, 0xFF102030)
	fb.Set(5, 5, 0xFFFFFFFF)
	img := fb.RGBA()
	c := img.RGBAAt(1, 1)
	if c.R != 0x10 || c.G != 0x20 || c.B != 0x30 || c.A != 0xFF {
		t.Errorf("RGBAAt = %+v", c)
	}
	if &img.Pix[0] != &fb.Pix[0] {
		t.Error("RGBA should share pixels")
	}
}

func TestDiffEngineFirstUpdateDrawsAll(t *testing.T) {
	g, _ := grid.New(5, 3)
	pal := palette.New()
	e := NewDiffEngine(5, 3)
	sink := &recordingSink{}

	n, err := e.Update(g.Cells(), pal, sink)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if n != 15 || len(sink.blits) != 15 {
		t.Errorf("first update blitted %d (%d recorded), want 15", n, len(sink.blits))
	}
	if sink.presents != 1 {
		t.Errorf("presents = %d, want 1", sink.presents)
	}
}

func TestDiffEngineOnlyChangedCells(t *testing.T) {
	g, _ := grid.New(4, 4)
	pal := palette.New()
	e := NewDiffEngine(4, 4)
	sink := &recordingSink{}
	if _, err := e.Update(g.Cells(), pal, sink); err != nil {
		t.Fatal(err)
	}

	sink.blits = nil
	n, _ := e.Update(g.Cells(), pal, sink)
	if n != 0 || len(sink.blits) != 0 {
		t.Fatalf("unchanged grid blitted %d cells", n)
	}
	if sink.presents != 2 {
		t.Errorf("every update must present, got %d", sink.presents)
	}

	g.PrintSymbol(2, 3, 'Z', 14, 1)
	n, _ = e.Update(g.Cells(), pal, sink)
	if n != 1 {
		t.Fatalf("blits = %d, want 1", n)
	}
	want := blit{2, 3, 'Z', pal.Resolved(14), pal.Resolved(1)}
	if sink.blits[0] != want {
		t.Errorf("blit = %+v, want %+v", sink.blits[0], want)
	}
}

func TestDiffEngineInvalidateRedrawsEveryCellOnce(t *testing.T) {
	g, _ := grid.New(7, 5)
	pal := palette.New()
	e := NewDiffEngine(7, 5)
	sink := &recordingSink{}
	e.Update(g.Cells(), pal, sink)

	sink.blits = nil
	e.Invalidate()
	n, err := e.Update(g.Cells(), pal, sink)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if n != 35 {
		t.Fatalf("blits = %d, want 35", n)
	}
	seen := make(map[[2]int]int)
	for _, b := range sink.blits {
		seen[[2]int{b.col, b.row}]++
	}
	if len(seen) != 35 {
		t.Errorf("distinct cells = %d, want 35", len(seen))
	}
	for pos, count := range seen {
		if count != 1 {
			t.Errorf("cell %v blitted %d times", pos, count)
		}
	}
}

func TestDiffEnginePaletteChange(t *testing.T) {
	g, _ := grid.New(3, 1)
	g.PrintSymbol(0, 0, 'a', 2, 0)
	g.PrintSymbol(1, 0, 'b', 3, 0)
	g.PrintSymbol(2, 0, 'c', 4, 0)
	pal := palette.New()
	e := NewDiffEngine(3, 1)
	sink := &recordingSink{}
	e.Update(g.Cells(), pal, sink)

	sink.blits = nil
	pal.Set(3, 0x123456)
	n, _ := e.Update(g.Cells(), pal, sink)
	if n != 1 || sink.blits[0].col != 1 {
		t.Fatalf("palette change redrew %d cells: %+v", n, sink.blits)
	}

	sink.blits = nil
	pal.SetGamma(2)
	n, _ = e.Update(g.Cells(), pal, sink)
	// background 0 is black and stays black; every foreground changes
	if n != 3 {
		t.Errorf("gamma change redrew %d cells, want 3", n)
	}
}

func TestDiffEngineErrors(t *testing.T) {
	e := NewDiffEngine(2, 2)
	pal := palette.New()
	sink := &recordingSink{}
	if _, err := e.Update(make([]grid.Cell, 3), pal, sink); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}

	presentErr := errors.New("present failed")
	sink.err = presentErr
	if _, err := e.Update(make([]grid.Cell, 4), pal, sink); !errors.Is(err, presentErr) {
		t.Errorf("got %v, want the present error", err)
	}
}

func TestCanvas(t *testing.T) {
	if _, err := NewCanvas(2, 2, nil); !errors.Is(err, ErrNilFont) {
		t.Errorf("nil font: got %v", err)
	}
	f := testFont(t, 6, 3)
	c, err := NewCanvas(4, 2, f)
	if err != nil {
		t.Fatal(err)
	}
	if c.FB.Width != 24 || c.FB.Height != 6 {
		t.Fatalf("framebuffer %dx%d, want 24x6", c.FB.Width, c.FB.Height)
	}

	g, _ := grid.New(4, 2)
	g.Fill(grid.MakeCell(0x3F, 15, 4))
	e := NewDiffEngine(4, 2)
	if _, err := e.Update(g.Cells(), palette.New(), c); err != nil {
		t.Fatal(err)
	}
	// glyph 0x3F row 0 in a 6 pixel font: 0b00111111 -> pixels 2..5 set
	if got := c.FB.At(6+2, 3); got != 0xFFFFFFFF {
		t.Errorf("pixel = 0x%08X, want white", got)
	}
	if got := c.FB.At(6, 3); got != 0xFF000080 {
		t.Errorf("pixel = 0x%08X, want navy background", got)
	}
}

func TestPooledFramebuffers(t *testing.T) {
	fb := NewFramebuffer(40, 30)
	fb.Set(3, 4, 0xFF123456)

	c := fb.Clone()
	if c.Width != 40 || c.Height != 30 || c.Stride != 160 {
		t.Fatalf("clone is %dx%d stride %d", c.Width, c.Height, c.Stride)
	}
	if got := c.At(3, 4); got != 0xFF123456 {
		t.Errorf("cloned pixel = 0x%08X", got)
	}
	fb.Set(3, 4, 0xFF000000)
	if got := c.At(3, 4); got != 0xFF123456 {
		t.Error("clone shares pixels with the original")
	}

	ReleaseFramebuffer(c)
	if c.Pix != nil {
		t.Error("released framebuffer still holds pixels")
	}

	// reused buffers come back zeroed
	again := AcquireFramebuffer(40, 30)
	for i, b := range again.Pix {
		if b != 0 {
			t.Fatalf("acquired pixel byte %d = %d, want 0", i, b)
		}
	}
	ReleaseFramebuffer(again)
	ReleaseFramebuffer(nil)
}

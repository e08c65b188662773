package grid

import (
	"errors"
	"testing"

	"github.com/ryanlewis/retrocon/internal/common"
)

func newGrid(t *testing.T, cols, rows int) *Grid {
	t.Helper()
	g, err := New(cols, rows)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", cols, rows, err)
	}
	return g
}

// fillSequential gives every cell a distinct glyph so moves are observable.
func fillSequential(g *Grid) {
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			g.SetCell(x, y, MakeCell('A'+y*g.Cols()+x, 7, 1))
		}
	}
}

func TestNewInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := New(size[0], size[1]); err == nil {
			t.Errorf("New(%d, %d) should fail", size[0], size[1])
		}
	}
}

func TestMakeCell(t *testing.T) {
	c := MakeCell(0x1C4, 0x10F, 0x2AB)
	if c != 0xAB0FC4 {
		t.Fatalf("MakeCell = 0x%06X, want 0xAB0FC4", uint32(c))
	}
	if c.Glyph() != 0xC4 || c.Fg() != 0x0F || c.Bg() != 0xAB {
		t.Errorf("fields = %02X/%02X/%02X", c.Glyph(), c.Fg(), c.Bg())
	}
	if got := c.WithColors(1, 2); got != 0x0201C4 {
		t.Errorf("WithColors = 0x%06X", uint32(got))
	}
}

func TestSetGetCellMasks(t *testing.T) {
	g := newGrid(t, 8, 4)
	values := []Cell{0, 0x123456, 0xFF123456, 0xFFFFFFFF, 32}
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			for _, v := range values {
				g.SetCell(x, y, v)
				if got := g.Cell(x, y); got != v&0xFFFFFF {
					t.Fatalf("(%d,%d) set 0x%X got 0x%X", x, y, uint32(v), uint32(got))
				}
			}
		}
	}
}

func TestClampOutOfRange(t *testing.T) {
	g := newGrid(t, 5, 3)
	fillSequential(g)

	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"left", -1, 1, 0, 1},
		{"far left", -100, 2, 0, 2},
		{"right", 5, 0, 4, 0},
		{"top", 3, -7, 3, 0},
		{"bottom", 2, 3, 2, 2},
		{"top-left", -1, -1, 0, 0},
		{"bottom-right", 99, 99, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := g.Cell(tt.x, tt.y), g.Cell(tt.wantX, tt.wantY); got != want {
				t.Errorf("Cell(%d,%d) = 0x%X, want clamped 0x%X", tt.x, tt.y, uint32(got), uint32(want))
			}
			g.SetCell(tt.x, tt.y, 0xABCDEF)
			if got := g.Cell(tt.wantX, tt.wantY); got != 0xABCDEF {
				t.Errorf("SetCell(%d,%d) did not land on (%d,%d)", tt.x, tt.y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestClearUsesDefaultColors(t *testing.T) {
	g := newGrid(t, 4, 2)
	fillSequential(g)
	g.SetDefaultColors(7, 1)
	g.Clear()
	want := MakeCell(common.SpaceGlyph, 7, 1)
	for i, c := range g.Cells() {
		if c != want {
			t.Fatalf("cell %d = 0x%X, want 0x%X", i, uint32(c), uint32(want))
		}
	}
}

func TestPrintSymbolsWraps(t *testing.T) {
	g := newGrid(t, 4, 3)
	g.PrintSymbols(2, 0, []byte("abcdef"), 1, 2)

	want := map[[2]int]byte{
		{2, 0}: 'a', {3, 0}: 'b',
		{0, 1}: 'c', {1, 1}: 'd', {2, 1}: 'e', {3, 1}: 'f',
	}
	for pos, glyph := range want {
		c := g.Cell(pos[0], pos[1])
		if c.Glyph() != glyph || c.Fg() != 1 || c.Bg() != 2 {
			t.Errorf("cell %v = 0x%06X, want glyph %q fg 1 bg 2", pos, uint32(c), glyph)
		}
	}
	if g.Cell(1, 0).Glyph() != common.SpaceGlyph {
		t.Error("cells before the start position should be untouched")
	}
}

func TestPrintSymbolsPinsAtLastCell(t *testing.T) {
	g := newGrid(t, 3, 2)
	g.PrintSymbols(1, 1, []byte("xyz"), 0, 0)

	if g.Cell(1, 1).Glyph() != 'x' {
		t.Errorf("(1,1) = %q, want 'x'", g.Cell(1, 1).Glyph())
	}
	if g.Cell(2, 1).Glyph() != 'z' {
		t.Errorf("last cell = %q, want 'z' (pinned)", g.Cell(2, 1).Glyph())
	}
	if g.Cell(0, 0).Glyph() != common.SpaceGlyph {
		t.Error("printing must not wrap back to the top")
	}
}

func TestPrintSymbolsClampsStart(t *testing.T) {
	g := newGrid(t, 3, 2)
	g.PrintSymbols(-5, 10, []byte("q"), 0, 0)
	if g.Cell(0, 1).Glyph() != 'q' {
		t.Error("start position should clamp to (0, rows-1)")
	}
}

func TestFillRectClips(t *testing.T) {
	g := newGrid(t, 4, 4)
	v := MakeCell('#', 3, 4)
	g.FillRect(Rect{X: 2, Y: -1, W: 10, H: 3}, v)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 2 && y <= 1
			if got := g.Cell(x, y) == v; got != inside {
				t.Errorf("(%d,%d) filled = %v, want %v", x, y, got, inside)
			}
		}
	}

	before := append([]Cell(nil), g.Cells()...)
	g.FillRect(Rect{X: 10, Y: 10, W: 2, H: 2}, 0)
	g.FillRect(Rect{X: 0, Y: 0, W: 0, H: 3}, 0)
	for i, c := range g.Cells() {
		if c != before[i] {
			t.Fatal("empty rectangles must not change the grid")
		}
	}
}

func TestFillWholeGrid(t *testing.T) {
	g := newGrid(t, 3, 3)
	g.Fill(0xFF000041)
	for i, c := range g.Cells() {
		if c != 0x000041 {
			t.Fatalf("cell %d = 0x%X", i, uint32(c))
		}
	}
}

func TestColorizeKeepsGlyphs(t *testing.T) {
	g := newGrid(t, 4, 2)
	fillSequential(g)
	before := append([]Cell(nil), g.Cells()...)
	g.Colorize(Rect{X: 1, Y: 0, W: 2, H: 2}, 9, 10)

	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := g.Cell(x, y)
			old := before[y*4+x]
			if c.Glyph() != old.Glyph() {
				t.Errorf("(%d,%d) glyph changed", x, y)
			}
			inside := x == 1 || x == 2
			if inside && (c.Fg() != 9 || c.Bg() != 10) {
				t.Errorf("(%d,%d) colors = %d/%d, want 9/10", x, y, c.Fg(), c.Bg())
			}
			if !inside && c != old {
				t.Errorf("(%d,%d) outside the rectangle changed", x, y)
			}
		}
	}
}

func TestScreenBuffers(t *testing.T) {
	g := newGrid(t, 3, 2)
	fillSequential(g)
	saved := append([]Cell(nil), g.Cells()...)

	h := g.CreateBuffer()
	if h != 0 || g.Buffers() != 1 {
		t.Fatalf("first handle = %d, buffers = %d", h, g.Buffers())
	}
	g.Clear()
	if err := g.Restore(h); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	for i, c := range g.Cells() {
		if c != saved[i] {
			t.Fatalf("restored cell %d = 0x%X, want 0x%X", i, uint32(c), uint32(saved[i]))
		}
	}

	g.SetCell(0, 0, MakeCell('!', 1, 1))
	if err := g.Capture(h); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	g.Clear()
	if err := g.Restore(h); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if g.Cell(0, 0).Glyph() != '!' {
		t.Error("Capture should overwrite the buffer")
	}

	h2 := g.CreateBuffer()
	if h2 != 1 {
		t.Errorf("second handle = %d, want 1", h2)
	}

	for _, bad := range []int{-1, 2, 100} {
		if err := g.Capture(bad); !errors.Is(err, common.ErrNoSuchBuffer) {
			t.Errorf("Capture(%d) = %v, want ErrNoSuchBuffer", bad, err)
		}
		if err := g.Restore(bad); !errors.Is(err, common.ErrNoSuchBuffer) {
			t.Errorf("Restore(%d) = %v, want ErrNoSuchBuffer", bad, err)
		}
	}
}

func TestLoad(t *testing.T) {
	g := newGrid(t, 2, 2)
	if err := g.Load([]Cell{1, 2, 3, 0xFF000004}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if g.Cell(1, 1) != 4 {
		t.Errorf("Load should mask cells, got 0x%X", uint32(g.Cell(1, 1)))
	}
	if err := g.Load([]Cell{1}); err == nil {
		t.Error("Load with wrong length should fail")
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"inside", Rect{1, 1, 2, 2}, Rect{0, 0, 10, 10}, Rect{1, 1, 2, 2}},
		{"overlap", Rect{-2, -2, 5, 5}, Rect{0, 0, 10, 10}, Rect{0, 0, 3, 3}},
		{"disjoint", Rect{20, 20, 2, 2}, Rect{0, 0, 10, 10}, Rect{}},
		{"touching", Rect{10, 0, 2, 2}, Rect{0, 0, 10, 10}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

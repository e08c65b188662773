package grid

import (
	"fmt"
	"strings"
)

// Direction is one of the eight scroll directions.
type Direction int

// Scroll directions, clockwise from north.
const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts a compass name such as "N" or "sw" to a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Scroll shifts the contents of r one cell in direction d. The vacated edge
// is filled with the blank cell. Diagonal scrolls are a vertical scroll
// followed by a horizontal one.
func (g *Grid) Scroll(r Rect, d Direction) {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return
	}
	switch d {
	case N, S, E, W:
		g.scrollCardinal(r, d)
	case NE:
		g.scrollCardinal(r, N)
		g.scrollCardinal(r, E)
	case SE:
		g.scrollCardinal(r, S)
		g.scrollCardinal(r, E)
	case SW:
		g.scrollCardinal(r, S)
		g.scrollCardinal(r, W)
	case NW:
		g.scrollCardinal(r, N)
		g.scrollCardinal(r, W)
	}
}

// scrollCardinal expects r to be clipped already.
func (g *Grid) scrollCardinal(r Rect, d Direction) {
	c := g.cols
	at := func(x, y int) int { return (r.Y+y)*c + r.X + x }

	switch d {
	case N:
		for y := 0; y < r.H-1; y++ {
			copy(g.cells[at(0, y):at(r.W, y)], g.cells[at(0, y+1):at(r.W, y+1)])
		}
		g.fillRow(at(0, r.H-1), r.W)
	case S:
		for y := r.H - 1; y > 0; y-- {
			copy(g.cells[at(0, y):at(r.W, y)], g.cells[at(0, y-1):at(r.W, y-1)])
		}
		g.fillRow(at(0, 0), r.W)
	case E:
		for y := 0; y < r.H; y++ {
			copy(g.cells[at(1, y):at(r.W, y)], g.cells[at(0, y):at(r.W-1, y)])
			g.cells[at(0, y)] = g.blank
		}
	case W:
		for y := 0; y < r.H; y++ {
			copy(g.cells[at(0, y):at(r.W-1, y)], g.cells[at(1, y):at(r.W, y)])
			g.cells[at(r.W-1, y)] = g.blank
		}
	}
}

func (g *Grid) fillRow(start, n int) {
	for i := start; i < start+n; i++ {
		g.cells[i] = g.blank
	}
}

// Package palette holds the 256 entry console color table together with its
// gamma corrected pixel values.
package palette

import (
	"math"

	"github.com/ryanlewis/retrocon/internal/common"
)

const (
	// Size is the number of palette entries
	Size = common.PaletteSize
	// MinGamma and MaxGamma bound SetGamma
	MinGamma = 0.01
	MaxGamma = 3.0
	// opaque is the alpha channel forced onto every resolved color
	opaque = 0xFF000000
)

// standard holds the 16 classic console colors, repeated across the table.
var standard = [16]uint32{
	0x000000, 0x800000, 0x008000, 0x808000,
	0x000080, 0x800080, 0x008080, 0xC0C0C0,
	0x808080, 0xFF0000, 0x00FF00, 0xFFFF00,
	0x0000FF, 0xFF00FF, 0x00FFFF, 0xFFFFFF,
}

// Standard returns the default raw color of index i.
func Standard(i int) uint32 {
	return standard[i&15]
}

// Table stores raw colors as set by the caller and the derived, gamma
// corrected 0xAARRGGBB values used for rendering.
type Table struct {
	raw      [Size]uint32
	resolved [Size]uint32
	gamma    float64
	exponent float64
}

// New returns a table holding the standard colors at gamma 1.
func New() *Table {
	t := &Table{gamma: 1, exponent: 1}
	t.Reset()
	return t
}

// Reset restores the standard colors, keeping the current gamma.
func (t *Table) Reset() {
	for i := range t.raw {
		t.Set(i, Standard(i))
	}
}

// Set stores rgb (0xRRGGBB) at index&255 and recomputes its resolved value.
func (t *Table) Set(index int, rgb uint32) {
	i := index & (Size - 1)
	t.raw[i] = rgb & 0xFFFFFF
	t.resolved[i] = t.correct(t.raw[i])
}

// Get returns the raw color at index&255.
func (t *Table) Get(index int) uint32 {
	return t.raw[index&(Size-1)]
}

// Resolved returns the gamma corrected, opaque color at index&255.
func (t *Table) Resolved(index int) uint32 {
	return t.resolved[index&(Size-1)]
}

// Raw returns a copy of all raw colors.
func (t *Table) Raw() [Size]uint32 {
	return t.raw
}

// Load replaces all raw colors.
func (t *Table) Load(raw [Size]uint32) {
	for i, c := range raw {
		t.Set(i, c)
	}
}

// Gamma returns the current, clamped gamma value.
func (t *Table) Gamma() float64 {
	return t.gamma
}

// SetGamma clamps g to [MinGamma, MaxGamma] and recomputes every resolved
// color from its raw value.
func (t *Table) SetGamma(g float64) {
	if math.IsNaN(g) {
		g = 1
	}
	g = min(max(g, MinGamma), MaxGamma)
	t.gamma = g
	t.exponent = 1 / g
	for i := range t.raw {
		t.resolved[i] = t.correct(t.raw[i])
	}
}

func (t *Table) correct(rgb uint32) uint32 {
	r := Channel(rgb>>16&0xFF, t.exponent)
	g := Channel(rgb>>8&0xFF, t.exponent)
	b := Channel(rgb&0xFF, t.exponent)
	return opaque | r<<16 | g<<8 | b
}

// Channel applies round(255 * (c/255)^exponent) to a single 8 bit channel.
func Channel(c uint32, exponent float64) uint32 {
	return uint32(math.Round(255 * math.Pow(float64(c&0xFF)/255, exponent)))
}

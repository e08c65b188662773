// Package codepage maps between the 256 symbols of code page 850 and runes.
package codepage

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Placeholder is the symbol returned for runes outside the code page ('?').
const Placeholder byte = '?'

// Table is an immutable bidirectional symbol/rune mapping.
// A Table is safe for concurrent use.
type Table struct {
	runes   [256]rune
	symbols map[rune]byte
}

// cp850 is built once at package initialisation and never modified.
var cp850 = newTable(charmap.CodePage850.DecodeByte)

// CP850 returns the shared code page 850 table.
func CP850() *Table {
	return cp850
}

// newTable inverts a symbol->rune decoder. When two symbols decode to the
// same rune the lowest symbol wins.
func newTable(decode func(byte) rune) *Table {
	t := &Table{symbols: make(map[rune]byte, 256)}
	for i := 255; i >= 0; i-- {
		r := decode(byte(i))
		t.runes[i] = r
		t.symbols[r] = byte(i)
	}
	return t
}

// Symbol returns the code page symbol for r, or Placeholder if r is unmapped.
func (t *Table) Symbol(r rune) byte {
	if b, ok := t.symbols[r]; ok {
		return b
	}
	return Placeholder
}

// Lookup reports the symbol for r and whether r is mapped at all.
func (t *Table) Lookup(r rune) (byte, bool) {
	b, ok := t.symbols[r]
	return b, ok
}

// Rune returns the rune drawn by symbol b.
func (t *Table) Rune(b byte) rune {
	return t.runes[b]
}

// EncodeString converts s to code page symbols, one per rune.
func (t *Table) EncodeString(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, t.Symbol(r))
	}
	return out
}

// DecodeBytes converts code page symbols back to a string.
func (t *Table) DecodeBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(t.runes[c])
	}
	return sb.String()
}

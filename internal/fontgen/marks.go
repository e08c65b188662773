package fontgen

import "image"

// mark is a small bitmap stamped onto a 7x13 source glyph.
type mark struct {
	top  int
	rows []string
}

var (
	markGrave      = mark{0, []string{".#...", "..#.."}}
	markAcute      = mark{0, []string{"...#.", "..#.."}}
	markCircumflex = mark{0, []string{"..#..", ".#.#."}}
	markTilde      = mark{0, []string{".##.#", "#..#."}}
	markMacron     = mark{1, []string{"#####"}}
	markDiaeresis  = mark{1, []string{".#.#."}}
	markRing       = mark{0, []string{"..#..", ".#.#."}}
	markCedilla    = mark{11, []string{"..#..", ".#..."}}
)

// combining maps the combining characters found in NFKD output to marks.
var combining = map[rune]mark{
	'\u0300': markGrave,
	'\u0301': markAcute,
	'\u0302': markCircumflex,
	'\u0303': markTilde,
	'\u0304': markMacron,
	'\u0308': markDiaeresis,
	'\u030a': markRing,
	'\u0327': markCedilla,
}

type substitute struct {
	base rune
	flip bool
}

// substitutes covers codepage letters and signs without a decomposition.
var substitutes = map[rune]substitute{
	'æ': {base: 'a'}, 'Æ': {base: 'E'},
	'ø': {base: 'o'}, 'Ø': {base: 'O'},
	'ð': {base: 'd'}, 'Ð': {base: 'D'},
	'þ': {base: 'p'}, 'Þ': {base: 'P'},
	'ß': {base: 'B'}, 'µ': {base: 'u'},
	'ı': {base: 'i'}, 'ƒ': {base: 'f'},
	'£': {base: 'L'}, '¢': {base: 'c'},
	'¥': {base: 'Y'}, '¤': {base: 'o'},
	'©': {base: 'C'}, '®': {base: 'R'},
	'§': {base: 'S'}, '¶': {base: 'P'},
	'«': {base: '<'}, '»': {base: '>'},
	'¬': {base: '-'}, '\u00ad': {base: '-'},
	'±': {base: '+'}, '÷': {base: '/'},
	'×': {base: 'x'}, '°': {base: 'o'},
	'·': {base: '.'}, '¦': {base: '|'},
	'‗': {base: '='},
	'¿': {base: '?', flip: true},
	'¡': {base: '!', flip: true},
}

// stamp draws m onto img, centred on the glyph's inked columns.
func stamp(img *image.Alpha, m mark) {
	left := (face.Width - len(m.rows[0])) / 2
	for dy, row := range m.rows {
		for dx, c := range row {
			if c == '#' {
				set(img, left+dx, m.top+dy)
			}
		}
	}
}

package retrocon

import (
	"fmt"
	"strings"
)

// Charset names one of the standard codepage 850 console fonts by its cell
// size in pixels.
type Charset int

// Standard charsets.
const (
	Charset4x6 Charset = iota
	Charset5x12
	Charset6x8
	Charset7x12
	Charset8x8
	Charset8x12
	Charset8x16
	Charset10x18
	Charset12x16
	Charset16x8
	Charset16x12
)

// DefaultCharset is used when no charset option is given.
const DefaultCharset = Charset8x12

var charsetSizes = [...][2]int{
	{4, 6}, {5, 12}, {6, 8}, {7, 12}, {8, 8}, {8, 12},
	{8, 16}, {10, 18}, {12, 16}, {16, 8}, {16, 12},
}

// Charsets returns every standard charset, smallest width first.
func Charsets() []Charset {
	all := make([]Charset, len(charsetSizes))
	for i := range all {
		all[i] = Charset(i)
	}
	return all
}

func (c Charset) valid() bool {
	return c >= 0 && int(c) < len(charsetSizes)
}

// Size returns the glyph width and height in pixels.
func (c Charset) Size() (width, height int) {
	if !c.valid() {
		return 0, 0
	}
	return charsetSizes[c][0], charsetSizes[c][1]
}

// String returns the "WxH" form, e.g. "8x12".
func (c Charset) String() string {
	if !c.valid() {
		return fmt.Sprintf("Charset(%d)", int(c))
	}
	w, h := c.Size()
	return fmt.Sprintf("%dx%d", w, h)
}

// ResourceName returns the font resource the charset is loaded from,
// e.g. "chars_8x12.bin".
func (c Charset) ResourceName() string {
	return "chars_" + c.String() + ".bin"
}

// ParseCharset accepts "8x12", "chars_8x12", "chars_8x12.bin" or
// "CHARS_8x12" in any case.
func ParseCharset(s string) (Charset, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, ".bin")
	name = strings.TrimPrefix(name, "chars_")
	for _, c := range Charsets() {
		if name == c.String() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCharset, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Charset) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCharset, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Charset) UnmarshalText(text []byte) error {
	parsed, err := ParseCharset(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Package glyphfont implements the packed 256-glyph bitmap font format.
//
// A font resource is a two byte header (glyph width, glyph height) followed by
// height*256 rows. Every row is ceil(width/8) bytes, big-endian, with the most
// significant bit of the first byte being the leftmost pixel. Rows are stored
// glyph by glyph: all rows of glyph 0, then glyph 1, and so on.
package glyphfont

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ryanlewis/retrocon/internal/common"
)

const (
	// headerSize is the number of bytes before the glyph rows
	headerSize = 2
	// maxWidth is the widest glyph a uint32 row can hold
	maxWidth = 32
	// maxHeight is the tallest glyph the one byte header can describe
	maxHeight = 255
	// glyphCount is the number of glyphs in every font
	glyphCount = common.GlyphCount
)

// ErrBadFontFormat is returned when font data has an invalid structure.
var ErrBadFontFormat = common.ErrBadFontFormat

// Font is an immutable bitmap font. It is safe for concurrent use.
type Font struct {
	width  int
	height int
	stride int
	// rows holds height words per glyph; the leftmost pixel is Mask()
	rows []uint32
}

// Parse reads a font from r. It never returns a partially built font.
func Parse(r io.Reader) (*Font, error) {
	br := bufio.NewReader(r)

	var header [headerSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, truncated("header", err)
	}

	width, height := int(header[0]), int(header[1])
	if err := validateSize(width, height); err != nil {
		return nil, err
	}

	stride := strideFor(width)
	rows := make([]uint32, height*glyphCount)
	buf := make([]byte, stride)
	for i := range rows {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, truncated(fmt.Sprintf("glyph %d row %d", i/height, i%height), err)
		}
		var v uint32
		for _, b := range buf {
			v = v<<8 | uint32(b)
		}
		rows[i] = v
	}

	return &Font{width: width, height: height, stride: stride, rows: rows}, nil
}

// New builds a font from height*256 packed rows laid out like the resource
// format. The rows slice is copied.
func New(width, height int, rows []uint32) (*Font, error) {
	if err := validateSize(width, height); err != nil {
		return nil, err
	}
	if len(rows) != height*glyphCount {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrBadFontFormat, height*glyphCount, len(rows))
	}
	stride := strideFor(width)
	f := &Font{width: width, height: height, stride: stride, rows: make([]uint32, len(rows))}
	limit := uint64(1)<<(uint(stride)*8) - 1
	for i, v := range rows {
		f.rows[i] = uint32(uint64(v) & limit)
	}
	return f, nil
}

// Encode writes the font in the resource format.
func (f *Font) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := bw.WriteByte(byte(f.width)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(f.height)); err != nil {
		return err
	}
	buf := make([]byte, f.stride)
	for _, v := range f.rows {
		for i := f.stride - 1; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Width returns the glyph width in pixels.
func (f *Font) Width() int { return f.width }

// Height returns the glyph height in pixels.
func (f *Font) Height() int { return f.height }

// Stride returns the number of bytes per encoded glyph row.
func (f *Font) Stride() int { return f.stride }

// Mask returns the bit for the leftmost pixel of a row.
func (f *Font) Mask() uint32 {
	return 1 << (uint(f.stride)*8 - 1)
}

// Row returns the packed bits of one glyph row. Out of range rows are blank.
func (f *Font) Row(glyph byte, row int) uint32 {
	if row < 0 || row >= f.height {
		return 0
	}
	return f.rows[int(glyph)*f.height+row]
}

// Pixel reports whether pixel (x, y) of glyph is set.
func (f *Font) Pixel(glyph byte, x, y int) bool {
	if x < 0 || x >= f.width {
		return false
	}
	return f.Row(glyph, y)&(f.Mask()>>uint(x)) != 0
}

func validateSize(width, height int) error {
	if width < 1 || width > maxWidth {
		return fmt.Errorf("%w: glyph width %d out of range 1-%d", ErrBadFontFormat, width, maxWidth)
	}
	if height < 1 || height > maxHeight {
		return fmt.Errorf("%w: glyph height %d out of range 1-%d", ErrBadFontFormat, height, maxHeight)
	}
	return nil
}

func strideFor(width int) int {
	return (width + 7) / 8
}

// truncated normalises short reads so callers can test for io.ErrUnexpectedEOF.
func truncated(where string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: truncated %s: %w", ErrBadFontFormat, where, err)
}

// Package snapshot reads and writes console screen snapshots.
//
// Layout, all fields big-endian:
//
//	u32 magic 0xDEADAFFE
//	u64 timestamp
//	u16 columns
//	u16 rows
//	256 x u24 raw palette colors
//	columns*rows x u24 cells, row-major
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ryanlewis/retrocon/internal/common"
	"github.com/ryanlewis/retrocon/internal/grid"
)

// Magic starts every snapshot.
const Magic uint32 = 0xDEADAFFE

const (
	// headerSize is magic + timestamp + columns + rows
	headerSize = 4 + 8 + 2 + 2
	// PaletteBytes is the size of the palette section
	PaletteBytes = common.PaletteSize * 3
)

// Errors returned by Decode.
var (
	ErrBadSnapshot       = common.ErrBadSnapshot
	ErrBadMagic          = common.ErrBadMagic
	ErrDimensionMismatch = common.ErrDimensionMismatch
)

// Snapshot is a decoded screen with its palette.
type Snapshot struct {
	Timestamp uint64
	Cols      int
	Rows      int
	Palette   [common.PaletteSize]uint32
	Cells     []grid.Cell
}

// Header is the fixed part of a snapshot.
type Header struct {
	Timestamp uint64
	Cols      int
	Rows      int
}

// Encode writes s. len(s.Cells) must equal s.Cols*s.Rows.
func Encode(w io.Writer, s *Snapshot) error {
	if s.Cols < 1 || s.Rows < 1 || s.Cols > 0xFFFF || s.Rows > 0xFFFF {
		return fmt.Errorf("snapshot size %dx%d out of range", s.Cols, s.Rows)
	}
	if len(s.Cells) != s.Cols*s.Rows {
		return fmt.Errorf("snapshot has %d cells, want %d", len(s.Cells), s.Cols*s.Rows)
	}

	bw := bufio.NewWriter(w)
	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[0:], Magic)
	binary.BigEndian.PutUint64(hdr[4:], s.Timestamp)
	binary.BigEndian.PutUint16(hdr[12:], uint16(s.Cols))
	binary.BigEndian.PutUint16(hdr[14:], uint16(s.Rows))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	if err := writeU24s(bw, s.Palette[:]); err != nil {
		return err
	}
	for _, c := range s.Cells {
		if err := writeU24(bw, uint32(c)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a complete snapshot of any size.
func Decode(r io.Reader) (*Snapshot, error) {
	return decode(r, 0, 0)
}

// DecodeFor reads a snapshot and fails with ErrDimensionMismatch, before
// reading any cell, when it was not taken from a cols x rows grid.
func DecodeFor(r io.Reader, cols, rows int) (*Snapshot, error) {
	return decode(r, cols, rows)
}

func decode(r io.Reader, cols, rows int) (*Snapshot, error) {
	br := bufio.NewReader(r)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if cols > 0 && (h.Cols != cols || h.Rows != rows) {
		return nil, fmt.Errorf("%w: snapshot is %dx%d, grid is %dx%d",
			ErrDimensionMismatch, h.Cols, h.Rows, cols, rows)
	}

	s := &Snapshot{Timestamp: h.Timestamp, Cols: h.Cols, Rows: h.Rows}
	if err := readU24s(br, s.Palette[:], "palette"); err != nil {
		return nil, err
	}
	cells := make([]uint32, h.Cols*h.Rows)
	if err := readU24s(br, cells, "cells"); err != nil {
		return nil, err
	}
	s.Cells = make([]grid.Cell, len(cells))
	for i, c := range cells {
		s.Cells[i] = grid.Cell(c)
	}
	return s, nil
}

// ReadHeader reads and validates the fixed header.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Header{}, truncated("header", err)
	}
	if m := binary.BigEndian.Uint32(hdr[0:]); m != Magic {
		return Header{}, fmt.Errorf("%w: got 0x%08X", ErrBadMagic, m)
	}
	h := Header{
		Timestamp: binary.BigEndian.Uint64(hdr[4:]),
		Cols:      int(binary.BigEndian.Uint16(hdr[12:])),
		Rows:      int(binary.BigEndian.Uint16(hdr[14:])),
	}
	if h.Cols == 0 || h.Rows == 0 {
		return Header{}, fmt.Errorf("%w: empty %dx%d grid", ErrBadSnapshot, h.Cols, h.Rows)
	}
	return h, nil
}

// ReadPalette reads 256 u24 colors, the layout of palette files.
func ReadPalette(r io.Reader) ([common.PaletteSize]uint32, error) {
	var pal [common.PaletteSize]uint32
	err := readU24s(bufio.NewReader(r), pal[:], "palette")
	return pal, err
}

// WritePalette writes 256 u24 colors.
func WritePalette(w io.Writer, pal [common.PaletteSize]uint32) error {
	bw := bufio.NewWriter(w)
	if err := writeU24s(bw, pal[:]); err != nil {
		return err
	}
	return bw.Flush()
}

func readU24s(r io.Reader, dst []uint32, section string) error {
	var b [3]byte
	for i := range dst {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return truncated(section, err)
		}
		dst[i] = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	}
	return nil
}

func writeU24s(w *bufio.Writer, src []uint32) error {
	for _, v := range src {
		if err := writeU24(w, v); err != nil {
			return err
		}
	}
	return nil
}

func writeU24(w *bufio.Writer, v uint32) error {
	_, err := w.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
	return err
}

func truncated(section string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: truncated %s: %w", ErrBadSnapshot, section, err)
}

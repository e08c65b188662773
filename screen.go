package retrocon

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ryanlewis/retrocon/internal/debug"
	"github.com/ryanlewis/retrocon/internal/snapshot"
)

// LoadScreen replaces the screen, and unless skipPalette the palette, with a
// snapshot read from r. The snapshot must come from a grid of the same size.
//
// The snapshot is decoded completely before anything is changed, so on error
// the screen and palette are exactly as they were. Errors wrap ErrBadMagic,
// ErrDimensionMismatch or ErrBadSnapshot (and io.ErrUnexpectedEOF for
// truncated data).
func (c *Console) LoadScreen(r io.Reader, skipPalette bool) error {
	s, err := snapshot.DecodeFor(r, c.grid.Cols(), c.grid.Rows())
	if err != nil {
		c.emitError("snapshot", err)
		return fmt.Errorf("failed to load screen: %w", err)
	}
	if err := c.grid.Load(s.Cells); err != nil {
		return fmt.Errorf("failed to load screen: %w", err)
	}
	if !skipPalette {
		c.pal.Load(s.Palette)
	}

	if c.session != nil {
		c.session.Emit("snapshot", "Load", debug.SnapshotData{
			Op:          "load",
			Columns:     s.Cols,
			Rows:        s.Rows,
			Timestamp:   s.Timestamp,
			SkipPalette: skipPalette,
		})
	}
	return nil
}

// SaveScreen writes the screen and the raw palette to w, stamped with the
// current time in nanoseconds.
func (c *Console) SaveScreen(w io.Writer) error {
	return c.saveScreen(w, uint64(c.clock().UnixNano()), "")
}

func (c *Console) saveScreen(w io.Writer, timestamp uint64, path string) error {
	s := &snapshot.Snapshot{
		Timestamp: timestamp,
		Cols:      c.grid.Cols(),
		Rows:      c.grid.Rows(),
		Palette:   c.pal.Raw(),
		Cells:     c.grid.Cells(),
	}
	if err := snapshot.Encode(w, s); err != nil {
		return fmt.Errorf("failed to save screen: %w", err)
	}

	if c.session != nil {
		c.session.Emit("snapshot", "Save", debug.SnapshotData{
			Op:        "save",
			Columns:   s.Cols,
			Rows:      s.Rows,
			Timestamp: timestamp,
			Path:      path,
		})
	}
	return nil
}

// LoadScreenFile is LoadScreen reading from a file.
func (c *Console) LoadScreenFile(path string, skipPalette bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open screen file: %w", err)
	}
	defer f.Close()
	return c.LoadScreen(f, skipPalette)
}

// SaveScreenFile is SaveScreen writing to a new or truncated file.
func (c *Console) SaveScreenFile(path string) error {
	return c.saveScreenFile(path, uint64(c.clock().UnixNano()))
}

func (c *Console) saveScreenFile(path string, timestamp uint64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screen file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close screen file: %w", cerr)
		}
	}()
	return c.saveScreen(f, timestamp, path)
}

// LoadPalette reads 256 raw 0xRRGGBB colors, three bytes each, from r. On
// error the palette is unchanged.
func (c *Console) LoadPalette(r io.Reader) error {
	pal, err := snapshot.ReadPalette(r)
	if err != nil {
		return fmt.Errorf("failed to load palette: %w", err)
	}
	c.pal.Load(pal)
	return nil
}

// LoadPaletteFile is LoadPalette reading from a file.
func (c *Console) LoadPaletteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open palette file: %w", err)
	}
	defer f.Close()
	return c.LoadPalette(f)
}

// SavePalette writes the raw palette in the LoadPalette format.
func (c *Console) SavePalette(w io.Writer) error {
	if err := snapshot.WritePalette(w, c.pal.Raw()); err != nil {
		return fmt.Errorf("failed to save palette: %w", err)
	}
	return nil
}

// IsSnapshotError reports whether err came from malformed snapshot or
// palette data rather than from I/O.
func IsSnapshotError(err error) bool {
	return errors.Is(err, ErrBadSnapshot) || errors.Is(err, ErrBadMagic) ||
		errors.Is(err, ErrDimensionMismatch)
}

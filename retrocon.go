// Package retrocon provides a fixed-grid text console rendered with
// codepage 850 bitmap fonts, in the style of a DOS text mode screen.
//
// A Console owns a grid of cells (glyph, foreground and background palette
// index), a 256-entry gamma corrected palette and a diff engine. Drawing
// calls only change cells; Update pushes the cells that changed since the
// previous Update to a Display and presents the frame.
//
// Example:
//
//	con, err := retrocon.New(80, 25)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	con.DrawFrame(retrocon.Rect{X: 0, Y: 0, W: 80, H: 25}, 15, 1, retrocon.Thick)
//	con.PrintString(2, 1, "Hello, world", 14, 1)
//	if err := con.Update(); err != nil {
//	    log.Fatal(err)
//	}
//
// A Console is owned by one goroutine. Only the key queue (PushKey) may be
// used from others.
package retrocon

import (
	"fmt"
	"time"

	"github.com/ryanlewis/retrocon/internal/debug"
	"github.com/ryanlewis/retrocon/internal/grid"
	"github.com/ryanlewis/retrocon/internal/keyqueue"
	"github.com/ryanlewis/retrocon/internal/palette"
	"github.com/ryanlewis/retrocon/internal/renderer"
)

// Console is a cols x rows text console.
type Console struct {
	grid    *grid.Grid
	pal     *palette.Table
	diff    *renderer.DiffEngine
	display Display
	surface *Surface // nil when a custom display was supplied

	font    *Font
	charset Charset
	loader  ResourceLoader
	cache   *FontCache

	keys    keyqueue.Queue[Key]
	session *debug.Session
	clock   func() time.Time
	frame   uint64
	rec     *recorder
}

// New creates a console. Without WithDisplay the console draws into its own
// Surface, available through Surface().
func New(cols, rows int, opts ...Option) (*Console, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.loader == nil {
		return nil, ErrNilLoader
	}

	if cols > 0xFFFF || rows > 0xFFFF {
		return nil, fmt.Errorf("failed to create console: %dx%d exceeds 65535 cells per axis", cols, rows)
	}
	g, err := grid.New(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}

	c := &Console{
		grid:    g,
		pal:     palette.New(),
		diff:    renderer.NewDiffEngine(cols, rows),
		display: options.display,
		loader:  options.loader,
		cache:   options.cache,
		session: options.session,
		clock:   options.clock,
	}
	if c.display == nil {
		c.surface = NewSurface(cols, rows)
		c.display = c.surface
	}
	if options.hasDefaultColors {
		c.grid.SetDefaultColors(options.fg, options.bg)
		c.grid.Clear()
	}
	c.pal.SetGamma(options.gamma)

	if err := c.SetCharset(options.charset); err != nil {
		return nil, err
	}

	if c.session != nil {
		c.session.Emit("console", "Init", debug.ConsoleInitData{
			Columns: cols,
			Rows:    rows,
			Charset: c.charset.String(),
			Gamma:   c.pal.Gamma(),
			Display: fmt.Sprintf("%T", c.display),
		})
	}
	return c, nil
}

// Option configures a Console.
type Option func(*options)

type options struct {
	charset          Charset
	loader           ResourceLoader
	display          Display
	gamma            float64
	fg, bg           int
	hasDefaultColors bool
	session          *debug.Session
	cache            *FontCache
	clock            func() time.Time
}

func defaultOptions() *options {
	return &options{
		charset: DefaultCharset,
		loader:  BuiltinLoader{},
		gamma:   1,
		cache:   defaultCache,
		clock:   time.Now,
	}
}

// WithCharset selects the initial charset. The default is 8x12.
func WithCharset(cs Charset) Option {
	return func(opts *options) {
		opts.charset = cs
	}
}

// WithLoader sets where charset resources are read from. The default
// BuiltinLoader needs no files.
func WithLoader(l ResourceLoader) Option {
	return func(opts *options) {
		opts.loader = l
	}
}

// WithDisplay sends updates to d instead of a private Surface.
func WithDisplay(d Display) Option {
	return func(opts *options) {
		opts.display = d
	}
}

// WithGamma sets the initial gamma, clamped to [0.01, 3].
func WithGamma(g float64) Option {
	return func(opts *options) {
		opts.gamma = g
	}
}

// WithDefaultColors sets the palette indices of the blank cell used by
// Clear and scrolling. The default is 0 on 0.
func WithDefaultColors(fg, bg int) Option {
	return func(opts *options) {
		opts.fg, opts.bg = fg, bg
		opts.hasDefaultColors = true
	}
}

// WithDebug traces console events into s.
func WithDebug(s *debug.Session) Option {
	return func(opts *options) {
		opts.session = s
	}
}

// WithFontCache loads charsets through c instead of the default cache.
func WithFontCache(c *FontCache) Option {
	return func(opts *options) {
		if c != nil {
			opts.cache = c
		}
	}
}

// WithClock replaces time.Now for snapshot timestamps and recordings.
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		if now != nil {
			opts.clock = now
		}
	}
}

// Cols returns the number of columns.
func (c *Console) Cols() int { return c.grid.Cols() }

// Rows returns the number of rows.
func (c *Console) Rows() int { return c.grid.Rows() }

// Surface returns the console's own pixel surface, or nil when the console
// was created WithDisplay.
func (c *Console) Surface() *Surface { return c.surface }

// Display returns where updates are sent.
func (c *Console) Display() Display { return c.display }

// Charset returns the active charset.
func (c *Console) Charset() Charset { return c.charset }

// Font returns the active font.
func (c *Console) Font() *Font { return c.font }

// SetCharset loads cs through the console's loader and font cache and
// switches to it. The next Update redraws every cell.
func (c *Console) SetCharset(cs Charset) error {
	if !cs.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCharset, int(cs))
	}
	font, cached, err := c.cache.load(c.loader, cs.ResourceName())
	if err != nil {
		return fmt.Errorf("failed to load charset %s: %w", cs, err)
	}
	c.charset = cs
	c.useFont(font)

	if c.session != nil {
		c.session.Emit("console", "Charset", debug.CharsetData{
			Charset:  cs.String(),
			Resource: cs.ResourceName(),
			Width:    font.Width(),
			Height:   font.Height(),
			Cached:   cached,
		})
	}
	return nil
}

// SetFont switches to a font that did not come from a charset resource.
// Charset() keeps reporting the last charset loaded.
func (c *Console) SetFont(f *Font) error {
	if f == nil {
		return renderer.ErrNilFont
	}
	c.useFont(f)
	return nil
}

func (c *Console) useFont(f *Font) {
	c.font = f
	if fr, ok := c.display.(FontReceiver); ok {
		fr.SetFont(f)
	}
	c.diff.Invalidate()
}

// Update sends every cell whose glyph or resolved colors changed since the
// last Update to the display, then presents the frame. While recording, the
// screen is also saved.
func (c *Console) Update() error {
	start := time.Now()
	blits, err := c.diff.Update(c.grid.Cells(), c.pal, c.display)
	c.frame++

	if c.session != nil {
		cells := c.grid.Cols() * c.grid.Rows()
		c.session.Emit("render", "Update", debug.UpdateData{
			Frame:     c.frame,
			Cells:     cells,
			Blits:     blits,
			Kind:      debug.ClassifyUpdate(blits, cells),
			ElapsedUs: time.Since(start).Microseconds(),
		})
	}
	if err != nil {
		c.emitError("update", err)
		return fmt.Errorf("failed to update frame %d: %w", c.frame, err)
	}

	if c.rec != nil {
		if err := c.rec.record(c); err != nil {
			c.emitError("recording", err)
			return err
		}
	}
	return nil
}

// Invalidate forces the next Update to redraw every cell, e.g. after the
// display lost its contents.
func (c *Console) Invalidate() {
	c.diff.Invalidate()
}

// Frame returns the number of Update calls so far.
func (c *Console) Frame() uint64 { return c.frame }

func (c *Console) emitError(where string, err error) {
	if c.session == nil {
		return
	}
	c.session.Emit("error", "Error", debug.ErrorData{
		Type:    where,
		Message: err.Error(),
	})
}

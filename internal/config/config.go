// Package config loads retrocon settings from YAML files.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default:
//
//	columns: 80
//	rows: 25
//	charset: 8x16
//	display: ebiten
//	scale: 2
//	palette:
//	  0: "#101018"
//	  14: "#ffd75f"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ryanlewis/retrocon"
)

// Displays accepted by the display key.
const (
	DisplayEbiten = "ebiten"
	DisplayTcell  = "tcell"
	DisplayNone   = "none"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds console and display settings.
type Config struct {
	Columns    int              `yaml:"columns"`
	Rows       int              `yaml:"rows"`
	Charset    retrocon.Charset `yaml:"charset"`
	Gamma      float64          `yaml:"gamma"`
	FontsDir   string           `yaml:"fonts_dir,omitempty"`
	Display    string           `yaml:"display"`
	Scale      float64          `yaml:"scale"`
	Fullscreen bool             `yaml:"fullscreen"`
	Smooth     bool             `yaml:"smooth"`
	Title      string           `yaml:"title"`
	Palette    map[int]string   `yaml:"palette,omitempty"`
	DefaultFg  int              `yaml:"default_fg"`
	DefaultBg  int              `yaml:"default_bg"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Columns:   80,
		Rows:      25,
		Charset:   retrocon.DefaultCharset,
		Gamma:     1,
		Display:   DisplayEbiten,
		Scale:     2,
		Title:     "retrocon",
		DefaultFg: 7,
		DefaultBg: 0,
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are errors. An empty document yields Default.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	if c.Columns < 1 || c.Columns > 0xFFFF {
		return fmt.Errorf("%w: columns %d out of range 1-65535", ErrInvalid, c.Columns)
	}
	if c.Rows < 1 || c.Rows > 0xFFFF {
		return fmt.Errorf("%w: rows %d out of range 1-65535", ErrInvalid, c.Rows)
	}
	if _, err := c.Charset.MarshalText(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive, got %g", ErrInvalid, c.Gamma)
	}
	switch c.Display {
	case DisplayEbiten, DisplayTcell, DisplayNone:
	default:
		return fmt.Errorf("%w: unknown display %q", ErrInvalid, c.Display)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %g", ErrInvalid, c.Scale)
	}
	if c.DefaultFg < 0 || c.DefaultFg > 255 || c.DefaultBg < 0 || c.DefaultBg > 255 {
		return fmt.Errorf("%w: default colors %d/%d out of range 0-255", ErrInvalid, c.DefaultFg, c.DefaultBg)
	}
	if _, err := c.ParsePalette(); err != nil {
		return err
	}
	return nil
}

// ParsePalette returns the palette overrides as 0xRRGGBB values by index.
func (c *Config) ParsePalette() (map[int]uint32, error) {
	out := make(map[int]uint32, len(c.Palette))
	for idx, s := range c.Palette {
		if idx < 0 || idx > 255 {
			return nil, fmt.Errorf("%w: palette index %d out of range 0-255", ErrInvalid, idx)
		}
		rgb, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette entry %d: %w", ErrInvalid, idx, err)
		}
		out[idx] = rgb
	}
	return out, nil
}

// ParseColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must have six hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

// Options converts the settings to console options. Palette overrides are
// applied separately with Apply since they need a console.
func (c *Config) Options() []retrocon.Option {
	opts := []retrocon.Option{
		retrocon.WithCharset(c.Charset),
		retrocon.WithGamma(c.Gamma),
		retrocon.WithDefaultColors(c.DefaultFg, c.DefaultBg),
	}
	if c.FontsDir != "" {
		opts = append(opts, retrocon.WithLoader(retrocon.NewDirLoader(c.FontsDir)))
	}
	return opts
}

// Apply sets the palette overrides on con.
func (c *Config) Apply(con *retrocon.Console) error {
	pal, err := c.ParsePalette()
	if err != nil {
		return err
	}
	for idx, rgb := range pal {
		con.SetColor(idx, rgb)
	}
	return nil
}

// Write encodes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return enc.Close()
}

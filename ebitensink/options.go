// Package ebitensink shows a console in a desktop window.
//
// The window reads frames from the console's Surface and feeds keyboard
// input back into the console's key queue. Ebiten must own the main
// goroutine, so the console program runs beside it:
//
//	con, _ := retrocon.New(80, 25)
//	win, _ := ebitensink.New(con, ebitensink.Options{Title: "demo", Scale: 2})
//	err := win.Run(context.Background(), func(ctx context.Context) error {
//	    con.PrintString(0, 0, "Hello", 15, 0)
//	    if err := con.Update(); err != nil {
//	        return err
//	    }
//	    _, err := con.WaitKeyContext(ctx)
//	    return err
//	})
//
// Build with -tags headless to drop the ebiten dependency; New then fails
// with ErrUnsupported.
package ebitensink

import "errors"

// Options configures a Window.
type Options struct {
	// Title of the window
	Title string
	// Scale is the initial window size relative to the console frame
	Scale float64
	// Fullscreen starts in fullscreen mode
	Fullscreen bool
	// Smooth filters the scaled frame bilinearly instead of repeating pixels
	Smooth bool
	// IntegerZoom keeps the frame at whole multiples of its size when the
	// window is resized
	IntegerZoom bool
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "retrocon"
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	return o
}

var (
	// ErrClosed is returned by Present after the window was closed
	ErrClosed = errors.New("window closed")

	// ErrUnsupported is returned by New in headless builds
	ErrUnsupported = errors.New("window display not available in this build")

	// ErrNoSurface is returned by New for a console created WithDisplay
	ErrNoSurface = errors.New("console has no surface")
)

// maxPaste limits how many characters one paste may queue.
const maxPaste = 4096

// normalizePaste turns CRLF and lone CR line breaks into LF.
func normalizePaste(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

// capPaste truncates s to at most max runes.
func capPaste(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// repeat reports whether a key held for d ticks should fire: on the first
// tick, then every 4 ticks after a 30 tick delay.
func repeat(d int) bool {
	return d == 1 || (d >= 30 && (d-30)%4 == 0)
}

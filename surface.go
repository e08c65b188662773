package retrocon

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ryanlewis/retrocon/internal/renderer"
)

// Presenter receives every presented frame. The frame is only valid during
// the call; implementations that keep pixels must copy them.
type Presenter interface {
	Present(frame *image.RGBA) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(frame *image.RGBA) error

// Present implements Presenter.
func (f PresenterFunc) Present(frame *image.RGBA) error { return f(frame) }

// Surface is the software pixel display. It rasterizes changed cells into a
// back buffer on the console goroutine and, on PresentFrame, copies the back
// buffer to a front buffer that other goroutines may read.
type Surface struct {
	cols, rows int
	canvas     *renderer.Canvas

	mu        sync.Mutex
	front     *renderer.Framebuffer
	frames    uint64
	presenter Presenter
}

// NewSurface returns a surface for a cols x rows console. It draws nothing
// until it receives a font.
func NewSurface(cols, rows int) *Surface {
	return &Surface{cols: cols, rows: rows}
}

// SetFont implements FontReceiver. The back buffer is resized to the new
// cell size; the front buffer follows on the next PresentFrame.
func (s *Surface) SetFont(f *Font) {
	if f == nil {
		return
	}
	canvas, err := renderer.NewCanvas(s.cols, s.rows, f)
	if err != nil {
		return
	}
	s.canvas = canvas
}

// SetPresenter installs p, or removes the presenter when p is nil.
func (s *Surface) SetPresenter(p Presenter) {
	s.mu.Lock()
	s.presenter = p
	s.mu.Unlock()
}

// BlitCell implements Display.
func (s *Surface) BlitCell(col, row int, glyph byte, fg, bg uint32) {
	if s.canvas == nil {
		return
	}
	s.canvas.BlitCell(col, row, glyph, fg, bg)
}

// PresentFrame implements Display.
func (s *Surface) PresentFrame() error {
	if s.canvas == nil {
		return nil
	}
	back := s.canvas.FB

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.front == nil || s.front.Width != back.Width || s.front.Height != back.Height {
		renderer.ReleaseFramebuffer(s.front)
		s.front = renderer.AcquireFramebuffer(back.Width, back.Height)
	}
	copy(s.front.Pix, back.Pix)
	s.frames++

	if s.presenter != nil {
		if err := s.presenter.Present(s.front.RGBA()); err != nil {
			return fmt.Errorf("failed to present frame %d: %w", s.frames, err)
		}
	}
	return nil
}

// Frames returns the number of frames presented so far.
func (s *Surface) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// PixelSize returns the size of the presented image in pixels.
func (s *Surface) PixelSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return 0, 0
	}
	return s.front.Width, s.front.Height
}

// Image returns a copy of the last presented frame, or nil before the first.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, s.front.Width, s.front.Height))
	copy(img.Pix, s.front.Pix)
	return img
}

// Scaled returns the last presented frame scaled by zoom. Smooth scaling
// uses bilinear filtering, otherwise pixels are repeated.
func (s *Surface) Scaled(zoom float64, smooth bool) *image.RGBA {
	src := s.Image()
	if src == nil {
		return nil
	}
	if zoom <= 0 {
		zoom = 1
	}
	w, h := Zoom{Scale: zoom}.Size(src.Rect.Dx(), src.Rect.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))

	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes the last presented frame as a PNG image.
func (s *Surface) SavePNG(w io.Writer) error {
	img := s.Image()
	if img == nil {
		return fmt.Errorf("no frame has been presented")
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

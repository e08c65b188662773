//go:build !headless

package ebitensink

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/ryanlewis/retrocon"
	"github.com/ryanlewis/retrocon/internal/renderer"
)

// Window is an ebiten game presenting a console's frames.
type Window struct {
	con  *retrocon.Console
	opts Options

	mu         sync.Mutex
	pixels     []byte
	width      int
	height     int
	dirty      bool
	resized    bool
	closed     bool
	fullscreen bool

	frame   *ebiten.Image
	pressed []ebiten.Key
	done    chan struct{}
	err     error
	stop    context.CancelFunc

	clipboardOnce sync.Once
	clipboardOK   bool
}

// New attaches a window to con's Surface. Nothing is shown until Run.
func New(con *retrocon.Console, opts Options) (*Window, error) {
	s := con.Surface()
	if s == nil {
		return nil, ErrNoSurface
	}
	w := &Window{
		con:        con,
		opts:       opts.withDefaults(),
		fullscreen: opts.Fullscreen,
		done:       make(chan struct{}),
	}
	s.SetPresenter(w)
	return w, nil
}

// Present implements retrocon.Presenter. It runs on the console goroutine
// and only copies the frame; Draw uploads it.
func (w *Window) Present(frame *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	width, height := frame.Rect.Dx(), frame.Rect.Dy()
	if width != w.width || height != w.height {
		renderer.ReleasePixels(w.pixels)
		w.pixels = renderer.AcquirePixels(width * height * 4)
		w.width, w.height = width, height
		w.resized = true
	}
	copy(w.pixels, frame.Pix)
	w.dirty = true
	return nil
}

// Run opens the window and calls program on a new goroutine. It must be
// called from the main goroutine and returns when program returns or the
// window is closed; closing the window cancels program's context.
func (w *Window) Run(ctx context.Context, program func(ctx context.Context) error) error {
	ctx, w.stop = context.WithCancel(ctx)
	defer w.stop()

	go func() {
		err := program(ctx)
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		close(w.done)
	}()

	width, height := w.initialSize()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetFullscreen(w.fullscreen)

	runErr := ebiten.RunGame(w)

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.stop()
	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()
	renderer.ReleasePixels(w.pixels)
	w.pixels = nil
	if runErr != nil {
		return runErr
	}
	if w.err != nil && !errors.Is(w.err, context.Canceled) && !errors.Is(w.err, ErrClosed) {
		return w.err
	}
	return nil
}

func (w *Window) initialSize() (int, int) {
	width, height := w.con.Surface().PixelSize()
	if width == 0 {
		f := w.con.Font()
		width, height = w.con.Cols()*f.Width(), w.con.Rows()*f.Height()
	}
	z := retrocon.Zoom{Scale: w.opts.Scale}
	return z.Size(width, height)
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	select {
	case <-w.done:
		return ebiten.Termination
	default:
	}

	alt := ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight)
	if alt && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		w.toggleFullscreen()
		return nil
	}

	w.mu.Lock()
	resized := w.resized && !w.fullscreen
	w.resized = false
	width, height := w.width, w.height
	w.mu.Unlock()
	if resized {
		ebiten.SetWindowSize(retrocon.Zoom{Scale: w.opts.Scale}.Size(width, height))
	}

	w.handleKeyboardInput()
	return nil
}

func (w *Window) toggleFullscreen() {
	w.mu.Lock()
	w.fullscreen = !w.fullscreen
	fs := w.fullscreen
	w.mu.Unlock()

	ebiten.SetFullscreen(fs)
	w.con.PushKey(retrocon.KeyToggleFullscreen)
}

func (w *Window) handleKeyboardInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		w.handleClipboardPaste()
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r >= ' ' && r != 0x7F {
			w.con.PushKey(retrocon.KeyForRune(r))
		}
	}

	w.pressed = inpututil.AppendPressedKeys(w.pressed[:0])
	for _, k := range w.pressed {
		if ck, ok := translateKey(k); ok && repeat(inpututil.KeyPressDuration(k)) {
			w.con.PushKey(ck)
		}
	}
}

func (w *Window) handleClipboardPaste() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	w.con.PushString(capPaste(string(normalizePaste(data)), maxPaste))
}

var letterbox = color.RGBA{A: 0xFF}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	if w.pixels != nil {
		if w.frame == nil || w.frame.Bounds().Dx() != w.width || w.frame.Bounds().Dy() != w.height {
			if w.frame != nil {
				w.frame.Deallocate()
			}
			w.frame = ebiten.NewImage(w.width, w.height)
			w.dirty = true
		}
		if w.dirty {
			w.frame.WritePixels(w.pixels)
			w.dirty = false
		}
	}
	w.mu.Unlock()

	screen.Fill(letterbox)
	if w.frame == nil {
		return
	}

	fb := w.frame.Bounds()
	sb := screen.Bounds()
	z := retrocon.FitZoom(fb.Dx(), fb.Dy(), sb.Dx(), sb.Dy(), w.opts.IntegerZoom)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(z.Scale, z.Scale)
	op.GeoM.Translate(float64(z.OffsetX), float64(z.OffsetY))
	if w.opts.Smooth {
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(w.frame, op)
}

// Layout implements ebiten.Game. The screen follows the window size so the
// frame can be zoomed to fit.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

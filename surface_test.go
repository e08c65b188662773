package retrocon

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestSurfacePresent(t *testing.T) {
	c := newTestConsole(t, 3, 2, WithDefaultColors(0, 1))
	s := c.Surface()
	if s.Image() != nil {
		t.Error("Image() before the first frame should be nil")
	}

	var presented int
	var size image.Point
	s.SetPresenter(PresenterFunc(func(frame *image.RGBA) error {
		presented++
		size = frame.Rect.Size()
		return nil
	}))

	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if presented != 1 || size != image.Pt(12, 12) {
		t.Errorf("presented %d frames of %v, want 1 of 12x12", presented, size)
	}
	if w, h := s.PixelSize(); w != 12 || h != 12 {
		t.Errorf("PixelSize() = %dx%d", w, h)
	}
	if s.Frames() != 1 {
		t.Errorf("Frames() = %d", s.Frames())
	}

	// background index 1 is the standard blue
	img := s.Image()
	want := c.ResolvedColor(1)
	px := img.RGBAAt(0, 0)
	got := 0xFF000000 | uint32(px.R)<<16 | uint32(px.G)<<8 | uint32(px.B)
	if got != want {
		t.Errorf("pixel = %#x, want %#x", got, want)
	}
}

func TestSurfaceResizesOnCharsetChange(t *testing.T) {
	c := newTestConsole(t, 3, 2)
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if err := c.SetCharset(Charset16x12); err != nil {
		t.Fatal(err)
	}
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Surface().PixelSize(); w != 48 || h != 24 {
		t.Errorf("PixelSize() = %dx%d, want 48x24", w, h)
	}
}

func TestSurfacePresenterError(t *testing.T) {
	c := newTestConsole(t, 2, 2)
	boom := errors.New("window closed")
	c.Surface().SetPresenter(PresenterFunc(func(*image.RGBA) error { return boom }))
	if err := c.Update(); !errors.Is(err, boom) {
		t.Errorf("Update() error = %v, want %v", err, boom)
	}
	c.Surface().SetPresenter(nil)
	if err := c.Update(); err != nil {
		t.Errorf("Update() without presenter error = %v", err)
	}
}

func TestSurfaceScaled(t *testing.T) {
	c := newTestConsole(t, 2, 1)
	c.PrintSymbol(0, 0, 0xDB, 15, 0)
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}

	for _, smooth := range []bool{false, true} {
		img := c.Surface().Scaled(2, smooth)
		if img.Rect.Dx() != 16 || img.Rect.Dy() != 12 {
			t.Errorf("Scaled(2, %v) size = %v", smooth, img.Rect.Size())
		}
	}

	img := c.Surface().Scaled(2, false)
	if img.RGBAAt(1, 1) != c.Surface().Image().RGBAAt(0, 0) {
		t.Error("nearest neighbour scaling changed a pixel")
	}
}

func TestSurfaceSavePNG(t *testing.T) {
	s := NewSurface(2, 2)
	var buf bytes.Buffer
	if err := s.SavePNG(&buf); err == nil {
		t.Error("SavePNG() before the first frame succeeded")
	}

	c := newTestConsole(t, 2, 2)
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if err := c.Surface().SavePNG(&buf); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 12 {
		t.Errorf("png size = %v, want 8x12", img.Bounds().Size())
	}
}

package renderer

import (
	"image"
)

// Framebuffer is a row-major RGBA pixel buffer laid out like image.RGBA.
type Framebuffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// NewFramebuffer allocates a width x height buffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Pix:    make([]byte, width*height*4),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}
}

// Set writes an 0xAARRGGBB pixel. Out of bounds writes are ignored.
func (fb *Framebuffer) Set(x, y int, argb uint32) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	putPixel(fb.Pix[y*fb.Stride+x*4:], argb)
}

// At returns the 0xAARRGGBB pixel at (x, y), or 0 when out of bounds.
func (fb *Framebuffer) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return 0
	}
	p := fb.Pix[y*fb.Stride+x*4:]
	return uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}

// RGBA returns an image sharing the framebuffer's pixels.
func (fb *Framebuffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    fb.Pix,
		Stride: fb.Stride,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// putPixel stores argb into p[0:4] in R, G, B, A order.
func putPixel(p []byte, argb uint32) {
	p[0] = byte(argb >> 16)
	p[1] = byte(argb >> 8)
	p[2] = byte(argb)
	p[3] = byte(argb >> 24)
}

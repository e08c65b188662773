package renderer

import (
	"sync"
)

// maxRetainPixels caps the buffers kept in the pool: 4K RGBA. Larger
// buffers from an occasional huge zoom are left to the GC.
const maxRetainPixels = 3840 * 2160 * 4

// pixelPool recycles RGBA pixel slices used for presented and scaled
// frames, which are allocated at display refresh rate otherwise.
var pixelPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 640*480*4)
		return &buf
	},
}

// AcquirePixels returns a zeroed slice of n bytes, reusing pooled capacity
// when possible.
func AcquirePixels(n int) []byte {
	bufPtr := pixelPool.Get().(*[]byte)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]byte, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

// ReleasePixels hands a slice back to the pool. The caller must not use it
// afterwards.
func ReleasePixels(buf []byte) {
	if buf == nil || cap(buf) < 1024 || cap(buf) > maxRetainPixels {
		return // Don't pool small or oversized buffers
	}
	buf = buf[:0]
	pixelPool.Put(&buf)
}

// AcquireFramebuffer returns a zeroed width x height framebuffer backed by
// pooled pixels. Release it with ReleaseFramebuffer.
func AcquireFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Pix:    AcquirePixels(width * height * 4),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}
}

// ReleaseFramebuffer returns fb's pixels to the pool.
func ReleaseFramebuffer(fb *Framebuffer) {
	if fb == nil {
		return
	}
	ReleasePixels(fb.Pix)
	fb.Pix = nil
}

// Clone copies fb into a pooled framebuffer.
func (fb *Framebuffer) Clone() *Framebuffer {
	c := AcquireFramebuffer(fb.Width, fb.Height)
	copy(c.Pix, fb.Pix)
	return c
}

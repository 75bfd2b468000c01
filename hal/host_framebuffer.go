package hal

import "sync"

// hostFramebuffer keeps a back buffer for writers and a front buffer for
// the presenter. Present copies back to front.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	frontMu sync.Mutex
	front   []byte
	frames  uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Lock()               { f.mu.Lock() }
func (f *hostFramebuffer) Unlock()             { f.mu.Unlock() }
func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.frontMu.Lock()
	defer f.frontMu.Unlock()
	copy(f.front, f.buf)
	f.frames++
	return nil
}

// ClearRGB fills the back buffer. Callers hold the lock.
func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) uint64 {
	f.frontMu.Lock()
	defer f.frontMu.Unlock()
	copy(dst, f.front)
	return f.frames
}

// pixelAt reads the presented frame.
func (f *hostFramebuffer) pixelAt(x, y int) (r, g, b uint8, ok bool) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0, 0, 0, false
	}
	f.frontMu.Lock()
	defer f.frontMu.Unlock()
	off := y*f.stride + x*2
	r, g, b = RGB888(uint16(f.front[off]) | uint16(f.front[off+1])<<8)
	return r, g, b, true
}

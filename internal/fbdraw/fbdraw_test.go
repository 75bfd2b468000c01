package fbdraw

import (
	"image"
	"image/color"
	"log/slog"
	"testing"

	"scratchcalc/hal"
)

func newTestHost(w, h int, scale float64) *hal.Host {
	return hal.NewHost(hal.HostConfig{Width: w, Height: h, Scale: scale, Log: hal.NewLogWriterLogger(nil, slog.LevelInfo)})
}

func present(t *testing.T, fb hal.Framebuffer) {
	t.Helper()
	fb.Lock()
	defer fb.Unlock()
	if err := fb.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
}

func TestDisplayScalesRectangles(t *testing.T) {
	h := newTestHost(10, 10, 2)
	fb := h.Display().Framebuffer()
	d := New(fb, 2)

	if x, y := d.Size(); x != 10 || y != 10 {
		t.Fatalf("Size = %d,%d, want 10,10", x, y)
	}

	fb.Lock()
	d.Clear(color.RGBA{A: 0xff})
	_ = d.FillRectangle(1, 1, 2, 1, color.RGBA{R: 0xff, A: 0xff})
	fb.Unlock()
	present(t, fb)

	for _, tc := range []struct {
		x, y int
		red  bool
	}{
		{1, 1, false},
		{2, 2, true},
		{5, 3, true},
		{6, 2, false},
		{2, 4, false},
	} {
		r, _, _, ok := h.PixelAt(tc.x, tc.y)
		if !ok {
			t.Fatalf("PixelAt(%d,%d) out of range", tc.x, tc.y)
		}
		if (r == 0xff) != tc.red {
			t.Fatalf("pixel %d,%d red=%v, want %v", tc.x, tc.y, r == 0xff, tc.red)
		}
	}
}

func TestDisplayClipsOutOfRange(t *testing.T) {
	h := newTestHost(4, 4, 1)
	fb := h.Display().Framebuffer()
	d := New(fb, 0)

	fb.Lock()
	d.SetPixel(-1, -1, color.RGBA{R: 0xff, A: 0xff})
	_ = d.FillRectangle(3, 3, 100, 100, color.RGBA{G: 0xff, A: 0xff})
	fb.Unlock()
	present(t, fb)

	if _, g, _, _ := h.PixelAt(3, 3); g != 0xff {
		t.Fatalf("corner pixel g=%d, want 255", g)
	}
	if r, _, _, _ := h.PixelAt(0, 0); r != 0 {
		t.Fatalf("negative pixel leaked: r=%d", r)
	}
}

func TestCanvasFillsScaledBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	c := &Canvas{Img: img, Scale: 3}
	c.SetPixel(1, 0, color.RGBA{B: 0xff, A: 0xff})

	if got := img.RGBAAt(3, 2); got.B != 0xff {
		t.Fatalf("RGBAAt(3,2) = %v, want blue", got)
	}
	if got := img.RGBAAt(2, 0); got.A != 0 {
		t.Fatalf("RGBAAt(2,0) = %v, want untouched", got)
	}
	if x, y := c.Size(); x != 2 || y != 2 {
		t.Fatalf("Size = %d,%d, want 2,2", x, y)
	}
}

func TestTextDrawsSomething(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 20))
	c := &Canvas{Img: img, Scale: 1}
	Text(c, Small, 0, 12, "42", color.RGBA{R: 0xff, A: 0xff})

	var n int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	if n == 0 {
		t.Fatal("no pixels drawn")
	}
	if TextWidth(Small, "42") <= TextWidth(Small, "4") {
		t.Fatal("width does not grow with text")
	}
}

func TestComposite(t *testing.T) {
	h := newTestHost(4, 1, 1)
	fb := h.Display().Framebuffer()

	under := image.NewRGBA(image.Rect(0, 0, 2, 1))
	over := image.NewRGBA(image.Rect(0, 0, 2, 1))
	under.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	under.SetRGBA(1, 0, color.RGBA{R: 0xff, A: 0xff})
	over.SetRGBA(0, 0, color.RGBA{B: 0xff, A: 0xff})

	fb.Lock()
	Composite(fb, image.Pt(2, 0), under, over, under.Bounds())
	fb.Unlock()
	present(t, fb)

	if r, _, b, _ := h.PixelAt(2, 0); r != 0 || b != 0xff {
		t.Fatalf("covered pixel = r%d b%d, want blue", r, b)
	}
	if r, _, b, _ := h.PixelAt(3, 0); r != 0xff || b != 0 {
		t.Fatalf("erased pixel = r%d b%d, want red", r, b)
	}
	if r, _, _, _ := h.PixelAt(0, 0); r != 0 {
		t.Fatal("pixel outside destination changed")
	}
}

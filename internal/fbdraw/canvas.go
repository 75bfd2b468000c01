package fbdraw

import (
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
)

// Canvas is a drivers.Displayer over an RGBA image whose pixels are Scale
// times denser than the display coordinates drawn into it.
type Canvas struct {
	Img   *image.RGBA
	Scale float64
}

var _ drivers.Displayer = (*Canvas)(nil)

func (c *Canvas) Size() (x, y int16) {
	if c.Img == nil || c.Scale <= 0 {
		return 0, 0
	}
	b := c.Img.Bounds()
	return int16(float64(b.Dx()) / c.Scale), int16(float64(b.Dy()) / c.Scale)
}

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.Fill(float64(x), float64(y), 1, 1, col)
}

func (c *Canvas) Display() error { return nil }

// Fill paints an opaque rectangle given in display pixels.
func (c *Canvas) Fill(x, y, w, h float64, col color.RGBA) {
	if c.Img == nil || c.Scale <= 0 {
		return
	}
	b := c.Img.Bounds()
	x0 := clampInt(int(math.Floor(x*c.Scale)), b.Min.X, b.Max.X)
	y0 := clampInt(int(math.Floor(y*c.Scale)), b.Min.Y, b.Max.Y)
	x1 := clampInt(int(math.Floor((x+w)*c.Scale)), b.Min.X, b.Max.X)
	y1 := clampInt(int(math.Floor((y+h)*c.Scale)), b.Min.Y, b.Max.Y)
	for py := y0; py < y1; py++ {
		off := c.Img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			p := c.Img.Pix[off : off+4 : off+4]
			p[0], p[1], p[2], p[3] = col.R, col.G, col.B, col.A
			off += 4
		}
	}
}

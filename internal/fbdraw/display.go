// Package fbdraw renders tinyfont text and filled rectangles onto the HAL
// framebuffer and onto RGBA images, in display (logical) pixels.
package fbdraw

import (
	"image/color"
	"math"

	"scratchcalc/hal"

	"tinygo.org/x/drivers"
)

// Display is a drivers.Displayer over an RGB565 framebuffer.
//
// Coordinates are display pixels; each one covers Scale x Scale device
// pixels. Callers hold the framebuffer lock while drawing.
type Display struct {
	fb    hal.Framebuffer
	scale float64
}

var _ drivers.Displayer = (*Display)(nil)

func New(fb hal.Framebuffer, scale float64) *Display {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return &Display{fb: fb, scale: scale}
}

func (d *Display) Scale() float64 { return d.scale }

// Size returns the display size in display pixels.
func (d *Display) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(float64(d.fb.Width()) / d.scale), int16(float64(d.fb.Height()) / d.scale)
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	d.fill(float64(x), float64(y), 1, 1, c)
}

func (d *Display) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *Display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	d.fill(float64(x), float64(y), float64(width), float64(height), c)
	return nil
}

func (d *Display) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

// Clear fills the whole framebuffer.
func (d *Display) Clear(c color.RGBA) {
	if d.fb == nil {
		return
	}
	d.fb.ClearRGB(c.R, c.G, c.B)
}

func (d *Display) fill(x, y, width, height float64, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	x0 := clampInt(int(math.Round(x*d.scale)), 0, w)
	y0 := clampInt(int(math.Round(y*d.scale)), 0, h)
	x1 := clampInt(int(math.Round((x+width)*d.scale)), 0, w)
	y1 := clampInt(int(math.Round((y+height)*d.scale)), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

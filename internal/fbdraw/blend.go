package fbdraw

import (
	"image"

	"scratchcalc/hal"
)

// Composite blends over (straight alpha) onto under inside r and writes the
// result to the framebuffer with r.Min mapped to dst+r.Min. Both images share
// one coordinate space; r is clipped to it and to the framebuffer.
func Composite(fb hal.Framebuffer, dst image.Point, under, over *image.RGBA, r image.Rectangle) {
	if fb == nil || under == nil || over == nil || fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := fb.Buffer()
	if buf == nil {
		return
	}
	r = r.Intersect(under.Bounds()).Intersect(over.Bounds())
	r = r.Intersect(image.Rect(0, 0, fb.Width(), fb.Height()).Sub(dst))
	if r.Empty() {
		return
	}

	stride := fb.StrideBytes()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		uo := under.PixOffset(r.Min.X, y)
		oo := over.PixOffset(r.Min.X, y)
		fo := (y+dst.Y)*stride + (r.Min.X+dst.X)*2
		for x := r.Min.X; x < r.Max.X; x++ {
			a := uint32(over.Pix[oo+3])
			ia := 255 - a
			cr := (uint32(over.Pix[oo])*a + uint32(under.Pix[uo])*ia) / 255
			cg := (uint32(over.Pix[oo+1])*a + uint32(under.Pix[uo+1])*ia) / 255
			cb := (uint32(over.Pix[oo+2])*a + uint32(under.Pix[uo+2])*ia) / 255
			p := hal.RGB565(uint8(cr), uint8(cg), uint8(cb))
			buf[fo] = byte(p)
			buf[fo+1] = byte(p >> 8)
			uo += 4
			oo += 4
			fo += 2
		}
	}
}

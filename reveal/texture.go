package reveal

import (
	"image/color"

	"scratchcalc/internal/fbdraw"
)

const defaultSeed = 0x2545f491

var (
	gradientStops = [3]color.RGBA{
		{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
		{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff},
		{R: 0xa8, G: 0xa8, B: 0xa8, A: 0xff},
	}
	labelColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

const (
	speckles        = 50
	speckleMaxAlpha = 0.3
)

// paintTexture draws the metallic finish. Every pixel ends fully opaque.
func paintTexture(s *Surface, o options) {
	b := s.img.Bounds()
	bw, bh := float64(b.Dx()), float64(b.Dy())
	norm := bw*bw + bh*bh

	for py := 0; py < b.Dy(); py++ {
		off := s.img.PixOffset(0, py)
		for px := 0; px < b.Dx(); px++ {
			t := ((float64(px)+0.5)*bw + (float64(py)+0.5)*bh) / norm
			c := gradientAt(t)
			p := s.img.Pix[off : off+4 : off+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 0xff
			off += 4
		}
	}

	rng := xorshift32(o.seed)
	for i := 0; i < speckles; i++ {
		x := rng.float() * float64(s.width)
		y := rng.float() * float64(s.height)
		a := rng.float() * speckleMaxAlpha
		lighten(s, x, y, 2, 1, a)
	}

	if o.label {
		c := &fbdraw.Canvas{Img: s.img, Scale: s.density}
		cx := int16(s.width / 2)
		cy := int16(s.height / 2)
		fbdraw.Centered(c, fbdraw.Medium, cx, cy-10, "SCRATCH HERE", labelColor)
		fbdraw.Centered(c, fbdraw.Small, cx, cy+15, "to reveal result", labelColor)
	}
}

func gradientAt(t float64) color.RGBA {
	if t <= 0 {
		return gradientStops[0]
	}
	if t >= 1 {
		return gradientStops[2]
	}
	a, b := gradientStops[0], gradientStops[1]
	if t >= 0.5 {
		a, b = gradientStops[1], gradientStops[2]
		t -= 0.5
	}
	t *= 2
	mix := func(u, v uint8) uint8 { return uint8(float64(u) + (float64(v)-float64(u))*t + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// lighten blends white over a display-space rectangle.
func lighten(s *Surface, x, y, w, h, alpha float64) {
	b := s.img.Bounds()
	x0 := int(clampF(x*s.sx, 0, float64(b.Max.X)))
	y0 := int(clampF(y*s.sy, 0, float64(b.Max.Y)))
	x1 := int(clampF((x+w)*s.sx, 0, float64(b.Max.X)))
	y1 := int(clampF((y+h)*s.sy, 0, float64(b.Max.Y)))
	for py := y0; py < y1; py++ {
		off := s.img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			for c := 0; c < 3; c++ {
				v := float64(s.img.Pix[off+c])
				s.img.Pix[off+c] = uint8(v + (255-v)*alpha + 0.5)
			}
			off += 4
		}
	}
}

type xorshift32 uint32

func (r *xorshift32) next() uint32 {
	x := uint32(*r)
	if x == 0 {
		x = defaultSeed
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	*r = xorshift32(x)
	return x
}

// float returns a value in [0, 1).
func (r *xorshift32) float() float64 {
	return float64(r.next()>>8) / (1 << 24)
}

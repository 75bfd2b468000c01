// Package reveal implements the erasable scratch-off overlay.
//
// A Surface is an RGBA raster laid over a card. Its alpha channel is the
// occlusion: 255 is untouched, 0 is scratched away. Coverage is the share of
// pixels whose alpha is below ErasedAlpha, kept as a running count that always
// equals a full rescan of the buffer.
//
// A Surface is not safe for concurrent use; one task owns it.
package reveal

import (
	"errors"
	"image"
	"math"
)

// ErasedAlpha is the alpha below which a pixel counts as revealed.
const ErasedAlpha = 128

// maxPixels caps the raster allocation; larger requests are unavailable.
const maxPixels = 1 << 24

var (
	// ErrDegenerate reports a surface with no pixels.
	ErrDegenerate = errors.New("reveal: zero-area surface")
	// ErrUnavailable reports that the raster could not be created.
	ErrUnavailable = errors.New("reveal: drawing surface unavailable")
)

// Surface is the overlay raster of one card.
type Surface struct {
	width   int
	height  int
	density float64

	// Display to buffer ratio per axis.
	sx, sy float64

	img    *image.RGBA
	total  int
	erased int
	dirty  image.Rectangle

	err error
}

type options struct {
	seed  uint32
	label bool
}

// Option configures New.
type Option func(*options)

// WithSeed fixes the speckle pattern of the texture.
func WithSeed(seed uint32) Option {
	return func(o *options) { o.seed = seed }
}

// WithoutLabel skips the "SCRATCH HERE" caption.
func WithoutLabel() Option {
	return func(o *options) { o.label = false }
}

// New creates a fully opaque surface of width x height display pixels,
// backed by a raster density times as dense on each axis.
//
// New always returns a usable Surface. When the geometry or density cannot
// produce a raster the error is ErrDegenerate or ErrUnavailable, and the
// returned surface ignores erasure and reports Coverage 100.
func New(width, height int, density float64, opts ...Option) (*Surface, error) {
	o := options{seed: defaultSeed, label: true}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Surface{width: width, height: height, density: density}
	if math.IsNaN(density) || math.IsInf(density, 0) || density <= 0 {
		s.err = ErrUnavailable
		return s, s.err
	}
	if width <= 0 || height <= 0 {
		s.err = ErrDegenerate
		return s, s.err
	}
	bwf := math.Trunc(float64(width) * density)
	bhf := math.Trunc(float64(height) * density)
	if bwf < 1 || bhf < 1 {
		s.err = ErrDegenerate
		return s, s.err
	}
	if bwf*bhf > maxPixels {
		s.err = ErrUnavailable
		return s, s.err
	}

	bw, bh := int(bwf), int(bhf)
	s.sx = bwf / float64(width)
	s.sy = bhf / float64(height)
	s.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
	s.total = bw * bh
	paintTexture(s, o)
	s.dirty = s.img.Bounds()
	return s, nil
}

// Err returns the degradation error, if any.
func (s *Surface) Err() error { return s.err }

// Bounds returns the display-space extent.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// Size returns the buffer dimensions in pixels.
func (s *Surface) Size() (w, h int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Density() float64 { return s.density }

// Overlay returns the backing raster. Callers must not modify it.
func (s *Surface) Overlay() *image.RGBA { return s.img }

// EraseAt clears a filled circle of radius display pixels around (x, y),
// given in display coordinates. Points off the surface clip; non-finite
// input is ignored.
func (s *Surface) EraseAt(x, y, radius float64) {
	if s.img == nil {
		return
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return
	}

	b := s.img.Bounds()
	cx := x * s.sx
	cy := y * s.sy
	r := radius * s.density

	x0 := int(clampF(math.Floor(cx-r), 0, float64(b.Max.X)))
	x1 := int(clampF(math.Ceil(cx+r)+1, 0, float64(b.Max.X)))
	y0 := int(clampF(math.Floor(cy-r), 0, float64(b.Max.Y)))
	y1 := int(clampF(math.Ceil(cy+r)+1, 0, float64(b.Max.Y)))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	r2 := r * r
	touched := image.Rectangle{}
	for py := y0; py < y1; py++ {
		dy := float64(py) + 0.5 - cy
		dy2 := dy * dy
		if dy2 > r2 {
			continue
		}
		off := s.img.PixOffset(x0, py)
		for px := x0; px < x1; px, off = px+1, off+4 {
			dx := float64(px) + 0.5 - cx
			if dx*dx+dy2 > r2 {
				continue
			}
			p := s.img.Pix[off : off+4 : off+4]
			if p[3] == 0 && p[0]|p[1]|p[2] == 0 {
				continue
			}
			if p[3] >= ErasedAlpha {
				s.erased++
			}
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
			touched = touched.Union(image.Rect(px, py, px+1, py+1))
		}
	}
	s.dirty = s.dirty.Union(touched)
}

// Coverage returns the percentage of buffer pixels with alpha below
// ErasedAlpha. A degraded surface reports 100.
func (s *Surface) Coverage() float64 {
	if s.img == nil || s.total == 0 {
		return 100
	}
	return percent(s.erased, s.total)
}

// Rescan recomputes coverage from the raster.
func (s *Surface) Rescan() float64 {
	if s.img == nil || s.total == 0 {
		return 100
	}
	n := 0
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] < ErasedAlpha {
			n++
		}
	}
	return percent(n, s.total)
}

// AlphaAt returns the alpha of a buffer pixel; out of range reads as 0.
func (s *Surface) AlphaAt(x, y int) uint8 {
	if s.img == nil || !image.Pt(x, y).In(s.img.Bounds()) {
		return 0
	}
	return s.img.Pix[s.img.PixOffset(x, y)+3]
}

// TakeDirty returns the buffer region changed since the previous call and
// resets it. The first call after New covers the whole buffer.
func (s *Surface) TakeDirty() image.Rectangle {
	r := s.dirty
	s.dirty = image.Rectangle{}
	return r
}

func percent(n, total int) float64 {
	return float64(n) * 100 / float64(total)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

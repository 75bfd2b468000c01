package card

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"scratchcalc/internal/fbdraw"
	"scratchcalc/reveal"
)

var (
	colorPanel    = color.RGBA{R: 0x1e, G: 0x1b, B: 0x2e, A: 0xff}
	colorHint     = color.RGBA{R: 0x9a, G: 0x94, B: 0xb8, A: 0xff}
	colorText     = color.RGBA{R: 0xf5, G: 0xf3, B: 0xff, A: 0xff}
	colorBarBG    = color.RGBA{R: 0x3a, G: 0x35, B: 0x55, A: 0xff}
	colorBar      = color.RGBA{R: 0xec, G: 0x48, B: 0x99, A: 0xff}
	colorFunStart = color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}
	colorFunEnd   = color.RGBA{R: 0xec, G: 0x48, B: 0x99, A: 0xff}
)

const idleHint = "Press = to get a scratch card"

// paintUnder draws the answer layer the overlay hides, at buffer resolution.
func paintUnder(surf *reveal.Surface, text string) *image.RGBA {
	bw, bh := surf.Size()
	img := image.NewRGBA(image.Rect(0, 0, bw, bh))
	for x := 0; x < bw; x++ {
		f := float64(x) / float64(bw)
		c := color.RGBA{
			R: lerp(colorFunStart.R, colorFunEnd.R, f),
			G: lerp(colorFunStart.G, colorFunEnd.G, f),
			B: lerp(colorFunStart.B, colorFunEnd.B, f),
			A: 0xff,
		}
		for y := 0; y < bh; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	cv := &fbdraw.Canvas{Img: img, Scale: surf.Density()}
	b := surf.Bounds()
	cx := int16(b.Dx() / 2)
	cy := int16(b.Dy() / 2)
	fbdraw.Centered(cv, fbdraw.Large, cx, cy+4, text, colorText)
	fbdraw.Centered(cv, fbdraw.Medium, cx, cy+28, "Your Answer!", colorText)
	return img
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

// renderIdle shows the placeholder when no card is active.
func (t *Task) renderIdle() {
	r := t.cfg.Rect
	if r.Empty() {
		return
	}
	t.fb.Lock()
	defer t.fb.Unlock()

	t.fill(r, colorPanel)
	cx := int16((r.Min.X + r.Max.X) / 2)
	cy := int16((r.Min.Y + r.Max.Y) / 2)
	fbdraw.Centered(t.d, fbdraw.Small, cx, cy, idleHint, colorHint)
	_ = t.d.Display()
}

// clearCard draws the current card from scratch.
func (t *Task) clearCard() {
	c := t.cur
	if c == nil {
		return
	}
	t.fb.Lock()
	defer t.fb.Unlock()

	t.fill(t.cfg.Rect, colorPanel)
	if c.under != nil {
		fbdraw.Composite(t.fb, c.dev, c.under, c.surf.Overlay(), c.surf.TakeDirty())
	}
	t.drawHeader(c)
	c.headerDirty = false
	_ = t.d.Display()
}

// render pushes the overlay pixels erased since the last frame.
func (t *Task) render() {
	c := t.cur
	if c == nil {
		return
	}
	dirty := c.surf.TakeDirty()
	if dirty.Empty() && !c.headerDirty {
		return
	}

	t.fb.Lock()
	defer t.fb.Unlock()
	if !dirty.Empty() && c.under != nil {
		fbdraw.Composite(t.fb, c.dev, c.under, c.surf.Overlay(), dirty)
	}
	if c.headerDirty {
		t.drawHeader(c)
		c.headerDirty = false
	}
	_ = t.d.Display()
}

func (t *Task) drawHeader(c *card) {
	r := t.cfg.Rect
	h := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+headerHeight)
	t.fill(h, colorPanel)

	pct := c.sess.Percent()
	bar := image.Rect(h.Min.X, h.Max.Y-5, h.Max.X, h.Max.Y-2)
	t.fill(bar, colorBarBG)
	bar.Max.X = bar.Min.X + int(float64(bar.Dx())*pct/100)
	t.fill(bar, colorBar)

	base := int16(h.Min.Y + 12)
	fbdraw.Text(t.d, fbdraw.Small, int16(h.Min.X), base, fmt.Sprintf("%d%% revealed", int(math.Round(pct))), colorText)
	if c.message != "" {
		fbdraw.RightAligned(t.d, fbdraw.Small, int16(h.Max.X), base, c.message, colorHint)
	}
}

func (t *Task) fill(r image.Rectangle, c color.RGBA) {
	_ = t.d.FillRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), c)
}

package calculator

import (
	"image"
	"image/color"
	"strings"

	"scratchcalc/internal/fbdraw"
	"scratchcalc/internal/layout"
)

var (
	colorBG      = color.RGBA{R: 0x12, G: 0x10, B: 0x1c, A: 0xff}
	colorScreen  = color.RGBA{R: 0x1e, G: 0x1b, B: 0x2e, A: 0xff}
	colorText    = color.RGBA{R: 0xf5, G: 0xf3, B: 0xff, A: 0xff}
	colorDim     = color.RGBA{R: 0x9a, G: 0x94, B: 0xb8, A: 0xff}
	colorError   = color.RGBA{R: 0xf8, G: 0x71, B: 0x71, A: 0xff}
	colorKey     = color.RGBA{R: 0x2d, G: 0x29, B: 0x45, A: 0xff}
	colorOp      = color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}
	colorEquals  = color.RGBA{R: 0xec, G: 0x48, B: 0x99, A: 0xff}
	colorPressed = color.RGBA{R: 0x5b, G: 0x55, B: 0x80, A: 0xff}
)

// The bundled fonts are ASCII only.
var asciiGlyphs = strings.NewReplacer("×", "x", "÷", "/")

func (t *Task) render() {
	t.fb.Lock()
	defer t.fb.Unlock()
	t.drawDisplay()
	t.drawKeypad()
	_ = t.d.Display()
}

func (t *Task) renderKeypad() {
	t.fb.Lock()
	defer t.fb.Unlock()
	t.drawKeypad()
	_ = t.d.Display()
}

func (t *Task) drawDisplay() {
	r := t.lay.Display
	if r.Empty() {
		return
	}
	t.fill(r, colorScreen)

	right := int16(r.Max.X - 6)
	if p := t.calc.Pending(); p != "" {
		fbdraw.RightAligned(t.d, fbdraw.Small, right, int16(r.Min.Y+12), asciiGlyphs.Replace(p), colorDim)
	}
	c := colorText
	if t.calc.Err() != nil {
		c = colorError
	}
	fbdraw.RightAligned(t.d, fbdraw.Large, right, int16(r.Max.Y-8), t.calc.DisplayText(), c)
}

func (t *Task) drawKeypad() {
	if t.lay.Keypad.Empty() {
		return
	}
	t.fill(t.lay.Keypad, colorBG)
	down := make(map[rune]bool, len(t.pressed))
	for _, b := range t.pressed {
		down[b.Key] = true
	}
	for _, b := range t.lay.Buttons {
		t.fill(b.Rect, keyColor(b, down[b.Key]))
		cx := int16((b.Rect.Min.X + b.Rect.Max.X) / 2)
		cy := int16((b.Rect.Min.Y + b.Rect.Max.Y) / 2)
		fbdraw.Centered(t.d, fbdraw.Medium, cx, cy+6, asciiGlyphs.Replace(b.Label), colorText)
	}
}

func keyColor(b layout.Button, pressed bool) color.RGBA {
	switch {
	case pressed:
		return colorPressed
	case b.Key == '=':
		return colorEquals
	case b.Key == 'c', strings.ContainsRune("+-×÷", b.Key):
		return colorOp
	default:
		return colorKey
	}
}

func (t *Task) fill(r image.Rectangle, c color.RGBA) {
	_ = t.d.FillRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), c)
}

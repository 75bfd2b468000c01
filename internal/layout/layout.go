// Package layout places the calculator display, the card and the keypad on
// the screen. All rectangles are display pixels.
package layout

import "image"

const margin = 6

// Button is one keypad key.
type Button struct {
	Label string
	// Key is the rune the button feeds into the calculator task.
	Key  rune
	Rect image.Rectangle
}

// Layout is the screen split.
type Layout struct {
	Display image.Rectangle
	Card    image.Rectangle
	Keypad  image.Rectangle
	Buttons []Button
}

// ButtonAt returns the button containing p.
func (l Layout) ButtonAt(p image.Point) (Button, bool) {
	for _, b := range l.Buttons {
		if p.In(b.Rect) {
			return b, true
		}
	}
	return Button{}, false
}

// keypad cells: column, row, column span, row span.
var keys = []struct {
	label      string
	key        rune
	col, row   int
	cols, rows int
}{
	{"C", 'c', 0, 0, 2, 1},
	{"÷", '÷', 2, 0, 1, 1},
	{"×", '×', 3, 0, 1, 1},
	{"7", '7', 0, 1, 1, 1},
	{"8", '8', 1, 1, 1, 1},
	{"9", '9', 2, 1, 1, 1},
	{"-", '-', 3, 1, 1, 1},
	{"4", '4', 0, 2, 1, 1},
	{"5", '5', 1, 2, 1, 1},
	{"6", '6', 2, 2, 1, 1},
	{"+", '+', 3, 2, 1, 1},
	{"1", '1', 0, 3, 1, 1},
	{"2", '2', 1, 3, 1, 1},
	{"3", '3', 2, 3, 1, 1},
	{"=", '=', 3, 3, 1, 2},
	{"0", '0', 0, 4, 2, 1},
	{".", '.', 2, 4, 1, 1},
}

const (
	gridCols = 4
	gridRows = 5
)

// Compute splits a w x h screen.
func Compute(w, h int) Layout {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	displayBottom := h * 16 / 100
	cardBottom := h / 2

	l := Layout{
		Display: inset(image.Rect(0, 0, w, displayBottom)),
		Card:    inset(image.Rect(0, displayBottom, w, cardBottom)),
		Keypad:  inset(image.Rect(0, cardBottom, w, h)),
	}

	kp := l.Keypad
	cw := float64(kp.Dx()) / gridCols
	ch := float64(kp.Dy()) / gridRows
	for _, k := range keys {
		r := image.Rect(
			kp.Min.X+int(float64(k.col)*cw),
			kp.Min.Y+int(float64(k.row)*ch),
			kp.Min.X+int(float64(k.col+k.cols)*cw),
			kp.Min.Y+int(float64(k.row+k.rows)*ch),
		)
		l.Buttons = append(l.Buttons, Button{Label: k.label, Key: k.key, Rect: inset2(r, 2)})
	}
	return l
}

func inset(r image.Rectangle) image.Rectangle {
	return inset2(r, margin)
}

func inset2(r image.Rectangle, n int) image.Rectangle {
	if r.Dx() <= 2*n || r.Dy() <= 2*n {
		return r
	}
	return r.Inset(n)
}

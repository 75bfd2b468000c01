package fbdraw

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	// Small is used for hints, the pending expression and the panic screen.
	Small tinyfont.Fonter = &proggy.TinySZ8pt7b
	// Medium is used for keypad labels and card captions.
	Medium tinyfont.Fonter = &freesans.Bold9pt7b
	// Large is used for the calculator display and the revealed result.
	Large tinyfont.Fonter = &freesans.Bold12pt7b
)

// Text draws s with its baseline at y.
func Text(d drivers.Displayer, f tinyfont.Fonter, x, y int16, s string, c color.RGBA) {
	tinyfont.WriteLine(d, f, x, y, s, c)
}

// TextWidth returns the advance width of s in display pixels.
func TextWidth(f tinyfont.Fonter, s string) int16 {
	_, outbox := tinyfont.LineWidth(f, s)
	return int16(outbox)
}

// Centered draws s horizontally centered on cx.
func Centered(d drivers.Displayer, f tinyfont.Fonter, cx, y int16, s string, c color.RGBA) {
	Text(d, f, cx-TextWidth(f, s)/2, y, s, c)
}

// RightAligned draws s so that it ends at right.
func RightAligned(d drivers.Displayer, f tinyfont.Fonter, right, y int16, s string, c color.RGBA) {
	Text(d, f, right-TextWidth(f, s), y, s, c)
}

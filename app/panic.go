package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"scratchcalc/hal"
	"scratchcalc/internal/fbdraw"
	"scratchcalc/kernel"
)

const panicLineHeight = 10

func installPanicHandler(k *kernel.Kernel, h hal.HAL) {
	k.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil {
			return
		}

		fb.Lock()
		defer fb.Unlock()

		d := fbdraw.New(fb, disp.Scale())
		d.Clear(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

		w, hgt := d.Size()
		charW := fbdraw.TextWidth(fbdraw.Small, "0")
		if charW <= 0 {
			_ = fb.Present()
			return
		}
		cols := int(w / charW)
		if cols <= 0 {
			cols = 1
		}

		fg := color.RGBA{A: 0xff}
		y := int16(panicLineHeight)
		for _, line := range lines {
			for len(line) > 0 {
				if y > hgt {
					_ = fb.Present()
					return
				}
				chunk, rest := takeRunes(line, cols)
				fbdraw.Text(d, fbdraw.Small, 0, y, chunk, fg)
				y += panicLineHeight
				line = strings.TrimLeft(rest, " ")
			}
		}
		_ = fb.Present()
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("value: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
	}
	return lines
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}

//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// poll samples the left mouse button and all touches. Positions arrive in
// framebuffer pixels and are divided by scale.
func (p *hostPointer) poll(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	ev := func(a PointerAction, src PointerSource, id, x, y int) PointerEvent {
		return PointerEvent{
			Action: a,
			Source: src,
			ID:     id,
			X:      float64(x) / scale,
			Y:      float64(y) / scale,
		}
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.mouseDown = true
		p.mouseX, p.mouseY = x, y
		p.emit(ev(PointerDown, SourceMouse, 0, x, y))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if p.mouseDown {
			p.mouseDown = false
			p.emit(ev(PointerUp, SourceMouse, 0, x, y))
		}
	case p.mouseDown && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if x != p.mouseX || y != p.mouseY {
			p.mouseX, p.mouseY = x, y
			p.emit(ev(PointerMove, SourceMouse, 0, x, y))
		}
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		p.touches[int(id)] = [2]int{tx, ty}
		p.emit(ev(PointerDown, SourceTouch, int(id), tx, ty))
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		last, ok := p.touches[int(id)]
		if !ok {
			continue
		}
		tx, ty := ebiten.TouchPosition(id)
		if tx == last[0] && ty == last[1] {
			continue
		}
		p.touches[int(id)] = [2]int{tx, ty}
		p.emit(ev(PointerMove, SourceTouch, int(id), tx, ty))
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		if _, ok := p.touches[int(id)]; !ok {
			continue
		}
		delete(p.touches, int(id))
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		p.emit(ev(PointerUp, SourceTouch, int(id), tx, ty))
	}
}

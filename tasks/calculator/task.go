// Package calculator is the foreground task: it owns the calculator state,
// draws the display and keypad, reads keyboard and pointer input, and hands
// results to the card task.
package calculator

import (
	"errors"
	"image"

	logclient "scratchcalc/client/logger"
	"scratchcalc/calc"
	"scratchcalc/hal"
	"scratchcalc/internal/fbdraw"
	"scratchcalc/internal/layout"
	"scratchcalc/kernel"
	"scratchcalc/proto"
)

type contact struct {
	source hal.PointerSource
	id     int
}

type Task struct {
	disp hal.Display
	in   hal.Input

	// ep receives card replies; replyCap is handed to the card task.
	ep       kernel.Capability
	replyCap kernel.Capability
	cardCap  kernel.Capability
	logCap   kernel.Capability

	lay  layout.Layout
	calc *calc.Calculator

	fb hal.Framebuffer
	d  *fbdraw.Display

	cardID     uint32
	cardActive bool

	// captured contacts began on the card and are forwarded until release.
	captured map[contact]bool
	// pressed contacts began on a keypad button.
	pressed map[contact]layout.Button
}

func New(disp hal.Display, in hal.Input, ep, replyCap, cardCap, logCap kernel.Capability) *Task {
	return &Task{
		disp:     disp,
		in:       in,
		ep:       ep,
		replyCap: replyCap,
		cardCap:  cardCap,
		logCap:   logCap,
		calc:     calc.New(),
		captured: make(map[contact]bool),
		pressed:  make(map[contact]layout.Button),
	}
}

// Layout returns the screen split used by the task for a display.
func Layout(disp hal.Display) layout.Layout {
	fb := disp.Framebuffer()
	if fb == nil {
		return layout.Compute(0, 0)
	}
	s := disp.Scale()
	if s <= 0 {
		s = 1
	}
	return layout.Compute(int(float64(fb.Width())/s), int(float64(fb.Height())/s))
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if t.disp == nil || t.in == nil {
		return
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil {
		return
	}
	t.d = fbdraw.New(t.fb, t.disp.Scale())
	t.lay = Layout(t.disp)

	var keys <-chan hal.KeyEvent
	if kbd := t.in.Keyboard(); kbd != nil {
		keys = kbd.Events()
	}
	var ptrs <-chan hal.PointerEvent
	if ptr := t.in.Pointer(); ptr != nil {
		ptrs = ptr.Events()
	}

	t.render()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			t.handleReply(ctx, msg)
		case ev := <-keys:
			if !ev.Press {
				continue
			}
			if r, ok := keyRune(ev); ok {
				t.press(ctx, r)
			}
		case ev := <-ptrs:
			t.handlePointer(ctx, ev)
		}
	}
}

func keyRune(ev hal.KeyEvent) (rune, bool) {
	switch ev.Code {
	case hal.KeyEnter:
		return '=', true
	case hal.KeyEscape, hal.KeyDelete:
		return 'c', true
	}
	switch r := ev.Rune; {
	case r >= '0' && r <= '9', r == '.', r == '=':
		return r, true
	case r == 'c' || r == 'C':
		return 'c', true
	default:
		if op, ok := calc.ParseOperator(r); ok {
			return rune(op), true
		}
	}
	return 0, false
}

func (t *Task) handlePointer(ctx *kernel.Context, ev hal.PointerEvent) {
	c := contact{source: ev.Source, id: ev.ID}
	p := image.Pt(int(ev.X), int(ev.Y))

	switch ev.Action {
	case hal.PointerDown:
		if t.cardActive && p.In(t.lay.Card) {
			t.captured[c] = true
			t.forward(ctx, ev)
			return
		}
		if b, ok := t.lay.ButtonAt(p); ok {
			t.pressed[c] = b
			t.renderKeypad()
		}
	case hal.PointerMove:
		if t.captured[c] {
			t.forward(ctx, ev)
		}
	case hal.PointerUp:
		if t.captured[c] {
			delete(t.captured, c)
			t.forward(ctx, ev)
			return
		}
		b, ok := t.pressed[c]
		if !ok {
			return
		}
		delete(t.pressed, c)
		if hit, ok := t.lay.ButtonAt(p); ok && hit.Key == b.Key {
			t.press(ctx, b.Key)
			return
		}
		t.renderKeypad()
	}
}

// forward passes a captured contact to the card. Coordinates stay in
// viewport space; the card subtracts its own origin.
func (t *Task) forward(ctx *kernel.Context, ev hal.PointerEvent) {
	payload := proto.PointerPayload(proto.Pointer{
		Action: uint8(ev.Action),
		Source: uint8(ev.Source),
		ID:     int32(ev.ID),
		X:      ev.X,
		Y:      ev.Y,
	})
	if res := ctx.SendToCapWait(t.cardCap, uint16(proto.MsgPointer), payload, kernel.Capability{}); res != kernel.SendOK {
		logclient.Logf(ctx, t.logCap, "calc: pointer to card: %s", res)
	}
}

func (t *Task) press(ctx *kernel.Context, r rune) {
	switch {
	case r >= '0' && r <= '9':
		t.calc.InputDigit(r)
	case r == '.':
		t.calc.InputDecimal()
	case r == '=':
		t.equals(ctx)
	case r == 'c':
		t.clear(ctx)
	default:
		op, ok := calc.ParseOperator(r)
		if !ok {
			return
		}
		if err := t.calc.InputOperator(op); err != nil {
			logclient.Logf(ctx, t.logCap, "calc: %v", err)
		}
	}
	t.render()
}

func (t *Task) equals(ctx *kernel.Context) {
	expr := t.calc.Pending() + " " + t.calc.Display()
	v, err := t.calc.Equals()
	if err != nil {
		if !errors.Is(err, calc.ErrIncomplete) {
			logclient.Logf(ctx, t.logCap, "calc: %s: %v", expr, err)
		}
		return
	}
	if t.cardActive {
		t.captured = make(map[contact]bool)
	}
	t.cardID++
	t.cardActive = true
	res := ctx.SendToCapWait(t.cardCap, uint16(proto.MsgCardStart), proto.CardStartPayload(t.cardID, v), t.replyCap)
	if res != kernel.SendOK {
		t.cardActive = false
		logclient.Logf(ctx, t.logCap, "calc: card start: %s", res)
		return
	}
	logclient.Logf(ctx, t.logCap, "calc: %s = card %d", expr, t.cardID)
}

func (t *Task) clear(ctx *kernel.Context) {
	t.calc.Clear()
	if t.cardActive {
		t.cardActive = false
		t.captured = make(map[contact]bool)
		ctx.SendToCapWait(t.cardCap, uint16(proto.MsgCardDiscard), proto.CardDiscardPayload(t.cardID), kernel.Capability{})
	}
	logclient.Log(ctx, t.logCap, "calc: cleared")
}

func (t *Task) handleReply(ctx *kernel.Context, msg kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgCardRevealed:
		id, v, ok := proto.DecodeCardRevealedPayload(msg.Payload())
		if !ok || !t.cardActive || id != t.cardID {
			return
		}
		t.cardActive = false
		t.captured = make(map[contact]bool)
		t.calc.SetResult(v)
		logclient.Logf(ctx, t.logCap, "calc: card %d revealed %s", id, t.calc.Display())
		t.render()
	case proto.MsgError:
		code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok {
			return
		}
		logclient.Logf(ctx, t.logCap, "calc: card error %s on %s", code, ref)
	}
}

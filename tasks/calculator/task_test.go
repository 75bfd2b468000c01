package calculator

import (
	"image"
	"log/slog"
	"strings"
	"testing"
	"time"

	"scratchcalc/hal"
	"scratchcalc/internal/layout"
	"scratchcalc/kernel"
	"scratchcalc/proto"
)

type harness struct {
	t    *testing.T
	k    *kernel.Kernel
	h    *hal.Host
	lay  layout.Layout
	card kernel.Capability
	log  kernel.Capability
	ctx  chan *kernel.Context
}

type probe struct{ ctx chan *kernel.Context }

func (p probe) Run(ctx *kernel.Context) {
	p.ctx <- ctx
	<-ctx.Done()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	k := kernel.New()
	h := hal.NewHost(hal.HostConfig{Width: 320, Height: 480, Scale: 1, Log: hal.NewLogWriterLogger(nil, slog.LevelInfo)})

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	cardEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	k.AddTask(New(h.Display(), h.Input(),
		calcEP.Restrict(kernel.RightRecv),
		calcEP.Restrict(kernel.RightSend),
		cardEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
	))
	ctxCh := make(chan *kernel.Context, 1)
	k.AddTask(probe{ctx: ctxCh})

	t.Cleanup(func() {
		k.Stop()
		k.Wait()
	})
	return &harness{t: t, k: k, h: h, lay: Layout(h.Display()), card: cardEP, log: logEP, ctx: ctxCh}
}

func (hs *harness) context() *kernel.Context {
	select {
	case ctx := <-hs.ctx:
		hs.ctx <- ctx
		return ctx
	case <-time.After(time.Second):
		hs.t.Fatal("probe task did not start")
		return nil
	}
}

func (hs *harness) keys(s string) {
	for _, r := range s {
		hs.h.InjectKey(hal.KeyEvent{Press: true, Rune: r})
	}
}

func (hs *harness) tap(key rune) {
	hs.t.Helper()
	for _, b := range hs.lay.Buttons {
		if b.Key != key {
			continue
		}
		c := center(b.Rect)
		hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerDown, X: c.X, Y: c.Y})
		hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerUp, X: c.X, Y: c.Y})
		return
	}
	hs.t.Fatalf("no button %q", key)
}

type point struct{ X, Y float64 }

func center(r image.Rectangle) point {
	return point{X: float64(r.Min.X+r.Max.X) / 2, Y: float64(r.Min.Y+r.Max.Y) / 2}
}

// cardMsg waits for the next message sent to the card endpoint.
func (hs *harness) cardMsg(d time.Duration) (kernel.Message, bool) {
	ch, _ := hs.context().RecvChan(hs.card)
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d):
		return kernel.Message{}, false
	}
}

// waitLog waits for a log line containing want.
func (hs *harness) waitLog(want string) {
	hs.t.Helper()
	ch, _ := hs.context().RecvChan(hs.log)
	deadline := time.After(2 * time.Second)
	var seen []string
	for {
		select {
		case msg := <-ch:
			line := string(msg.Payload())
			if strings.Contains(line, want) {
				return
			}
			seen = append(seen, line)
		case <-deadline:
			hs.t.Fatalf("no log line %q, saw %q", want, seen)
		}
	}
}

func (hs *harness) start(t *testing.T, input string) (uint32, float64, kernel.Capability) {
	t.Helper()
	hs.keys(input)
	msg, ok := hs.cardMsg(2 * time.Second)
	if !ok {
		t.Fatal("no card start")
	}
	if proto.Kind(msg.Kind) != proto.MsgCardStart {
		t.Fatalf("kind = %s, want card_start", proto.Kind(msg.Kind))
	}
	id, v, ok := proto.DecodeCardStartPayload(msg.Payload())
	if !ok {
		t.Fatal("bad card start payload")
	}
	if !msg.Cap.Valid() {
		t.Fatal("card start carries no reply capability")
	}
	return id, v, msg.Cap
}

func TestCalculatorStartsCardOnEquals(t *testing.T) {
	hs := newHarness(t)
	id, v, _ := hs.start(t, "12+3=")
	if id != 1 || v != 15 {
		t.Fatalf("card start = %d,%v, want 1,15", id, v)
	}
}

func TestCalculatorShowsRevealedResult(t *testing.T) {
	hs := newHarness(t)
	id, v, reply := hs.start(t, "6*7=")
	if v != 42 {
		t.Fatalf("result = %v, want 42", v)
	}

	ctx := hs.context()
	if res := ctx.SendToCapWait(reply, uint16(proto.MsgCardRevealed), proto.CardRevealedPayload(id, v), kernel.Capability{}); res != kernel.SendOK {
		t.Fatalf("reply: %s", res)
	}
	hs.waitLog("revealed 42")
}

func TestCalculatorIgnoresStaleReveal(t *testing.T) {
	hs := newHarness(t)
	id, _, reply := hs.start(t, "1+1=")

	ctx := hs.context()
	ctx.SendToCapWait(reply, uint16(proto.MsgCardRevealed), proto.CardRevealedPayload(id+7, 99), kernel.Capability{})
	ctx.SendToCapWait(reply, uint16(proto.MsgCardRevealed), proto.CardRevealedPayload(id, 2), kernel.Capability{})
	hs.waitLog("card 1 revealed 2")
}

func TestCalculatorDivisionByZeroStartsNoCard(t *testing.T) {
	hs := newHarness(t)
	hs.keys("8/0=")
	hs.waitLog("division by zero")
	if msg, ok := hs.cardMsg(100 * time.Millisecond); ok {
		t.Fatalf("unexpected %s", proto.Kind(msg.Kind))
	}
}

func TestCalculatorKeypadTaps(t *testing.T) {
	hs := newHarness(t)
	for _, k := range "9-4=" {
		hs.tap(k)
	}
	msg, ok := hs.cardMsg(2 * time.Second)
	if !ok {
		t.Fatal("no card start")
	}
	if _, v, _ := proto.DecodeCardStartPayload(msg.Payload()); v != 5 {
		t.Fatalf("result = %v, want 5", v)
	}
}

func TestCalculatorForwardsCardContacts(t *testing.T) {
	hs := newHarness(t)
	hs.start(t, "2+2=")

	c := center(hs.lay.Card)
	hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerDown, Source: hal.SourceTouch, ID: 3, X: c.X, Y: c.Y})
	// The contact stays captured after leaving the card.
	hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerMove, Source: hal.SourceTouch, ID: 3, X: c.X, Y: 470})
	hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerUp, Source: hal.SourceTouch, ID: 3, X: c.X, Y: 470})

	want := []hal.PointerAction{hal.PointerDown, hal.PointerMove, hal.PointerUp}
	for i, action := range want {
		msg, ok := hs.cardMsg(2 * time.Second)
		if !ok {
			t.Fatalf("pointer %d not forwarded", i)
		}
		p, ok := proto.DecodePointerPayload(msg.Payload())
		if proto.Kind(msg.Kind) != proto.MsgPointer || !ok {
			t.Fatalf("message %d = %s", i, proto.Kind(msg.Kind))
		}
		if hal.PointerAction(p.Action) != action || p.ID != 3 || hal.PointerSource(p.Source) != hal.SourceTouch {
			t.Fatalf("pointer %d = %+v", i, p)
		}
	}
}

func TestCalculatorDropsCardContactsWithoutCard(t *testing.T) {
	hs := newHarness(t)
	c := center(hs.lay.Card)
	hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerDown, X: c.X, Y: c.Y})
	hs.h.InjectPointer(hal.PointerEvent{Action: hal.PointerUp, X: c.X, Y: c.Y})

	if msg, ok := hs.cardMsg(100 * time.Millisecond); ok {
		t.Fatalf("unexpected %s", proto.Kind(msg.Kind))
	}
}

func TestCalculatorClearDiscardsCard(t *testing.T) {
	hs := newHarness(t)
	id, _, _ := hs.start(t, "3*3=")

	hs.h.InjectKey(hal.KeyEvent{Code: hal.KeyEscape, Press: true})
	msg, ok := hs.cardMsg(2 * time.Second)
	if !ok {
		t.Fatal("no discard")
	}
	got, ok := proto.DecodeCardDiscardPayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgCardDiscard || !ok || got != id {
		t.Fatalf("message = %s id %d", proto.Kind(msg.Kind), got)
	}
}

func TestKeyRune(t *testing.T) {
	tests := []struct {
		ev   hal.KeyEvent
		want rune
		ok   bool
	}{
		{hal.KeyEvent{Rune: '7'}, '7', true},
		{hal.KeyEvent{Rune: '*'}, '×', true},
		{hal.KeyEvent{Rune: '/'}, '÷', true},
		{hal.KeyEvent{Rune: 'C'}, 'c', true},
		{hal.KeyEvent{Code: hal.KeyEnter}, '=', true},
		{hal.KeyEvent{Code: hal.KeyDelete}, 'c', true},
		{hal.KeyEvent{Rune: 'q'}, 0, false},
	}
	for _, tt := range tests {
		got, ok := keyRune(tt.ev)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyRune(%+v) = %q,%v, want %q,%v", tt.ev, got, ok, tt.want, tt.ok)
		}
	}
}

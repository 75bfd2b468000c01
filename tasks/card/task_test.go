package card

import (
	"image"
	"log/slog"
	"testing"
	"time"

	"scratchcalc/hal"
	"scratchcalc/kernel"
	"scratchcalc/proto"
)

type harness struct {
	t     *testing.T
	k     *kernel.Kernel
	h     *hal.Host
	card  kernel.Capability
	reply kernel.Capability
	ctx   chan *kernel.Context
	rect  image.Rectangle
}

// probe hands its context to the test so the test can send and receive.
type probe struct{ ctx chan *kernel.Context }

func (p probe) Run(ctx *kernel.Context) {
	p.ctx <- ctx
	<-ctx.Done()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	k := kernel.New()
	h := hal.NewHost(hal.HostConfig{Width: 320, Height: 240, Scale: 1, Log: hal.NewLogWriterLogger(nil, slog.LevelInfo)})

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	cardEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	replyEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	rect := image.Rect(10, 20, 310, 242)
	k.AddTask(New(h.Display(), cardEP.Restrict(kernel.RightRecv), logEP.Restrict(kernel.RightSend), Config{Rect: rect, Seed: 5}))

	ctxCh := make(chan *kernel.Context, 1)
	k.AddTask(probe{ctx: ctxCh})

	hs := &harness{t: t, k: k, h: h, card: cardEP.Restrict(kernel.RightSend), reply: replyEP, ctx: ctxCh, rect: rect}
	t.Cleanup(func() {
		k.Stop()
		k.Wait()
	})
	return hs
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

func (hs *harness) send(kind proto.Kind, payload []byte, xfer kernel.Capability) {
	hs.t.Helper()
	if res := hs.context().SendToCapWait(hs.card, uint16(kind), payload, xfer); res != kernel.SendOK {
		hs.t.Fatalf("send %s: %s", kind, res)
	}
}

func (hs *harness) pointer(action hal.PointerAction, x, y float64) {
	hs.send(proto.MsgPointer, proto.PointerPayload(proto.Pointer{Action: uint8(action), X: x, Y: y}), kernel.Capability{})
}

// sweep covers the whole surface with a serpentine drag.
func (hs *harness) sweep() {
	top := hs.rect.Min.Y + headerHeight
	hs.pointer(hal.PointerDown, float64(hs.rect.Min.X), float64(top))
	for y := top; y <= hs.rect.Max.Y; y += 20 {
		for x := hs.rect.Min.X; x <= hs.rect.Max.X; x += 20 {
			hs.pointer(hal.PointerMove, float64(x), float64(y))
		}
	}
	hs.pointer(hal.PointerUp, 0, 0)
}

// waitReply ticks the kernel forward until a message reaches the reply
// endpoint or the deadline passes.
func (hs *harness) waitReply(d time.Duration) (kernel.Message, bool) {
	ch, _ := hs.context().RecvChan(hs.reply)
	deadline := time.After(d)
	tick := uint64(0)
	for {
		select {
		case msg := <-ch:
			return msg, true
		case <-deadline:
			return kernel.Message{}, false
		case <-time.After(time.Millisecond):
			tick += 50
			hs.k.TickTo(tick)
		}
	}
}

func TestCardRevealsAfterSweep(t *testing.T) {
	hs := newHarness(t)
	hs.send(proto.MsgCardStart, proto.CardStartPayload(1, 15), hs.reply)
	hs.sweep()

	msg, ok := hs.waitReply(3 * time.Second)
	if !ok {
		t.Fatal("no reveal reply")
	}
	if proto.Kind(msg.Kind) != proto.MsgCardRevealed {
		t.Fatalf("reply kind = %s", proto.Kind(msg.Kind))
	}
	id, v, ok := proto.DecodeCardRevealedPayload(msg.Payload())
	if !ok || id != 1 || v != 15 {
		t.Fatalf("reply = %d,%v,%v", id, v, ok)
	}

	if _, ok := hs.waitReply(200 * time.Millisecond); ok {
		t.Fatal("second reply after reveal")
	}
}

func TestCardShowsOverlay(t *testing.T) {
	hs := newHarness(t)
	hs.send(proto.MsgCardStart, proto.CardStartPayload(2, 42), hs.reply)

	x, y := hs.rect.Min.X+4, hs.rect.Min.Y+headerHeight+4
	deadline := time.Now().Add(2 * time.Second)
	for {
		r, g, b, _ := hs.h.PixelAt(x, y)
		if r > 0x90 && r == b && g >= r-8 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("pixel %d,%d = %d,%d,%d, want metallic grey", x, y, r, g, b)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCardDiscardCancelsReveal(t *testing.T) {
	hs := newHarness(t)
	hs.send(proto.MsgCardStart, proto.CardStartPayload(3, 7), hs.reply)
	hs.sweep()
	hs.send(proto.MsgCardDiscard, proto.CardDiscardPayload(3), kernel.Capability{})

	if msg, ok := hs.waitReply(700 * time.Millisecond); ok {
		t.Fatalf("discarded card replied with %s", proto.Kind(msg.Kind))
	}
}

func TestCardReplacedCardNeverReveals(t *testing.T) {
	hs := newHarness(t)
	hs.send(proto.MsgCardStart, proto.CardStartPayload(4, 1), hs.reply)
	hs.sweep()
	hs.send(proto.MsgCardStart, proto.CardStartPayload(5, 2), hs.reply)
	hs.sweep()

	msg, ok := hs.waitReply(3 * time.Second)
	if !ok {
		t.Fatal("no reveal reply")
	}
	if id, _, _ := proto.DecodeCardRevealedPayload(msg.Payload()); id != 5 {
		t.Fatalf("revealed card %d, want 5", id)
	}
}

func TestCardBadStartPayload(t *testing.T) {
	hs := newHarness(t)
	hs.send(proto.MsgCardStart, []byte{1, 2}, hs.reply)

	msg, ok := hs.waitReply(time.Second)
	if !ok {
		t.Fatal("no error reply")
	}
	code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgError || !ok || code != proto.ErrBadMessage || ref != proto.MsgCardStart {
		t.Fatalf("reply = %s %s %s", proto.Kind(msg.Kind), code, ref)
	}
}

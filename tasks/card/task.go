// Package card is the task that owns the scratch card. Every surface
// mutation and coverage query of a session happens on its goroutine.
package card

import (
	"fmt"
	"image"
	"math"
	"time"

	logclient "scratchcalc/client/logger"
	"scratchcalc/hal"
	"scratchcalc/internal/chime"
	"scratchcalc/internal/fbdraw"
	"scratchcalc/internal/numfmt"
	"scratchcalc/kernel"
	"scratchcalc/proto"
	"scratchcalc/reveal"
	"scratchcalc/scratch"

	"golang.org/x/text/language"
)

// headerHeight is the strip above the surface holding progress and messages.
const headerHeight = 22

// Config places and tunes the card.
type Config struct {
	// Rect is the card area in display pixels.
	Rect        image.Rectangle
	BrushRadius float64
	Seed        uint32
	Locale      language.Tag
	// Chime plays cues; nil is silent.
	Chime *chime.Player
}

type Task struct {
	disp   hal.Display
	ep     kernel.Capability
	logCap kernel.Capability
	cfg    Config

	fb hal.Framebuffer
	d  *fbdraw.Display

	cur *card
}

// card is the state of the current result.
type card struct {
	id     uint32
	result float64
	text   string
	reply  kernel.Capability

	area  image.Rectangle
	surf  *reveal.Surface
	sess  *scratch.Session
	under *image.RGBA
	// dev is the surface origin in framebuffer pixels.
	dev image.Point

	message      string
	headerDirty  bool
	revealedSent bool
}

func New(disp hal.Display, ep kernel.Capability, logCap kernel.Capability, cfg Config) *Task {
	if cfg.BrushRadius <= 0 {
		cfg.BrushRadius = scratch.DefaultBrushRadius
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.AmericanEnglish
	}
	return &Task{disp: disp, ep: ep, logCap: logCap, cfg: cfg}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if t.disp == nil {
		return
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil {
		return
	}
	t.d = fbdraw.New(t.fb, t.disp.Scale())
	t.renderIdle()

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.discard(ctx, "shutdown")
			return
		case msg := <-ch:
			t.handle(ctx, msg)
			// Drain queued pointer samples before drawing once.
			for {
				msg, ok := ctx.TryRecv(t.ep)
				if !ok {
					break
				}
				t.handle(ctx, msg)
			}
			t.render()
		case tick := <-tickCh:
			t.advance(tick)
		}
	}
}

func (t *Task) handle(ctx *kernel.Context, msg kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgCardStart:
		id, result, ok := proto.DecodeCardStartPayload(msg.Payload())
		if !ok {
			t.replyError(ctx, msg.Cap, proto.ErrBadMessage, proto.MsgCardStart)
			return
		}
		t.start(ctx, id, result, msg.Cap)

	case proto.MsgCardDiscard:
		id, ok := proto.DecodeCardDiscardPayload(msg.Payload())
		if !ok || t.cur == nil || t.cur.id != id {
			return
		}
		t.discard(ctx, "discarded")
		t.renderIdle()

	case proto.MsgPointer:
		p, ok := proto.DecodePointerPayload(msg.Payload())
		if !ok || t.cur == nil {
			return
		}
		ev, ok := pointerEvent(p)
		if !ok {
			return
		}
		t.cur.sess.Handle(ev, now(ctx))
	}
}

func (t *Task) start(ctx *kernel.Context, id uint32, result float64, reply kernel.Capability) {
	if t.cur != nil {
		t.discard(ctx, fmt.Sprintf("replaced by card %d", id))
	}

	area := t.cfg.Rect
	area.Min.Y += headerHeight
	if area.Max.Y < area.Min.Y {
		area.Max.Y = area.Min.Y
	}
	scale := t.d.Scale()

	var opts []reveal.Option
	if t.cfg.Seed != 0 {
		opts = append(opts, reveal.WithSeed(t.cfg.Seed^id))
	}
	surf, err := reveal.New(area.Dx(), area.Dy(), scale, opts...)

	c := &card{
		id:          id,
		result:      result,
		text:        numfmt.Result(result, t.cfg.Locale),
		reply:       reply,
		area:        area,
		surf:        surf,
		dev:         image.Pt(int(math.Round(float64(area.Min.X)*scale)), int(math.Round(float64(area.Min.Y)*scale))),
		headerDirty: true,
	}
	if err != nil {
		c.message = "Card unavailable"
		logclient.Logf(ctx, t.logCap, "card %d: surface %v", id, err)
	} else {
		c.under = paintUnder(surf, c.text)
	}
	c.sess = scratch.New(surf, area.Min, scratch.Options{BrushRadius: t.cfg.BrushRadius}, scratch.Hooks{
		Started: func() {
			c.message = scratch.StartedMessage
			c.headerDirty = true
			t.cfg.Chime.Play(chime.CueStarted, 0)
			logclient.Logf(ctx, t.logCap, "card %d: started", id)
		},
		Progress: func(float64) { c.headerDirty = true },
		Tier: func(tier scratch.Tier) {
			c.message = tier.Message()
			t.cfg.Chime.Play(chime.CueTier, int(tier))
			logclient.Logf(ctx, t.logCap, "card %d: tier %s", id, tier)
		},
		Complete: func() { t.complete(ctx, c) },
	})
	t.cur = c
	t.clearCard()
	logclient.Logf(ctx, t.logCap, "card %d: start", id)
}

// advance runs a due completion. Hooks.Complete calls back into complete.
func (t *Task) advance(tick uint64) {
	if t.cur == nil {
		return
	}
	t.cur.sess.Advance(time.Duration(tick) * time.Millisecond)
}

func (t *Task) complete(ctx *kernel.Context, c *card) {
	if c.revealedSent {
		return
	}
	c.revealedSent = true
	t.cfg.Chime.Play(chime.CueComplete, 0)
	_ = logclient.LogRetry(ctx, t.logCap, fmt.Sprintf("card %d: revealed %s at %.1f%%", c.id, c.text, c.sess.Percent()))
	if c.reply.Valid() {
		if res := ctx.SendToCapWait(c.reply, uint16(proto.MsgCardRevealed), proto.CardRevealedPayload(c.id, c.result), kernel.Capability{}); res != kernel.SendOK {
			logclient.Logf(ctx, t.logCap, "card %d: reply: %s", c.id, res)
		}
	}
	if t.cur == c {
		t.cur = nil
		t.renderIdle()
	}
}

func (t *Task) discard(ctx *kernel.Context, why string) {
	c := t.cur
	if c == nil {
		return
	}
	c.sess.Discard()
	t.cur = nil
	logclient.Logf(ctx, t.logCap, "card %d: %s", c.id, why)
}

func (t *Task) replyError(ctx *kernel.Context, to kernel.Capability, code proto.ErrCode, ref proto.Kind) {
	logclient.Logf(ctx, t.logCap, "card: %s: %s", ref, code)
	if !to.Valid() {
		return
	}
	_ = ctx.SendToCapResult(to, uint16(proto.MsgError), proto.ErrorPayload(code, ref, nil), kernel.Capability{})
}

func now(ctx *kernel.Context) time.Duration {
	return time.Duration(ctx.NowTick()) * time.Millisecond
}

func pointerEvent(p proto.Pointer) (scratch.Event, bool) {
	ev := scratch.Event{ID: int(p.ID), X: p.X, Y: p.Y}
	switch hal.PointerAction(p.Action) {
	case hal.PointerDown:
		ev.Action = scratch.ActionDown
	case hal.PointerMove:
		ev.Action = scratch.ActionMove
	case hal.PointerUp:
		ev.Action = scratch.ActionUp
	default:
		return scratch.Event{}, false
	}
	if hal.PointerSource(p.Source) == hal.SourceTouch {
		ev.Source = scratch.SourceTouch
	}
	return ev, true
}

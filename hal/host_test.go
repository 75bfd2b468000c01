package hal

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHostScalesFramebuffer(t *testing.T) {
	h := NewHost(HostConfig{Width: 100, Height: 50, Scale: 2, Log: NewLogWriterLogger(nil, slog.LevelInfo)})
	fb := h.Display().Framebuffer()
	if fb.Width() != 200 || fb.Height() != 100 {
		t.Fatalf("framebuffer = %dx%d, want 200x100", fb.Width(), fb.Height())
	}
	if got := h.Display().Scale(); got != 2 {
		t.Fatalf("Scale() = %v, want 2", got)
	}
	if fb.StrideBytes() != 400 {
		t.Fatalf("StrideBytes() = %d, want 400", fb.StrideBytes())
	}
}

func TestNewHostDefaultsInvalidScale(t *testing.T) {
	h := NewHost(HostConfig{Width: 10, Height: 10, Scale: -3, Log: NewLogWriterLogger(nil, slog.LevelInfo)})
	if got := h.Display().Scale(); got != 1 {
		t.Fatalf("Scale() = %v, want 1", got)
	}
}

func TestFramebufferPresentPublishesBackBuffer(t *testing.T) {
	fb := newHostFramebuffer(4, 2)

	fb.Lock()
	fb.ClearRGB(255, 0, 0)
	fb.Unlock()

	if _, _, _, ok := fb.pixelAt(0, 0); !ok {
		t.Fatal("pixelAt(0,0) not ok")
	}
	if r, _, _, _ := fb.pixelAt(0, 0); r != 0 {
		t.Fatalf("front buffer changed before Present: r=%d", r)
	}

	fb.Lock()
	if err := fb.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	fb.Unlock()

	r, g, b, _ := fb.pixelAt(3, 1)
	if r != 255 || g != 0 || b != 0 {
		t.Fatalf("pixelAt(3,1) = %d,%d,%d, want 255,0,0", r, g, b)
	}
	if _, _, _, ok := fb.pixelAt(4, 0); ok {
		t.Fatal("pixelAt out of range reported ok")
	}

	dst := make([]byte, len(fb.buf))
	if frames := fb.snapshotRGB565(dst); frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
}

func TestRGB565RoundTrip(t *testing.T) {
	tests := []struct {
		r, g, b uint8
	}{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
	}
	for _, tt := range tests {
		r, g, b := RGB888(RGB565(tt.r, tt.g, tt.b))
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("round trip %v = %d,%d,%d", tt, r, g, b)
		}
	}
}

func TestHostAdvanceEmitsTicks(t *testing.T) {
	h := NewHost(HostConfig{Width: 1, Height: 1, Log: NewLogWriterLogger(nil, slog.LevelInfo)})
	h.Advance(3)

	ch := h.Time().Ticks()
	for want := uint64(1); want <= 3; want++ {
		if got := <-ch; got != want {
			t.Fatalf("tick = %d, want %d", got, want)
		}
	}
}

func TestHostInjectPointer(t *testing.T) {
	h := NewHost(HostConfig{Width: 1, Height: 1, Log: NewLogWriterLogger(nil, slog.LevelInfo)})
	h.InjectPointer(PointerEvent{Action: PointerDown, Source: SourceTouch, ID: 7, X: 1, Y: 2})

	ev := <-h.Input().Pointer().Events()
	if ev.Action != PointerDown || ev.ID != 7 || ev.X != 1 || ev.Y != 2 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestHostLoggerComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := &hostLogger{log: NewLogWriterLogger(&buf, slog.LevelInfo)}

	l.WriteLineString("card: started")
	l.WriteLineString("plain line with: colon later")

	out := buf.String()
	if !strings.Contains(out, "msg=started") || !strings.Contains(out, "component=card") {
		t.Fatalf("component line not split: %q", out)
	}
	if !strings.Contains(out, `msg="plain line with: colon later"`) {
		t.Fatalf("plain line mangled: %q", out)
	}
}

func TestTerminalMouseTransitions(t *testing.T) {
	var m terminalMouse

	if _, ok := m.update(1, 1, false); ok {
		t.Fatal("hover without button produced an event")
	}

	ev, ok := m.update(3, 2, true)
	if !ok || ev.Action != PointerDown {
		t.Fatalf("press = %+v ok=%v, want down", ev, ok)
	}
	if ev.X != 3.5 || ev.Y != 5 {
		t.Fatalf("press position = %v,%v, want 3.5,5", ev.X, ev.Y)
	}

	if _, ok := m.update(3, 2, true); ok {
		t.Fatal("repeat at same cell produced an event")
	}

	ev, ok = m.update(4, 2, true)
	if !ok || ev.Action != PointerMove {
		t.Fatalf("drag = %+v ok=%v, want move", ev, ok)
	}

	ev, ok = m.update(9, 9, false)
	if !ok || ev.Action != PointerUp {
		t.Fatalf("release = %+v ok=%v, want up", ev, ok)
	}
}

func TestHostTimeKeepsNewestTicks(t *testing.T) {
	h := NewHost(HostConfig{Width: 1, Height: 1, Log: NewLogWriterLogger(nil, slog.LevelInfo)})
	h.Advance(tickQueue + 10)

	ch := h.Time().Ticks()
	first := <-ch
	if first != 11 {
		t.Fatalf("oldest queued tick = %d, want 11", first)
	}
	var last uint64
	for len(ch) > 0 {
		last = <-ch
	}
	if last != tickQueue+10 {
		t.Fatalf("newest tick = %d, want %d", last, tickQueue+10)
	}
}

func TestPointerQueueCoalescesMovesAndKeepsUp(t *testing.T) {
	p := newHostPointer()
	for i := 0; i < pointerQueue; i++ {
		p.emit(PointerEvent{Action: PointerMove, X: float64(i)})
	}
	p.emit(PointerEvent{Action: PointerMove, X: 1000})
	p.emit(PointerEvent{Action: PointerMove, X: 1001})
	p.emit(PointerEvent{Action: PointerMove, Source: SourceTouch, ID: 4, X: 7})

	done := make(chan struct{})
	go func() {
		p.emit(PointerEvent{Action: PointerUp, X: 1001})
		close(done)
	}()

	var got []PointerEvent
	for len(got) < pointerQueue+3 {
		got = append(got, <-p.Events())
	}
	<-done
	if len(p.Events()) != 0 {
		t.Fatalf("%d extra events queued", len(p.Events()))
	}

	tail := got[pointerQueue:]
	if tail[0].Action != PointerMove || tail[0].X != 1001 {
		t.Fatalf("coalesced mouse move = %+v, want newest position 1001", tail[0])
	}
	if tail[1].Source != SourceTouch || tail[1].ID != 4 {
		t.Fatalf("touch move = %+v", tail[1])
	}
	if tail[2].Action != PointerUp {
		t.Fatalf("last event = %+v, want up", tail[2])
	}
}

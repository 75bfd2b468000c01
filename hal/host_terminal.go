package hal

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"
)

// TerminalConfig controls the terminal runner.
type TerminalConfig struct {
	Hz int
	// Log must not write to the terminal itself.
	Log *slog.Logger
}

var errTerminalQuit = errors.New("terminal: quit")

// RunTerminal runs the application inside the current terminal.
//
// Each character cell shows two framebuffer pixels stacked with a half block,
// so the display is cols x rows*2 pixels at scale 1. Mouse button 1 drags are
// reported as pointer events. Ctrl-C or Ctrl-Q quits.
func RunTerminal(ctx context.Context, newApp func(HAL) func() error, cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	d := time.Second / time.Duration(cfg.Hz)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(screen.Fini) }
	defer fini()

	screen.EnableMouse(tcell.MouseDragEvents)
	screen.HideCursor()
	screen.Clear()

	cols, rows := screen.Size()
	h := NewHost(HostConfig{Width: cols, Height: rows * 2, Scale: 1, Log: cfg.Log})
	step := newApp(h)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var mouse terminalMouse
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ {
					return errTerminalQuit
				}
				if kev, ok := terminalKey(ev); ok {
					h.kbd.emit(kev)
				}
			case *tcell.EventMouse:
				x, y := ev.Position()
				if pev, ok := mouse.update(x, y, ev.Buttons()&tcell.Button1 != 0); ok {
					h.ptr.emit(pev)
				}
			}
		}
	})

	g.Go(func() error {
		defer fini()
		t := time.NewTicker(d)
		defer t.Stop()

		img := make([]byte, len(h.fb.buf))
		var frame uint64
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.C:
				h.t.frame()
				if step != nil {
					if err := step(); err != nil {
						return err
					}
				}
				if f := h.fb.snapshotRGB565(img); f != frame {
					frame = f
					drawHalfBlocks(screen, img, h.fb.width, h.fb.height, h.fb.stride)
					screen.Show()
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, errTerminalQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// terminalMouse turns button-state samples into down/move/up transitions.
type terminalMouse struct {
	down bool
	x, y int
}

func (m *terminalMouse) update(x, y int, pressed bool) (PointerEvent, bool) {
	ev := PointerEvent{Source: SourceMouse, X: float64(x) + 0.5, Y: float64(y*2) + 1}
	switch {
	case pressed && !m.down:
		m.down = true
		ev.Action = PointerDown
	case pressed && m.down:
		if x == m.x && y == m.y {
			return PointerEvent{}, false
		}
		ev.Action = PointerMove
	case !pressed && m.down:
		m.down = false
		ev.Action = PointerUp
	default:
		return PointerEvent{}, false
	}
	m.x, m.y = x, y
	return ev, true
}

func terminalKey(ev *tcell.EventKey) (KeyEvent, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return KeyEvent{Press: true, Rune: ev.Rune()}, true
	case tcell.KeyEnter:
		return KeyEvent{Code: KeyEnter, Press: true}, true
	case tcell.KeyEscape:
		return KeyEvent{Code: KeyEscape, Press: true}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyEvent{Code: KeyBackspace, Press: true}, true
	case tcell.KeyDelete:
		return KeyEvent{Code: KeyDelete, Press: true}, true
	}
	return KeyEvent{}, false
}

func drawHalfBlocks(screen tcell.Screen, buf []byte, width, height, stride int) {
	pixel := func(x, y int) tcell.Color {
		if y >= height {
			return tcell.ColorBlack
		}
		off := y*stride + x*2
		r, g, b := RGB888(uint16(buf[off]) | uint16(buf[off+1])<<8)
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	for cy := 0; cy*2 < height; cy++ {
		for cx := 0; cx < width; cx++ {
			style := tcell.StyleDefault.Foreground(pixel(cx, cy*2)).Background(pixel(cx, cy*2+1))
			screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
}

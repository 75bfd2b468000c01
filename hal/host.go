package hal

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
)

// HostConfig sizes a host HAL.
type HostConfig struct {
	// Width and Height are display (logical) pixels.
	Width  int
	Height int
	// Scale is framebuffer pixels per display pixel. Zero means 1.
	Scale float64
	// Log receives log lines. Nil writes text records to stderr.
	Log *slog.Logger
}

// Host is the desktop/headless HAL implementation.
type Host struct {
	logger *hostLogger
	fb     *hostFramebuffer
	scale  float64
	kbd    *hostKeyboard
	ptr    *hostPointer
	t      *hostTime
	aud    Audio
}

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) *Host {
	scale := cfg.Scale
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Host{
		logger: &hostLogger{log: log},
		fb:     newHostFramebuffer(int(float64(cfg.Width)*scale), int(float64(cfg.Height)*scale)),
		scale:  scale,
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(),
		t:      newHostTime(),
		aud:    newHostAudio(),
	}
}

func (h *Host) Logger() Logger   { return h.logger }
func (h *Host) Display() Display { return hostDisplay{fb: h.fb, scale: h.scale} }
func (h *Host) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *Host) Time() Time       { return h.t }
func (h *Host) Audio() Audio     { return h.aud }

// InjectKey queues a key event as if it came from the keyboard.
func (h *Host) InjectKey(ev KeyEvent) { h.kbd.ch <- ev }

// InjectPointer queues a pointer event as if it came from a mouse or touch screen.
func (h *Host) InjectPointer(ev PointerEvent) { h.ptr.ch <- ev }

// Advance emits n ticks (milliseconds) without consulting the wall clock.
func (h *Host) Advance(n uint64) { h.t.stepN(n) }

// PixelAt returns the presented color of a device pixel.
func (h *Host) PixelAt(x, y int) (r, g, b uint8, ok bool) { return h.fb.pixelAt(x, y) }

// Frames returns the number of Present calls so far.
func (h *Host) Frames() uint64 {
	h.fb.frontMu.Lock()
	defer h.fb.frontMu.Unlock()
	return h.fb.frames
}

type hostDisplay struct {
	fb    *hostFramebuffer
	scale float64
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }
func (d hostDisplay) Scale() float64           { return d.scale }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

// hostLogger forwards lines to slog. A "component: message" prefix becomes
// the component attribute.
type hostLogger struct {
	log *slog.Logger
}

func (l *hostLogger) WriteLineString(s string) {
	if comp, msg, ok := strings.Cut(s, ": "); ok && comp != "" && !strings.ContainsAny(comp, " \t") {
		l.log.Info(msg, "component", comp)
		return
	}
	l.log.Info(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

// NewLogWriterLogger adapts an io.Writer into a text slog logger at the given level.
func NewLogWriterLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (h *Host) String() string {
	return fmt.Sprintf("host %dx%d@%.2f", h.fb.width, h.fb.height, h.scale)
}

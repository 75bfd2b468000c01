package hal

import (
	"errors"
	"sync"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// Writers hold the lock while touching Buffer and while calling Present.
// Dimensions are device pixels.
type Framebuffer interface {
	sync.Locker
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerAction is the phase of a pointer contact.
type PointerAction uint8

const (
	PointerDown PointerAction = iota + 1
	PointerMove
	PointerUp
)

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerSource tells mouse contacts from touch contacts.
type PointerSource uint8

const (
	SourceMouse PointerSource = iota
	SourceTouch
)

// PointerEvent is a mouse or touch contact sample.
//
// X and Y are display (logical) coordinates: device pixels divided by the
// display scale. ID identifies the contact for touch sources.
type PointerEvent struct {
	Action PointerAction
	Source PointerSource
	ID     int
	X, Y   float64
}

// Pointer provides pointer events (best-effort on each platform).
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
	// Scale is the number of framebuffer pixels per display pixel.
	Scale() float64
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// Host backends tick once per millisecond.
type Time interface {
	Ticks() <-chan uint64
}

// PWMAudio is a mono sample sink.
type PWMAudio interface {
	Start(sampleRate uint32) error
	Stop() error
	SetVolume(vol uint8)
	// WriteSample blocks while the output ring is full.
	WriteSample(sample int16)
	PendingSamples() int
}

// Audio provides audio outputs (if available).
type Audio interface {
	PWM() PWMAudio
}

// HAL provides the only contact point between the application and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
	Audio() Audio
}

// Package scratch drives a reveal surface from pointer gestures: it tracks
// coverage, advances encouragement tiers and schedules the one-shot
// completion.
//
// A Session is owned by a single goroutine. Time is passed in explicitly so
// the owner decides what a millisecond is.
package scratch

import (
	"image"
	"math"
	"time"
)

const (
	// RevealThreshold is the coverage percentage that must be exceeded.
	RevealThreshold = 70.0
	// CompleteDelay separates crossing the threshold from Hooks.Complete.
	CompleteDelay = 500 * time.Millisecond
	// DefaultBrushRadius is in display pixels.
	DefaultBrushRadius = 20.0
)

type State uint8

const (
	StateIdle State = iota
	StateScratching
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScratching:
		return "scratching"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type Action uint8

const (
	ActionDown Action = iota + 1
	ActionMove
	ActionUp
)

// Source distinguishes mouse and touch contacts. Both scratch the same way.
type Source uint8

const (
	SourceMouse Source = iota
	SourceTouch
)

// Event is one pointer sample in viewport coordinates.
type Event struct {
	Action Action
	Source Source
	ID     int
	X, Y   float64
}

// Surface is the erasable layer a session drives.
type Surface interface {
	EraseAt(x, y, radius float64)
	Coverage() float64
	Err() error
}

type Options struct {
	// BrushRadius in display pixels; zero means DefaultBrushRadius.
	BrushRadius float64
}

// Hooks are called synchronously from Handle and Advance.
type Hooks struct {
	Started  func()
	Progress func(pct float64)
	Tier     func(Tier)
	Complete func()
}

type contact struct {
	source Source
	id     int
}

// scheduled is the pending completion.
type scheduled struct {
	due     time.Duration
	pending bool
}

// Session is the scratch state of one card.
type Session struct {
	surf   Surface
	origin image.Point
	radius float64
	hooks  Hooks

	state   State
	active  contact
	started bool
	pct     float64
	tiers   TierTracker

	completion scheduled
	completed  bool
	revealed   bool
	discarded  bool
}

// New creates an idle session. origin is the surface's top-left corner in
// viewport coordinates.
func New(surf Surface, origin image.Point, opts Options, hooks Hooks) *Session {
	r := opts.BrushRadius
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		r = DefaultBrushRadius
	}
	return &Session{surf: surf, origin: origin, radius: r, hooks: hooks}
}

func (s *Session) State() State { return s.state }

// Started reports whether anything has been erased yet.
func (s *Session) Started() bool { return s.started }

// Percent is the highest coverage observed, in [0, 100].
func (s *Session) Percent() float64 { return s.pct }

func (s *Session) Tier() Tier { return s.tiers.Current() }

// Completed reports whether the threshold has been crossed.
func (s *Session) Completed() bool { return s.completed }

// Revealed reports whether Hooks.Complete has fired.
func (s *Session) Revealed() bool { return s.revealed }

// CompletionPending reports whether a completion is scheduled but not yet run.
func (s *Session) CompletionPending() bool { return s.completion.pending }

// Handle applies one pointer event at time now.
func (s *Session) Handle(ev Event, now time.Duration) {
	if s.discarded || s.state == StateCompleted || s.surf == nil || s.surf.Err() != nil {
		return
	}
	c := contact{source: ev.Source, id: ev.ID}

	switch ev.Action {
	case ActionDown:
		if s.state == StateScratching {
			return
		}
		s.state = StateScratching
		s.active = c
		s.scratch(ev, now)
	case ActionMove:
		if s.state != StateScratching || c != s.active {
			return
		}
		s.scratch(ev, now)
	case ActionUp:
		if s.state != StateScratching || c != s.active {
			return
		}
		s.state = StateIdle
	}
}

func (s *Session) scratch(ev Event, now time.Duration) {
	x := ev.X - float64(s.origin.X)
	y := ev.Y - float64(s.origin.Y)
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	s.surf.EraseAt(x, y, s.radius)

	if !s.started {
		s.started = true
		if s.hooks.Started != nil {
			s.hooks.Started()
		}
	}

	if pct := s.surf.Coverage(); pct > s.pct {
		s.pct = pct
	}
	if s.hooks.Progress != nil {
		s.hooks.Progress(s.pct)
	}
	if t, ok := s.tiers.Observe(s.pct); ok && s.hooks.Tier != nil {
		s.hooks.Tier(t)
	}
	if s.pct > RevealThreshold {
		s.state = StateCompleted
		s.completed = true
		s.completion = scheduled{due: now + CompleteDelay, pending: true}
	}
}

// Advance runs the scheduled completion once now reaches its due time.
func (s *Session) Advance(now time.Duration) {
	if s.discarded || !s.completion.pending || now < s.completion.due {
		return
	}
	s.completion.pending = false
	s.revealed = true
	if s.hooks.Complete != nil {
		s.hooks.Complete()
	}
}

// Discard abandons the session. A pending completion never fires.
func (s *Session) Discard() {
	s.discarded = true
	s.completion.pending = false
}

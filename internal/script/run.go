package script

import (
	"fmt"
	"image"
	"io"
	"time"

	"scratchcalc/reveal"
	"scratchcalc/scratch"
)

var actions = map[string]scratch.Action{
	"down":   scratch.ActionDown,
	"move":   scratch.ActionMove,
	"up":     scratch.ActionUp,
	"stroke": scratch.ActionMove,
}

// TierHit records when a tier was entered.
type TierHit struct {
	At      time.Duration
	Tier    scratch.Tier
	Percent float64
}

// Report is the outcome of a run.
type Report struct {
	Degraded error
	Events   int

	StartedAt   time.Duration
	Started     bool
	Tiers       []TierHit
	CompletedAt time.Duration
	Completed   bool
	RevealedAt  time.Duration
	Revealed    bool
	Completions int

	Coverage float64
	Percent  float64
}

// Options tune a run.
type Options struct {
	// Verify compares the running coverage with a full rescan after every
	// event.
	Verify bool
}

// Run replays s on a fresh surface.
func Run(s *Script, opts Options) (*Report, error) {
	var revealOpts []reveal.Option
	if s.Seed != 0 {
		revealOpts = append(revealOpts, reveal.WithSeed(s.Seed))
	}
	surf, err := reveal.New(s.Surface.Width, s.Surface.Height, s.Surface.Density, revealOpts...)
	rep := &Report{Degraded: err}

	var now time.Duration
	sess := scratch.New(surf, image.Pt(int(s.Origin.X), int(s.Origin.Y)), scratch.Options{BrushRadius: s.Brush}, scratch.Hooks{
		Started: func() {
			rep.Started = true
			rep.StartedAt = now
		},
		Tier: func(t scratch.Tier) {
			rep.Tiers = append(rep.Tiers, TierHit{At: now, Tier: t, Percent: surf.Coverage()})
		},
		Complete: func() {
			rep.Completions++
			rep.Revealed = true
			rep.RevealedAt = now
		},
	})

	handle := func(at time.Duration, ev scratch.Event) error {
		now = at
		sess.Advance(now)
		wasCompleted := sess.Completed()
		sess.Handle(ev, now)
		rep.Events++
		if !wasCompleted && sess.Completed() {
			rep.Completed = true
			rep.CompletedAt = now
		}
		if opts.Verify && surf.Err() == nil {
			if inc, full := surf.Coverage(), surf.Rescan(); inc != full {
				return fmt.Errorf("%w at %s: %.4f != %.4f", ErrCoverageMismatch, now, inc, full)
			}
		}
		return nil
	}

	for _, ev := range s.Events {
		src := scratch.SourceMouse
		if ev.Source == "touch" {
			src = scratch.SourceTouch
		}
		if ev.Action != "stroke" {
			if err := handle(ev.At, scratch.Event{Action: actions[ev.Action], Source: src, ID: ev.ID, X: ev.X, Y: ev.Y}); err != nil {
				return rep, err
			}
			continue
		}
		steps := ev.Steps
		if steps < 1 {
			steps = 1
		}
		for i := 1; i <= steps; i++ {
			f := float64(i) / float64(steps)
			at := ev.At + time.Duration(f*float64(ev.Duration))
			x := ev.From[0] + (ev.To[0]-ev.From[0])*f
			y := ev.From[1] + (ev.To[1]-ev.From[1])*f
			if err := handle(at, scratch.Event{Action: scratch.ActionMove, Source: src, ID: ev.ID, X: x, Y: y}); err != nil {
				return rep, err
			}
		}
	}

	now += s.Advance
	sess.Advance(now)

	rep.Coverage = surf.Coverage()
	rep.Percent = sess.Percent()
	return rep, nil
}

// WriteText prints a human readable summary.
func (r *Report) WriteText(w io.Writer) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	if r.Degraded != nil {
		p("surface:   degraded (%v)\n", r.Degraded)
	}
	p("events:    %d\n", r.Events)
	if r.Started {
		p("started:   %s\n", r.StartedAt)
	} else {
		p("started:   never\n")
	}
	for _, t := range r.Tiers {
		p("tier %-4s %s at %.2f%% (%s)\n", t.Tier, t.At, t.Percent, t.Tier.Message())
	}
	if r.Completed {
		p("completed: %s\n", r.CompletedAt)
	}
	if r.Revealed {
		p("revealed:  %s\n", r.RevealedAt)
	}
	p("coverage:  %.2f%%\n", r.Coverage)
	return err
}

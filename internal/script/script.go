// Package script replays recorded scratch gestures against a reveal surface
// and reports what the session did. It backs the sim command.
package script

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoEvents         = errors.New("script: no events")
	ErrUnknownAction    = errors.New("script: unknown action")
	ErrOutOfOrder       = errors.New("script: events must be in time order")
	ErrCoverageMismatch = errors.New("script: incremental coverage differs from rescan")
)

// Script is a gesture recording.
//
//	surface: {width: 300, height: 200, density: 1}
//	origin: {x: 0, y: 100}
//	brush: 20
//	events:
//	  - {at: 0s, action: down, x: 10, y: 110}
//	  - {at: 10ms, action: stroke, from: [10, 110], to: [290, 110], steps: 30, duration: 300ms}
//	  - {at: 400ms, action: up}
//	advance: 1s
type Script struct {
	Surface SurfaceSpec `yaml:"surface"`
	Origin  Point       `yaml:"origin"`
	Brush   float64     `yaml:"brush"`
	Seed    uint32      `yaml:"seed"`
	Events  []Event     `yaml:"events"`
	// Advance is how long to keep the clock running after the last event.
	Advance time.Duration `yaml:"advance"`
}

type SurfaceSpec struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Density float64 `yaml:"density"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Event is one scripted input. A stroke expands into Steps evenly spaced
// moves from From to To over Duration.
type Event struct {
	At     time.Duration `yaml:"at"`
	Action string        `yaml:"action"`
	Source string        `yaml:"source"`
	ID     int           `yaml:"id"`
	X      float64       `yaml:"x"`
	Y      float64       `yaml:"y"`

	From     [2]float64    `yaml:"from"`
	To       [2]float64    `yaml:"to"`
	Steps    int           `yaml:"steps"`
	Duration time.Duration `yaml:"duration"`
}

// Load decodes and checks a script.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Script{Surface: SurfaceSpec{Density: 1}}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports structural problems. Degenerate surfaces are allowed; the
// run reports them.
func (s *Script) Validate() error {
	if len(s.Events) == 0 {
		return ErrNoEvents
	}
	var last time.Duration
	for i, ev := range s.Events {
		if _, ok := actions[ev.Action]; !ok {
			return fmt.Errorf("%w %q (event %d)", ErrUnknownAction, ev.Action, i)
		}
		if ev.At < last {
			return fmt.Errorf("%w (event %d at %s)", ErrOutOfOrder, i, ev.At)
		}
		last = ev.At
		if ev.Action == "stroke" {
			last += ev.Duration
		}
	}
	return nil
}

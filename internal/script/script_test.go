package script

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"scratchcalc/reveal"
	"scratchcalc/scratch"
)

func loadFile(t *testing.T, name string) *Script {
	t.Helper()
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		t.Fatalf("Load(%s): %v", name, err)
	}
	return s
}

func TestSweepCompletesOnce(t *testing.T) {
	s := loadFile(t, "testdata/sweep.yaml")
	rep, err := Run(s, Options{Verify: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.Started || rep.StartedAt != 0 {
		t.Fatalf("started=%v at %s", rep.Started, rep.StartedAt)
	}
	if !rep.Completed || !rep.Revealed || rep.Completions != 1 {
		t.Fatalf("completed=%v revealed=%v completions=%d", rep.Completed, rep.Revealed, rep.Completions)
	}
	if got := rep.RevealedAt - rep.CompletedAt; got < scratch.CompleteDelay {
		t.Fatalf("revealed %s after completion, want >= %s", got, scratch.CompleteDelay)
	}
	if rep.Percent <= scratch.RevealThreshold {
		t.Fatalf("percent = %v", rep.Percent)
	}

	var last scratch.Tier
	for _, hit := range rep.Tiers {
		if hit.Tier <= last {
			t.Fatalf("tier %s after %s", hit.Tier, last)
		}
		last = hit.Tier
	}
	if len(rep.Tiers) < 3 {
		t.Fatalf("tiers = %+v", rep.Tiers)
	}
}

func TestRunDegradedSurface(t *testing.T) {
	s := &Script{
		Surface: SurfaceSpec{Width: 0, Height: 0, Density: 1},
		Events:  []Event{{Action: "down"}, {At: time.Millisecond, Action: "move", X: 1, Y: 1}},
		Advance: time.Second,
	}
	rep, err := Run(s, Options{Verify: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(rep.Degraded, reveal.ErrDegenerate) {
		t.Fatalf("Degraded = %v", rep.Degraded)
	}
	if rep.Completed || rep.Revealed || rep.Started {
		t.Fatal("degraded surface made progress")
	}
	if rep.Coverage != 100 {
		t.Fatalf("coverage = %v, want 100", rep.Coverage)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no events", "surface: {width: 10, height: 10}\n", ErrNoEvents},
		{"bad action", "events:\n  - {at: 0s, action: tap}\n", ErrUnknownAction},
		{"out of order", "events:\n  - {at: 10ms, action: down}\n  - {at: 5ms, action: up}\n", ErrOutOfOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.doc)); !errors.Is(err, tt.want) {
				t.Fatalf("Load() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadUnknownField(t *testing.T) {
	doc := "events:\n  - {at: 0s, action: down}\nbrushh: 3\n"
	if _, err := Load(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestStrokeExpandsToMoves(t *testing.T) {
	s := &Script{
		Surface: SurfaceSpec{Width: 100, Height: 100, Density: 1},
		Events: []Event{
			{Action: "down", X: 0, Y: 50},
			{At: time.Millisecond, Action: "stroke", From: [2]float64{0, 50}, To: [2]float64{100, 50}, Steps: 10, Duration: 100 * time.Millisecond},
		},
	}
	rep, err := Run(s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Events != 11 {
		t.Fatalf("events = %d, want 11", rep.Events)
	}
	if rep.Coverage <= 0 || rep.Completed {
		t.Fatalf("coverage = %v completed=%v", rep.Coverage, rep.Completed)
	}
}

func TestWriteText(t *testing.T) {
	s := loadFile(t, "testdata/sweep.yaml")
	rep, err := Run(s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"started:", "tier t20", "completed:", "revealed:", "coverage:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

package chime

import (
	"context"
	"sync"

	"scratchcalc/hal"
)

type request struct {
	cue  Cue
	step int
}

// Player renders cues and writes them to a PWM sink from its own goroutine.
// A nil *Player or a nil sink plays nothing.
type Player struct {
	pwm    hal.PWMAudio
	volume float64
	reqs   chan request

	once sync.Once
	err  error
}

func NewPlayer(pwm hal.PWMAudio, volume uint8) *Player {
	return &Player{pwm: pwm, volume: float64(volume) / 255, reqs: make(chan request, 4)}
}

// Play queues a cue. Cues arriving while the queue is full are dropped.
func (p *Player) Play(cue Cue, step int) {
	if p == nil || p.pwm == nil {
		return
	}
	select {
	case p.reqs <- request{cue: cue, step: step}:
	default:
	}
}

// Run plays queued cues until ctx is done.
func (p *Player) Run(ctx context.Context) error {
	if p == nil || p.pwm == nil {
		<-ctx.Done()
		return nil
	}
	p.once.Do(func() { p.err = p.pwm.Start(uint32(SampleRate)) })
	if p.err != nil {
		return p.err
	}
	defer p.pwm.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-p.reqs:
			for _, s := range Render(Synth(r.cue, r.step, p.volume)) {
				if ctx.Err() != nil {
					return nil
				}
				p.pwm.WriteSample(s)
			}
		}
	}
}

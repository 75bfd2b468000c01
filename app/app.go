// Package app assembles the kernel, services and tasks of the scratch card
// calculator on top of a HAL.
package app

import (
	"context"
	"fmt"
	"sync"

	"scratchcalc/hal"
	"scratchcalc/internal/chime"
	"scratchcalc/kernel"
	"scratchcalc/services/logger"
	"scratchcalc/tasks/calculator"
	"scratchcalc/tasks/card"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// Config tunes the system. The zero value is usable.
type Config struct {
	BrushRadius float64
	Seed        uint32
	Locale      language.Tag
	Sound       bool
	Volume      uint8
}

// System is a running kernel with its helper goroutines.
type System struct {
	k      *kernel.Kernel
	cancel context.CancelFunc
	g      *errgroup.Group

	stopOnce sync.Once
	done     chan struct{}
}

// Start builds and starts the system.
func Start(h hal.HAL, cfg Config) *System {
	k := kernel.New()
	installPanicHandler(k, h)

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	cardEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	var player *chime.Player
	if cfg.Sound {
		if a := h.Audio(); a != nil {
			if pwm := a.PWM(); pwm != nil {
				player = chime.NewPlayer(pwm, cfg.Volume)
			}
		}
	}
	g.Go(func() error {
		if err := player.Run(gctx); err != nil && h.Logger() != nil {
			h.Logger().WriteLineString(fmt.Sprintf("chime: %v", err))
		}
		return nil
	})

	lay := calculator.Layout(h.Display())

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(card.New(h.Display(), cardEP.Restrict(kernel.RightRecv), logEP.Restrict(kernel.RightSend), card.Config{
		Rect:        lay.Card,
		BrushRadius: cfg.BrushRadius,
		Seed:        cfg.Seed,
		Locale:      cfg.Locale,
		Chime:       player,
	}))
	k.AddTask(calculator.New(h.Display(), h.Input(),
		calcEP.Restrict(kernel.RightRecv),
		calcEP.Restrict(kernel.RightSend),
		cardEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
	))

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return nil
					case seq, ok := <-ch:
						if !ok {
							return nil
						}
						k.TickTo(seq)
					}
				}
			})
		}
	}

	return &System{k: k, cancel: cancel, g: g, done: make(chan struct{})}
}

// Step is called once per frame by the runners. Tasks run on their own
// goroutines, so there is nothing to do here once the system is up.
func (s *System) Step() error { return nil }

// Stop shuts down every task and helper goroutine.
func (s *System) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.k.Stop()
		s.k.Wait()
		_ = s.g.Wait()
		close(s.done)
	})
}

// Done is closed once Stop has finished.
func (s *System) Done() <-chan struct{} { return s.done }

package hal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Width  int
	Height int
	Scale  float64
	Hz     int
	Ticks  uint64
	Log    *slog.Logger
}

// RunHeadless runs the application without opening a window.
//
// Ticks counts frames; each frame advances the millisecond time base by the
// wall-clock time elapsed since the previous frame.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := NewHost(HostConfig{Width: cfg.Width, Height: cfg.Height, Scale: cfg.Scale, Log: cfg.Log})
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.frame()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

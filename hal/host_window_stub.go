//go:build !cgo

package hal

import (
	"errors"
	"log/slog"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	Scale  float64
	Zoom   int
	Log    *slog.Logger
}

func RunWindow(_ func(h HAL) func() error, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1); try --terminal or --headless")
}

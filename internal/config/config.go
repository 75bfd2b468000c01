// Package config holds the runtime settings of scratchcalc.
//
// Settings come from three layers, later ones winning: built-in defaults,
// the YAML file found through the XDG base directories, and command line
// flags applied by the caller.
package config

import (
	"math"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

const (
	// AppName is used for XDG directory paths.
	AppName = "scratchcalc"

	DefaultWidth  = 320
	DefaultHeight = 480
	DefaultZoom   = 1

	// DefaultBrushRadius is the scratch brush radius in display pixels.
	DefaultBrushRadius = 20.0

	DefaultLocale = "en-US"
	DefaultVolume = 160

	DefaultHz = 60
)

// Config is the complete runtime configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Card     CardConfig     `yaml:"card"`
	Locale   string         `yaml:"locale"`
	Sound    SoundConfig    `yaml:"sound"`
	Headless HeadlessConfig `yaml:"headless"`
	Verbose  bool           `yaml:"verbose"`
}

type WindowConfig struct {
	// Width and Height are display pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Zoom scales the window on screen without changing the display size.
	Zoom int `yaml:"zoom"`
}

type CardConfig struct {
	BrushRadius float64 `yaml:"brush_radius"`
	// Density is framebuffer pixels per display pixel. Zero follows the
	// monitor's device scale factor.
	Density float64 `yaml:"density"`
	// Seed fixes the overlay speckles. Zero picks the built-in seed.
	Seed uint32 `yaml:"seed"`
}

type SoundConfig struct {
	Enabled bool  `yaml:"enabled"`
	Volume  uint8 `yaml:"volume"`
}

type HeadlessConfig struct {
	Hz int `yaml:"hz"`
	// Ticks stops the headless runner after that many frames; zero runs
	// until interrupted.
	Ticks uint64 `yaml:"ticks"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Zoom:   DefaultZoom,
		},
		Card: CardConfig{
			BrushRadius: DefaultBrushRadius,
		},
		Locale: DefaultLocale,
		Sound: SoundConfig{
			Volume: DefaultVolume,
		},
		Headless: HeadlessConfig{
			Hz: DefaultHz,
		},
	}
}

// XDGConfigDir returns the directory searched for config.yaml.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.Zoom <= 0 {
		return ErrInvalidWindowSize
	}
	r := c.Card.BrushRadius
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return ErrInvalidBrushRadius
	}
	d := c.Card.Density
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return ErrInvalidDensity
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return ErrInvalidLocale
	}
	if c.Headless.Hz <= 0 {
		return ErrInvalidHz
	}
	return nil
}

// Language returns the locale tag used for formatting results.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

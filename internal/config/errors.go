package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	ErrInvalidWindowSize  = errors.New("invalid window: width, height and zoom must be positive")
	ErrInvalidBrushRadius = errors.New("invalid brush radius: must be a positive number")
	ErrInvalidDensity     = errors.New("invalid density: must be zero (auto) or positive")
	ErrInvalidLocale      = errors.New("invalid locale: not a BCP 47 language tag")
	ErrInvalidHz          = errors.New("invalid headless hz: must be positive")
)

package config

import (
	"errors"
)

// Sentinel errors for the layered loader, matchable with errors.Is.
var (
	// ErrInvalidConfig marks a config that parsed but failed validation:
	// empty addr, unknown data_source or rights policy, or a non-positive
	// event window.
	ErrInvalidConfig = errors.New("invalid pulse config")

	// ErrLoadConfig marks a failure to read or decode a config layer,
	// either the PULSE_CONFIG YAML file or the PULSE_* environment.
	ErrLoadConfig = errors.New("pulse config load failed")
)

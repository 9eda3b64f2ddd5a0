package weeklycache

import "errors"

// Sentinel kinds for weekly cache errors.
var (
	ErrMiss = errors.New("weekly cache miss")
)

package recompute

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNoPlays = errors.New("no ranked plays")
)

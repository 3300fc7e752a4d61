package rankweight

import "errors"

// Sentinel kinds for weighting errors.
var (
	ErrNonFiniteScore = errors.New("non-finite score")
)

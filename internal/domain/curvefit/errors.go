package curvefit

import "errors"

// Sentinel kinds for fitting errors.
var (
	ErrEmptySample    = errors.New("empty sample")
	ErrDegenerateFit  = errors.New("degenerate normal-equations matrix")
	ErrNonFiniteScore = errors.New("non-finite score")
)

// Package curvefit fits the reciprocal model score(n) = b0 + b1/n
// (n the 1-based rank) to a descending pp sample. The fitted parameters
// feed the tail extrapolation beyond the observed best plays.
package curvefit

import (
	"fmt"
	"math"
)

// defaultIterations is the historical fixed iteration count. The model is
// linear in (b0, b1), so the solve converges after the first pass; the
// fixed count is kept for parity with totals produced by the reference
// implementation.
const defaultIterations = 1000

// Option applies a configuration option to the Fitter.
type Option func(*Fitter)

// WithIterations overrides the fixed iteration count. Non-positive values
// are ignored.
func WithIterations(n int) Option {
	return func(f *Fitter) {
		if n > 0 {
			f.iterations = n
		}
	}
}

// Params are the fitted parameters of score(n) = B0 + B1/n.
type Params struct {
	B0 float64
	B1 float64
}

// At evaluates the fitted model at a 1-based rank.
func (p Params) At(n int) float64 {
	return p.B0 + p.B1/float64(n)
}

// Fitter performs the Gauss-Newton least-squares fit.
type Fitter struct {
	iterations int
}

// New creates a Fitter with configuration options.
func New(opts ...Option) *Fitter {
	f := &Fitter{iterations: defaultIterations}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit estimates (b0, b1) from an unbroken descending prefix of ranks
// 1..N. Gaps are not representable: the i-th score is the play at 1-based
// rank i+1, full stop.
//
// The residual Jacobian row for rank n is (-1, -1/n) regardless of the
// current parameters, so the normal-equations matrix and the per-rank
// step directions are computed once and reused across iterations.
func (f *Fitter) Fit(scores []float64) (Params, error) {
	n := len(scores)
	if n == 0 {
		return Params{}, ErrEmptySample
	}
	for i, score := range scores {
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return Params{}, fmt.Errorf("%w: rank %d", ErrNonFiniteScore, i)
		}
	}

	// JᵗJ for the constant Jacobian: [[N, Σ1/n], [Σ1/n, Σ1/n²]].
	recip := make([]float64, n)
	var m01, m11 float64
	for i := range recip {
		x := 1 / float64(i+1)
		recip[i] = x
		m01 += x
		m11 += x * x
	}
	m00 := float64(n)

	// Closed-form 2x2 inverse. The columns 1 and 1/n are collinear only
	// for a single-rank sample, but the determinant is checked regardless
	// so a pathological input fails loudly instead of propagating NaN.
	det := m00*m11 - m01*m01
	if det == 0 {
		return Params{}, fmt.Errorf("%w: sample size %d", ErrDegenerateFit, n)
	}
	inv00 := m11 / det
	inv01 := -m01 / det
	inv11 := m00 / det

	// Step direction rows S[n] = -(invM · [1, 1/n]ᵗ).
	s0 := make([]float64, n)
	s1 := make([]float64, n)
	for i, x := range recip {
		s0[i] = -(inv00 + inv01*x)
		s1[i] = -(inv01 + inv11*x)
	}

	b0, b1 := scores[0], 1.0
	for it := 0; it < f.iterations; it++ {
		var d0, d1 float64
		for i, score := range scores {
			r := score - b0 - b1*recip[i]
			d0 += r * s0[i]
			d1 += r * s1[i]
		}
		b0 -= d0
		b1 -= d1
	}
	return Params{B0: b0, B1: b1}, nil
}

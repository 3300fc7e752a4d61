// Package rankweight implements the rank-decay weighting convention used
// by profile totals: the k-th best play (0-based) contributes decay^k of
// its raw pp, so lower-ranked plays see diminishing returns.
package rankweight

import (
	"fmt"
	"math"
)

// DefaultDecay matches the remote service's convention so the two totals
// stay comparable term by term.
const DefaultDecay = 0.95

// Option applies a configuration option to the Scheme.
type Option func(*Scheme)

// WithDecay overrides the decay factor. Values outside (0, 1) are ignored.
func WithDecay(decay float64) Option {
	return func(s *Scheme) {
		if decay > 0 && decay < 1 {
			s.decay = decay
		}
	}
}

// Scheme is a rank-decay weighting. The zero value is not usable; build
// one with New.
type Scheme struct {
	decay float64
}

// New creates a Scheme with configuration options.
func New(opts ...Option) Scheme {
	s := Scheme{decay: DefaultDecay}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Decay returns the configured decay factor.
func (s Scheme) Decay() float64 {
	return s.decay
}

// Weight returns decay^rank for a 0-based rank. The top play weighs 1.0.
func (s Scheme) Weight(rank int) float64 {
	return math.Pow(s.decay, float64(rank))
}

// WeightedSum combines an ordered score sequence into a single total,
// weighting each score by its position. The input must already be sorted
// by descending score; the position-dependent weighting makes ordering a
// caller precondition, not something validated here.
func (s Scheme) WeightedSum(scores []float64) (float64, error) {
	var sum float64
	for i, score := range scores {
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return 0, fmt.Errorf("%w: rank %d", ErrNonFiniteScore, i)
		}
		sum += s.Weight(i) * score
	}
	return sum, nil
}

// Package extrapolate estimates the weighted pp contribution of ranked
// plays beyond the observed best-play sample, using the fitted reciprocal
// model decayed by the same rank weighting as the observed total.
package extrapolate

import (
	"pptally/internal/domain/curvefit"
	"pptally/internal/domain/rankweight"
)

// DefaultMinSample is the smallest observed sample the reciprocal fit is
// trusted on. Below it the tail contributes nothing.
const DefaultMinSample = 100

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithScheme sets the rank-decay weighting applied to predicted scores.
func WithScheme(s rankweight.Scheme) Option {
	return func(e *Estimator) {
		e.weights = s
	}
}

// WithMinSample overrides the minimum sample size required before any
// tail is estimated. Non-positive values are ignored.
func WithMinSample(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.minSample = n
		}
	}
}

// Estimator projects the fitted model over unobserved ranks.
type Estimator struct {
	weights   rankweight.Scheme
	minSample int
}

// New creates an Estimator with configuration options.
func New(opts ...Option) Estimator {
	e := Estimator{
		weights:   rankweight.New(),
		minSample: DefaultMinSample,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// MinSample returns the configured fit threshold.
func (e Estimator) MinSample() int {
	return e.minSample
}

// Tail sums the decayed model prediction over candidate 1-based ranks
// sampleSize+1 up to and including playcount. The walk stops for good at
// the first negative prediction: the model is guaranteed to approach zero
// as the decay factor takes over, and once it crosses below zero nothing
// after it is plausible. Returns 0 when the sample is below the fit
// threshold.
func (e Estimator) Tail(p curvefit.Params, sampleSize, playcount int) float64 {
	if sampleSize < e.minSample {
		return 0
	}
	var total float64
	for i := sampleSize; i < playcount; i++ {
		n := i + 1
		predicted := p.At(n) * e.weights.Weight(n)
		if predicted < 0 {
			break
		}
		total += predicted
	}
	return total
}

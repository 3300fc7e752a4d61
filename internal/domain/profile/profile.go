// Package profile assembles per-track totals from the weighting, fitting,
// and extrapolation components, and derives the bonus residual when
// comparing a locally recomputed track against the live one.
package profile

import (
	"fmt"
	"time"

	"pptally/internal/domain/curvefit"
	"pptally/internal/domain/extrapolate"
	"pptally/internal/domain/rankweight"
	"pptally/pkg/metrics"
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithScheme sets the rank-decay weighting for observed plays.
func WithScheme(s rankweight.Scheme) Option {
	return func(c *Calculator) {
		c.weights = s
	}
}

// WithFitter sets the curve fitter used before extrapolation.
func WithFitter(f *curvefit.Fitter) Option {
	return func(c *Calculator) {
		if f != nil {
			c.fitter = f
		}
	}
}

// WithEstimator sets the tail estimator.
func WithEstimator(e extrapolate.Estimator) Option {
	return func(c *Calculator) {
		c.estimator = e
	}
}

// Total is one track's aggregate.
type Total struct {
	// Observed is the rank-weighted sum of the sampled plays.
	Observed float64
	// Tail is the extrapolated contribution of unobserved ranks.
	Tail float64
	// Value is Observed + Tail.
	Value float64
}

// Comparison relates the locally recomputed track to the live one.
type Comparison struct {
	Computed  Total
	Reference Total
	// Bonus is the part of the live grand total the play-derived estimate
	// does not explain.
	Bonus float64
	// Final is the computed total with the bonus carried over.
	Final float64
}

// Calculator runs the aggregation pipeline for one or more tracks. Safe
// for concurrent use; it holds no mutable state.
type Calculator struct {
	weights   rankweight.Scheme
	fitter    *curvefit.Fitter
	estimator extrapolate.Estimator
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		weights:   rankweight.New(),
		fitter:    curvefit.New(),
		estimator: extrapolate.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Total aggregates one descending track: the weighted observed sum plus
// the extrapolated tail up to playcount. The scores must already be
// sorted by descending value. Samples below the fit threshold skip the
// fit entirely and contribute no tail.
func (c *Calculator) Total(scores []float64, playcount int) (Total, error) {
	observed, err := c.weights.WeightedSum(scores)
	if err != nil {
		return Total{}, fmt.Errorf("weighted sum: %w", err)
	}
	var tail float64
	if len(scores) >= c.estimator.MinSample() {
		start := time.Now()
		params, err := c.fitter.Fit(scores)
		if err != nil {
			return Total{}, fmt.Errorf("curve fit: %w", err)
		}
		metrics.ObserveFitDuration(time.Since(start))
		tail = c.estimator.Tail(params, len(scores), playcount)
	}
	return Total{Observed: observed, Tail: tail, Value: observed + tail}, nil
}

// Compare totals both tracks and derives the bonus residual: whatever the
// live grand total includes beyond the play-derived reference estimate
// (engagement bonuses and the like). The residual is carried onto the
// computed track unchanged, on the assumption that it is independent of
// the scoring formula. That assumption is an approximation, good enough
// for side-by-side reporting and nothing more.
func (c *Calculator) Compare(computed, reference []float64, playcount int, referenceGrandTotal float64) (Comparison, error) {
	ct, err := c.Total(computed, playcount)
	if err != nil {
		return Comparison{}, fmt.Errorf("computed track: %w", err)
	}
	rt, err := c.Total(reference, playcount)
	if err != nil {
		return Comparison{}, fmt.Errorf("reference track: %w", err)
	}
	bonus := referenceGrandTotal - rt.Value
	return Comparison{
		Computed:  ct,
		Reference: rt,
		Bonus:     bonus,
		Final:     ct.Value + bonus,
	}, nil
}

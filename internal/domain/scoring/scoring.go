// Package scoring defines the contract for recomputing a single play's pp
// value. The formula itself lives outside this repository; the pipeline
// only needs something that turns a normalized play plus its raw beatmap
// into one scalar.
package scoring

import (
	"context"
	"fmt"

	"pptally/internal/domain/model"
)

// Evaluator computes a pp value for one play.
type Evaluator interface {
	// Evaluate returns the pp value, honoring ctx for cancellation. The
	// beatmap bytes are the raw downloaded file, passed through opaquely.
	Evaluate(ctx context.Context, play model.Play, beatmap []byte) (float64, error)
}

// Func adapts a plain function to Evaluator.
type Func func(ctx context.Context, play model.Play, beatmap []byte) (float64, error)

// Evaluate implements Evaluator.
func (f Func) Evaluate(ctx context.Context, play model.Play, beatmap []byte) (float64, error) {
	return f(ctx, play, beatmap)
}

// Passthrough echoes the live pp value as the local one. With it the
// computed track reproduces the live total up to the bonus residual,
// which validates the aggregation and extrapolation path end to end
// before a real formula is plugged in.
type Passthrough struct{}

// Evaluate implements Evaluator.
func (Passthrough) Evaluate(ctx context.Context, play model.Play, _ []byte) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("evaluate canceled: %w", err)
	}
	return play.LivePP, nil
}

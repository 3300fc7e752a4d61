package recompute

import (
	"runtime"

	"pptally/internal/domain/profile"
	"pptally/pkg/logger"
)

// Default pipeline configuration.
var defaultWorkers = runtime.NumCPU() * 2 //nolint:gochecknoglobals // derived default

const defaultBestLimit = 100

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithWorkers sets the number of concurrent per-play evaluations.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBestLimit caps how many best plays are fetched.
func WithBestLimit(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.bestLimit = n
		}
	}
}

// WithCalculator sets the profile calculator.
func WithCalculator(c *profile.Calculator) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.calc = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Package recompute runs a full profile check: fetch the profile and its
// best plays, evaluate each play concurrently through the beatmap cache
// and the score evaluator, then aggregate both tracks and compare against
// the live total.
package recompute

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pptally/internal/domain/model"
	"pptally/internal/domain/profile"
	"pptally/internal/domain/scoring"
	"pptally/pkg/logger"
	"pptally/pkg/metrics"
)

// Source provides the remote profile and best-play list.
type Source interface {
	Profile(ctx context.Context, user string) (model.Profile, error)
	BestPlays(ctx context.Context, user string, limit int) ([]model.Play, error)
}

// BeatmapStore provides beatmap files, cached or downloaded.
type BeatmapStore interface {
	Get(ctx context.Context, beatmapID int64) ([]byte, error)
}

// Result is one completed comparison, ready for rendering.
type Result struct {
	Profile model.Profile
	// Local holds the plays sorted by descending locally recomputed pp;
	// Live holds the same plays sorted by descending live pp. The two
	// orders define each play's rank on its track.
	Local []model.Play
	Live  []model.Play

	Comparison profile.Comparison
}

// Pipeline wires the collaborators together. Build one with New.
type Pipeline struct {
	source    Source
	beatmaps  BeatmapStore
	evaluator scoring.Evaluator
	calc      *profile.Calculator

	workers   int
	bestLimit int
	logger    logger.Logger
}

// New creates a Pipeline with configuration options.
func New(source Source, beatmaps BeatmapStore, evaluator scoring.Evaluator, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    source,
		beatmaps:  beatmaps,
		evaluator: evaluator,
		calc:      profile.New(),
		workers:   defaultWorkers,
		bestLimit: defaultBestLimit,
		logger:    logger.Named("recompute"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run checks one user. Any per-play evaluation failure fails the run; a
// partial track would silently skew the weighted total.
func (p *Pipeline) Run(ctx context.Context, user string) (*Result, error) {
	prof, err := p.source.Profile(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	p.logger.Info(ctx, "profile fetched",
		logger.String("username", prof.Username),
		logger.Float64("live_total", prof.TotalPP),
		logger.Int("playcount", prof.PlayCount))

	plays, err := p.source.BestPlays(ctx, user, p.bestLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch best plays: %w", err)
	}
	if len(plays) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoPlays, user)
	}

	if err := p.evaluate(ctx, plays); err != nil {
		return nil, err
	}

	live := make([]model.Play, len(plays))
	copy(live, plays)
	model.SortByLivePP(live)

	local := make([]model.Play, len(plays))
	copy(local, plays)
	model.SortByLocalPP(local)

	comparison, err := p.calc.Compare(
		model.LocalPPs(local), model.LivePPs(live), prof.PlayCount, prof.TotalPP)
	if err != nil {
		return nil, fmt.Errorf("compare tracks: %w", err)
	}
	metrics.RecordProfileChecked()

	return &Result{
		Profile:    prof,
		Local:      local,
		Live:       live,
		Comparison: comparison,
	}, nil
}

// evaluate fills LocalPP on every play using a bounded worker pool.
// Workers share the plays slice but each index is owned by exactly one
// worker, so no locking is needed around the writes.
func (p *Pipeline) evaluate(ctx context.Context, plays []model.Play) error {
	indexCh := make(chan int)
	errs := make([]error, len(plays))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				errs[i] = p.evaluateOne(ctx, &plays[i])
			}
		}()
	}

	go func() {
		defer close(indexCh)
		for i := range plays {
			select {
			case <-ctx.Done():
				return
			case indexCh <- i:
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation canceled: %w", err)
	}
	return errors.Join(errs...)
}

func (p *Pipeline) evaluateOne(ctx context.Context, play *model.Play) error {
	beatmap, err := p.beatmaps.Get(ctx, play.BeatmapID)
	if err != nil {
		metrics.RecordEvaluationError()
		return fmt.Errorf("beatmap %d: %w", play.BeatmapID, err)
	}
	pp, err := p.evaluator.Evaluate(ctx, *play, beatmap)
	if err != nil {
		metrics.RecordEvaluationError()
		return fmt.Errorf("evaluate beatmap %d: %w", play.BeatmapID, err)
	}
	play.LocalPP = pp
	metrics.RecordPlayEvaluated()
	p.logger.Debug(ctx, "play evaluated",
		logger.Int64("beatmap_id", play.BeatmapID),
		logger.Float64("live_pp", play.LivePP),
		logger.Float64("local_pp", pp))
	return nil
}

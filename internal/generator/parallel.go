package generator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/lotofacil/internal/model"
)

// GenerateParallel splits cfg.Plays across workers, each with its own
// generator seeded from g. Distinct batches need a shared view of earlier
// plays, so they run sequentially on g.
func (g *Generator) GenerateParallel(ctx context.Context, h model.History, cfg Config, workers int) (Result, error) {
	if workers <= 1 || cfg.RequireDistinct || cfg.Plays <= 1 {
		return g.Generate(ctx, h, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if workers > cfg.Plays {
		workers = cfg.Plays
	}

	shares := make([]int, workers)
	for i := range shares {
		shares[i] = cfg.Plays / workers
		if i < cfg.Plays%workers {
			shares[i]++
		}
	}
	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = g.rnd.Int63()
	}

	results := make([]Result, workers)
	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		group.Go(func() error {
			sub := cfg
			sub.Plays = shares[i]
			res, err := NewSeeded(seeds[i]).Generate(gctx, h, sub)
			results[i] = res
			return err
		})
	}
	err := group.Wait()

	merged := Result{Plays: make([]model.Play, 0, cfg.Plays)}
	for _, res := range results {
		merged.Plays = append(merged.Plays, res.Plays...)
		merged.Attempts += res.Attempts
	}
	return merged, err
}

package generator

import (
	"context"
	"fmt"
	"sort"

	"github.com/creasty/defaults"

	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
)

const searchCheckEvery = 256

// SearchConfig drives the historical performance search.
type SearchConfig struct {
	Size    int `json:"size" yaml:"size" default:"15" validate:"gte=15,lte=20"`
	Tier    int `json:"tier" yaml:"tier" default:"11" validate:"gte=11,lte=15"`
	Samples int `json:"samples" yaml:"samples" default:"3000" validate:"gte=1,lte=1000000"`
	Top     int `json:"top" yaml:"top" default:"5" validate:"gte=1,lte=100"`
}

// DefaultSearchConfig returns the search defaults.
func DefaultSearchConfig() SearchConfig {
	var cfg SearchConfig
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("search defaults: %v", err))
	}
	return cfg
}

// Validate checks search bounds.
func (c SearchConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}
	return nil
}

// Search samples uniform plays of cfg.Size numbers, scores them against the
// history and keeps the best cfg.Top. Plays that never reached a prize tier
// are discarded. Ranking is by the count at cfg.Tier, then total prizes.
func (g *Generator) Search(ctx context.Context, h model.History, cfg SearchConfig) ([]stats.Evaluation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}

	tried := make(map[uint32]struct{}, cfg.Samples)
	var found []stats.Evaluation
	for i := 0; i < cfg.Samples; i++ {
		if i%searchCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("search cancelled: %w", err)
			}
		}
		play := g.uniformPlay(cfg.Size)
		mask := play.Mask()
		if _, ok := tried[mask]; ok {
			continue
		}
		tried[mask] = struct{}{}

		ev := stats.Evaluate(h, play)
		if ev.Total == 0 {
			continue
		}
		found = append(found, ev)
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.Tier(cfg.Tier) != b.Tier(cfg.Tier) {
			return a.Tier(cfg.Tier) > b.Tier(cfg.Tier)
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Play.String() < b.Play.String()
	})
	if len(found) > cfg.Top {
		found = found[:cfg.Top]
	}
	return found, nil
}

func (g *Generator) uniformPlay(size int) model.Play {
	perm := g.rnd.Perm(model.NumberCount)[:size]
	play := make(model.Play, size)
	for i, idx := range perm {
		play[i] = idx + model.MinNumber
	}
	sort.Ints(play)
	return play
}

// Package generator builds Lotofácil plays biased by frequency and delay.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
)

// Generator produces randomized plays. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator drawing from src.
func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.NewSource(seed))
}

// NewTimeSeeded returns a Generator seeded with the current time.
func NewTimeSeeded() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// Result is the outcome of a batch. Shortfall counts plays that could not be
// produced because every remaining attempt collided with an earlier play.
type Result struct {
	Plays     []model.Play `json:"plays" yaml:"plays"`
	Attempts  int          `json:"attempts" yaml:"attempts"`
	Shortfall int          `json:"shortfall" yaml:"shortfall"`
}

// Weights returns the selection weight of every number, indexed 1..25.
// Index 0 is unused.
func Weights(freq model.FrequencyTable, delay model.DelayTable, cfg Config) []float64 {
	nf := normalize(freq)
	nd := normalize(delay)
	weights := make([]float64, model.MaxNumber+1)
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		weights[n] = cfg.Alpha*nf[n] + cfg.Beta*nd[n] + cfg.Floor
	}
	return weights
}

// normalize scales a table into [0,1] by min-max. A flat table maps to 1.
func normalize[T ~map[int]int](table T) []float64 {
	out := make([]float64, model.MaxNumber+1)
	lo, hi := 0, 0
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		v := table[n]
		if n == model.MinNumber || v < lo {
			lo = v
		}
		if n == model.MinNumber || v > hi {
			hi = v
		}
	}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		if hi == lo {
			out[n] = 1
			continue
		}
		out[n] = float64(table[n]-lo) / float64(hi-lo)
	}
	return out
}

// Sample picks k distinct numbers by roulette selection without replacement
// and returns them sorted. weights is indexed by number; index 0 is ignored.
func (g *Generator) Sample(weights []float64, k int) model.Play {
	pool := make([]int, 0, len(weights)-1)
	for n := 1; n < len(weights); n++ {
		pool = append(pool, n)
	}
	if k > len(pool) {
		k = len(pool)
	}

	picked := make([]int, 0, k)
	for len(picked) < k {
		total := 0.0
		for _, n := range pool {
			total += weights[n]
		}
		idx := -1
		if total <= 0 {
			idx = g.rnd.Intn(len(pool))
		} else {
			r := g.rnd.Float64() * total
			acc := 0.0
			for i, n := range pool {
				if weights[n] <= 0 {
					continue
				}
				acc += weights[n]
				idx = i
				if r < acc {
					break
				}
			}
		}
		picked = append(picked, pool[idx])
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	sort.Ints(picked)
	return model.Play(picked)
}

// Generate produces cfg.Plays plays from the given history. On
// GenerationExhaustedError the plays produced so far are returned with it.
func (g *Generator) Generate(ctx context.Context, h model.History, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	weights := Weights(stats.Frequencies(h), stats.Delays(h), cfg)

	var last *model.Draw
	if d, ok := h.Last(); ok {
		last = &d
	}

	var seen map[uint32]struct{}
	if cfg.RequireDistinct {
		seen = make(map[uint32]struct{}, cfg.Plays)
	}

	res := Result{Plays: make([]model.Play, 0, cfg.Plays)}
	for i := 0; i < cfg.Plays; i++ {
		play, attempts, err := g.generateOne(ctx, weights, cfg, last, seen, i+1)
		res.Attempts += attempts
		if err != nil {
			var exhausted *GenerationExhaustedError
			if errors.As(err, &exhausted) && onlyDuplicates(exhausted) {
				res.Shortfall = cfg.Plays - len(res.Plays)
				return res, nil
			}
			return res, err
		}
		if seen != nil {
			seen[play.Mask()] = struct{}{}
		}
		res.Plays = append(res.Plays, play)
	}
	return res, nil
}

func (g *Generator) generateOne(ctx context.Context, weights []float64, cfg Config, last *model.Draw, seen map[uint32]struct{}, index int) (model.Play, int, error) {
	failures := make(map[string]int)
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, fmt.Errorf("generation cancelled: %w", err)
		}
		play := g.Sample(weights, model.DrawSize)
		if violations := cfg.Violations(play, last); len(violations) > 0 {
			for _, name := range violations {
				failures[name]++
			}
			continue
		}
		if seen != nil {
			if _, dup := seen[play.Mask()]; dup {
				failures[ConstraintDuplicate]++
				continue
			}
		}
		return play, attempt, nil
	}
	return nil, cfg.MaxAttempts, &GenerationExhaustedError{Play: index, Attempts: cfg.MaxAttempts, Failures: failures}
}

func onlyDuplicates(err *GenerationExhaustedError) bool {
	return len(err.Failures) == 1 && err.Failures[ConstraintDuplicate] == err.Attempts
}

package stats

import (
	"math/bits"

	"github.com/verte-zerg/lotofacil/internal/model"
)

// Prize tiers are 11 to 15 matched numbers.
const (
	MinPrizeHits = 11
	MaxPrizeHits = 15
)

// Evaluation is how a play would have performed against every past draw.
type Evaluation struct {
	Play  model.Play `json:"play" yaml:"play"`
	Tiers [5]int     `json:"tiers" yaml:"tiers"`
	Total int        `json:"total" yaml:"total"`
}

// Tier returns the count of draws hit with exactly hits numbers.
func (e Evaluation) Tier(hits int) int {
	if hits < MinPrizeHits || hits > MaxPrizeHits {
		return 0
	}
	return e.Tiers[hits-MinPrizeHits]
}

// Evaluate scores one play against history.
func Evaluate(h model.History, play model.Play) Evaluation {
	ev := Evaluation{Play: play}
	mask := play.Mask()
	for _, d := range h {
		hits := bits.OnesCount32(mask & d.Mask())
		if hits >= MinPrizeHits {
			ev.Tiers[min(hits, MaxPrizeHits)-MinPrizeHits]++
			ev.Total++
		}
	}
	return ev
}

// EvaluatePlays scores every play against history.
func EvaluatePlays(h model.History, plays []model.Play) []Evaluation {
	out := make([]Evaluation, len(plays))
	for i, p := range plays {
		out[i] = Evaluate(h, p)
	}
	return out
}

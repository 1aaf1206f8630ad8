package generator

import (
	"math/bits"

	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
)

// Constraint names used in violation reports.
const (
	ConstraintSum       = "sum"
	ConstraintOdd       = "odd"
	ConstraintRun       = "run"
	ConstraintOverlap   = "overlap"
	ConstraintDuplicate = "duplicate"
)

// Violations lists the enabled constraints a sorted play breaks. The
// overlap check is skipped when last is nil.
func (c Config) Violations(play model.Play, last *model.Draw) []string {
	var out []string
	if c.Sum.Enabled && !c.Sum.Contains(play.Sum()) {
		out = append(out, ConstraintSum)
	}
	if c.Odd.Enabled && !c.Odd.Contains(play.Odd()) {
		out = append(out, ConstraintOdd)
	}
	if c.MaxRun.Enabled && stats.LongestRun(play) > c.MaxRun.Max {
		out = append(out, ConstraintRun)
	}
	if c.MaxOverlap.Enabled && last != nil && bits.OnesCount32(play.Mask()&last.Mask()) > c.MaxOverlap.Max {
		out = append(out, ConstraintOverlap)
	}
	return out
}

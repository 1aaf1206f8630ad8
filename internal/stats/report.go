package stats

import (
	"context"

	"github.com/verte-zerg/lotofacil/internal/model"
)

const (
	minComboSize     = 2
	maxComboSize     = 5
	defaultTopCombos = 5
)

// DrawSource lists stored draws oldest first, limited to the newest last
// draws when last > 0.
type DrawSource interface {
	ListDraws(ctx context.Context, last int) ([]model.DrawRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records      []model.DrawRecord
	History      model.History
	Analysis     Analysis
	OddEven      []OddEvenCount
	Runs         []RunCount
	Sums         SumSummary
	Combinations map[int][]Combination
}

// BuildReport loads the draw window and computes every statistic.
func BuildReport(ctx context.Context, src DrawSource, cfg model.StatsConfig) (Report, error) {
	records, err := src.ListDraws(ctx, cfg.Last)
	if err != nil {
		return Report{}, err
	}
	return NewReport(records, cfg.TopN), nil
}

// NewReport computes every statistic over records.
func NewReport(records []model.DrawRecord, topCombos int) Report {
	if topCombos <= 0 {
		topCombos = defaultTopCombos
	}
	h := model.HistoryOf(records)
	return Report{
		Records:      records,
		History:      h,
		Analysis:     Analyze(h),
		OddEven:      OddEvenDistribution(h),
		Runs:         RunHistogram(h),
		Sums:         Sums(h),
		Combinations: RepeatedCombinations(h, minComboSize, maxComboSize, topCombos),
	}
}

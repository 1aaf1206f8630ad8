package stats

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/lotofacil/internal/model"
)

// InvalidTableError reports a table that does not cover exactly 1..25.
type InvalidTableError struct {
	Table  string
	Reason string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid %s table: %s", e.Table, e.Reason)
}

// BuildFrequencyRanking orders numbers by appearances.
func BuildFrequencyRanking(freq model.FrequencyTable) (model.Ranking, error) {
	return buildRanking("frequency", freq)
}

// BuildDelayRanking orders numbers by draws since last seen.
func BuildDelayRanking(delay model.DelayTable) (model.Ranking, error) {
	return buildRanking("delay", delay)
}

func buildRanking[T ~map[int]int](name string, table T) (model.Ranking, error) {
	if err := validateTable(name, table); err != nil {
		return nil, err
	}
	ranking := make(model.Ranking, 0, len(table))
	for n, score := range table {
		ranking = append(ranking, model.RankEntry{Number: n, Score: score})
	}
	SortRanking(ranking)
	return ranking, nil
}

// SortRanking sorts by score descending, ties by ascending number.
func SortRanking(r model.Ranking) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].Score == r[j].Score {
			return r[i].Number < r[j].Number
		}
		return r[i].Score > r[j].Score
	})
}

func validateTable[T ~map[int]int](name string, table T) error {
	if len(table) != model.NumberCount {
		return &InvalidTableError{Table: name, Reason: fmt.Sprintf("expected %d entries, got %d", model.NumberCount, len(table))}
	}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		score, ok := table[n]
		if !ok {
			return &InvalidTableError{Table: name, Reason: fmt.Sprintf("missing number %d", n)}
		}
		if score < 0 {
			return &InvalidTableError{Table: name, Reason: fmt.Sprintf("negative score %d for number %d", score, n)}
		}
	}
	return nil
}

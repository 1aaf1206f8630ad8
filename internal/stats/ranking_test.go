package stats

import (
	"errors"
	"testing"

	"github.com/verte-zerg/lotofacil/internal/model"
)

func TestBuildFrequencyRankingTieBreak(t *testing.T) {
	freq := model.FrequencyTable{}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		freq[n] = 1
	}
	freq[20] = 5
	freq[4] = 5
	freq[9] = 0

	ranking, err := BuildFrequencyRanking(freq)
	if err != nil {
		t.Fatalf("BuildFrequencyRanking failed: %v", err)
	}
	if len(ranking) != model.NumberCount {
		t.Fatalf("expected %d entries, got %d", model.NumberCount, len(ranking))
	}
	if ranking[0].Number != 4 || ranking[1].Number != 20 {
		t.Fatalf("unexpected head: %+v", ranking[:2])
	}
	if ranking[2].Number != 1 {
		t.Fatalf("expected ties resolved ascending, got %+v", ranking[2])
	}
	if ranking[len(ranking)-1].Number != 9 {
		t.Fatalf("expected 9 last, got %+v", ranking[len(ranking)-1])
	}
}

func TestRankingIsIdempotent(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(6), seqDraw(3), seqDraw(11)}
	ranking, err := BuildDelayRanking(Delays(h))
	if err != nil {
		t.Fatalf("BuildDelayRanking failed: %v", err)
	}
	again := append(model.Ranking(nil), ranking...)
	SortRanking(again)
	for i := range ranking {
		if ranking[i] != again[i] {
			t.Fatalf("re-sort changed position %d: %+v vs %+v", i, ranking[i], again[i])
		}
	}
	for i := 1; i < len(ranking); i++ {
		prev, cur := ranking[i-1], ranking[i]
		if prev.Score < cur.Score || (prev.Score == cur.Score && prev.Number > cur.Number) {
			t.Fatalf("ranking out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestBuildRankingRejectsMalformedTables(t *testing.T) {
	missing := model.DelayTable{}
	for n := model.MinNumber; n < model.MaxNumber; n++ {
		missing[n] = 0
	}
	extra := model.DelayTable{}
	for n := 0; n < model.MaxNumber; n++ {
		extra[n] = 0
	}
	negative := model.DelayTable{}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		negative[n] = 0
	}
	negative[3] = -1

	for name, table := range map[string]model.DelayTable{"missing": missing, "shifted": extra, "negative": negative} {
		_, err := BuildDelayRanking(table)
		var invalid *InvalidTableError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s: expected InvalidTableError, got %v", name, err)
		}
	}
}

package stats

import (
	"testing"

	"github.com/verte-zerg/lotofacil/internal/model"
)

func TestEvaluate(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(2), seqDraw(5), seqDraw(11)}
	play := model.Play(seqDraw(1).Numbers())

	ev := Evaluate(h, play)
	// Overlaps: 15, 14, 11, 5.
	if ev.Tier(15) != 1 || ev.Tier(14) != 1 || ev.Tier(11) != 1 {
		t.Fatalf("unexpected tiers: %+v", ev.Tiers)
	}
	if ev.Total != 3 {
		t.Fatalf("expected 3 prize hits, got %d", ev.Total)
	}
	if ev.Tier(10) != 0 {
		t.Fatalf("expected 0 for non-prize tier")
	}
}

func TestEvaluatePlaysLargerPlay(t *testing.T) {
	h := model.History{seqDraw(1)}
	play, err := model.ParsePlay([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20})
	if err != nil {
		t.Fatalf("ParsePlay failed: %v", err)
	}
	evs := EvaluatePlays(h, []model.Play{play})
	if len(evs) != 1 || evs[0].Tier(15) != 1 {
		t.Fatalf("unexpected evaluation: %+v", evs)
	}
}

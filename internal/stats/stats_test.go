package stats

import (
	"testing"

	"github.com/verte-zerg/lotofacil/internal/model"
)

func seqDraw(start int) model.Draw {
	numbers := make([]int, model.DrawSize)
	for i := range numbers {
		numbers[i] = start + i
	}
	return model.MustDraw(numbers...)
}

func TestAnalyzeThreeDrawScenario(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(2), seqDraw(3)}
	freq := Frequencies(h)
	delay := Delays(h)

	if freq[1] != 1 {
		t.Fatalf("expected frequency(1)=1, got %d", freq[1])
	}
	if freq[3] != 3 {
		t.Fatalf("expected frequency(3)=3, got %d", freq[3])
	}
	if delay[1] != 2 {
		t.Fatalf("expected delay(1)=2, got %d", delay[1])
	}
	if delay[17] != 0 {
		t.Fatalf("expected delay(17)=0, got %d", delay[17])
	}
	if delay[25] != len(h) {
		t.Fatalf("expected never-seen delay %d, got %d", len(h), delay[25])
	}
}

func TestFrequenciesSumToDrawSize(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(5), seqDraw(11), seqDraw(2), seqDraw(9)}
	total := 0
	for _, c := range Frequencies(h) {
		total += c
	}
	if total != model.DrawSize*len(h) {
		t.Fatalf("expected %d appearances, got %d", model.DrawSize*len(h), total)
	}
}

func TestNeverSeenNumbersHaveFullDelay(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(1), seqDraw(2)}
	delay := Delays(h)
	for n := 17; n <= model.MaxNumber; n++ {
		if delay[n] != len(h) {
			t.Fatalf("expected delay(%d)=%d, got %d", n, len(h), delay[n])
		}
	}
}

func TestEmptyHistoryIsAllZero(t *testing.T) {
	a := Analyze(nil)
	if len(a.Frequency) != model.NumberCount || len(a.Delay) != model.NumberCount {
		t.Fatalf("expected tables over all numbers")
	}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		if a.Frequency[n] != 0 || a.Delay[n] != 0 || a.MaxDelay[n] != 0 {
			t.Fatalf("expected zero stats for %d", n)
		}
	}
	if a.FrequencyRanking[0].Number != 1 || a.DelayRanking[24].Number != 25 {
		t.Fatalf("expected ascending tie order on empty history")
	}
}

func TestMaxDelays(t *testing.T) {
	// 1 is missing from draws 1..3, then back, then missing again once.
	h := model.History{seqDraw(1), seqDraw(2), seqDraw(3), seqDraw(4), seqDraw(1), seqDraw(2)}
	maxDelay := MaxDelays(h)
	if maxDelay[1] != 3 {
		t.Fatalf("expected max delay(1)=3, got %d", maxDelay[1])
	}
	if maxDelay[25] != len(h) {
		t.Fatalf("expected max delay(25)=%d, got %d", len(h), maxDelay[25])
	}
	if maxDelay[10] != 0 {
		t.Fatalf("expected max delay(10)=0, got %d", maxDelay[10])
	}
}

package stats

import (
	"testing"

	"github.com/verte-zerg/lotofacil/internal/model"
)

func TestLongestRun(t *testing.T) {
	cases := []struct {
		numbers []int
		want    int
	}{
		{nil, 0},
		{[]int{5}, 1},
		{[]int{1, 3, 5}, 1},
		{[]int{1, 2, 3, 7, 8}, 3},
		{[]int{1, 2, 4, 5, 6, 7}, 4},
	}
	for _, tc := range cases {
		if got := LongestRun(tc.numbers); got != tc.want {
			t.Fatalf("LongestRun(%v) = %d, want %d", tc.numbers, got, tc.want)
		}
	}
}

func TestRunHistogram(t *testing.T) {
	d := model.MustDraw(1, 2, 3, 5, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 25)
	runs := RunHistogram(model.History{d})
	want := map[int]int{2: 2, 3: 1}
	if len(runs) != len(want) {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	for _, r := range runs {
		if want[r.Length] != r.Runs {
			t.Fatalf("unexpected count for length %d: %d", r.Length, r.Runs)
		}
	}
}

func TestOddEvenDistribution(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(1), seqDraw(2)}
	dist := OddEvenDistribution(h)
	if len(dist) != 2 {
		t.Fatalf("expected 2 splits, got %+v", dist)
	}
	if dist[0].Odd != 8 || dist[0].Draws != 2 {
		t.Fatalf("unexpected most common split: %+v", dist[0])
	}
	if dist[1].Odd != 7 || dist[1].Even != 8 {
		t.Fatalf("unexpected second split: %+v", dist[1])
	}
}

func TestSums(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(3)}
	sums := Sums(h)
	if sums.Min != 120 || sums.Max != 150 || sums.Mean != 135 {
		t.Fatalf("unexpected summary: %+v", sums)
	}
	if len(sums.Series) != 2 {
		t.Fatalf("expected series of 2, got %d", len(sums.Series))
	}
}

func TestRepeatedCombinations(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(2), seqDraw(3)}
	combos := RepeatedCombinations(h, 2, 3, 2)
	pairs := combos[2]
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	// Pairs within 3..15 appear in all three draws; ties go to the smallest numbers.
	if pairs[0].Count != 3 || pairs[0].Numbers[0] != 3 || pairs[0].Numbers[1] != 4 {
		t.Fatalf("unexpected top pair: %+v", pairs[0])
	}
	if pairs[1].Numbers[0] != 3 || pairs[1].Numbers[1] != 5 {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
	if len(combos[3]) != 2 || len(combos[3][0].Numbers) != 3 {
		t.Fatalf("unexpected triples: %+v", combos[3])
	}
}

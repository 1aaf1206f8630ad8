package stats

import (
	"math/bits"
	"sort"

	"github.com/verte-zerg/lotofacil/internal/model"
)

// OddEvenCount is how many draws had a given even/odd split.
type OddEvenCount struct {
	Even  int `json:"even" yaml:"even"`
	Odd   int `json:"odd" yaml:"odd"`
	Draws int `json:"draws" yaml:"draws"`
}

// RunCount is how many runs of a given length were seen.
type RunCount struct {
	Length int `json:"length" yaml:"length"`
	Runs   int `json:"runs" yaml:"runs"`
}

// SumSummary describes the distribution of draw sums.
type SumSummary struct {
	Min    int       `json:"min" yaml:"min"`
	Mean   float64   `json:"mean" yaml:"mean"`
	Max    int       `json:"max" yaml:"max"`
	Series []float64 `json:"-" yaml:"-"`
}

// Combination is a repeated subset of numbers and its occurrences.
type Combination struct {
	Numbers []int `json:"numbers" yaml:"numbers"`
	Count   int   `json:"count" yaml:"count"`
}

// LongestRun returns the longest stretch of consecutive integers in sorted numbers.
func LongestRun(sorted []int) int {
	if len(sorted) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 1
	}
	return longest
}

// runLengths returns the length of every run of two or more consecutive numbers.
func runLengths(sorted []int) []int {
	var out []int
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run++
			continue
		}
		if run >= 2 {
			out = append(out, run)
		}
		run = 1
	}
	if run >= 2 {
		out = append(out, run)
	}
	return out
}

// OddEvenDistribution counts draws per even/odd split, most common first.
func OddEvenDistribution(h model.History) []OddEvenCount {
	counts := map[int]int{}
	for _, d := range h {
		counts[model.Play(d.Numbers()).Odd()]++
	}
	out := make([]OddEvenCount, 0, len(counts))
	for odd, draws := range counts {
		out = append(out, OddEvenCount{Even: model.DrawSize - odd, Odd: odd, Draws: draws})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Draws == out[j].Draws {
			return out[i].Odd < out[j].Odd
		}
		return out[i].Draws > out[j].Draws
	})
	return out
}

// RunHistogram counts consecutive runs of length >= 2 across draws.
func RunHistogram(h model.History) []RunCount {
	counts := map[int]int{}
	for _, d := range h {
		for _, l := range runLengths(d.Numbers()) {
			counts[l]++
		}
	}
	out := make([]RunCount, 0, len(counts))
	for l, runs := range counts {
		out = append(out, RunCount{Length: l, Runs: runs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}

// Sums summarizes draw sums in history order.
func Sums(h model.History) SumSummary {
	if len(h) == 0 {
		return SumSummary{}
	}
	summary := SumSummary{Series: make([]float64, len(h))}
	total := 0
	for i, d := range h {
		s := model.Play(d.Numbers()).Sum()
		summary.Series[i] = float64(s)
		total += s
		if i == 0 || s < summary.Min {
			summary.Min = s
		}
		if s > summary.Max {
			summary.Max = s
		}
	}
	summary.Mean = float64(total) / float64(len(h))
	return summary
}

// RepeatedCombinations returns, for each subset size in [minSize,maxSize],
// the top most frequent subsets across draws, ties by ascending numbers.
func RepeatedCombinations(h model.History, minSize, maxSize, top int) map[int][]Combination {
	out := make(map[int][]Combination, maxSize-minSize+1)
	for k := minSize; k <= maxSize; k++ {
		counts := map[uint32]int{}
		for _, d := range h {
			forEachSubset(d.Numbers(), k, func(mask uint32) {
				counts[mask]++
			})
		}
		type entry struct {
			mask  uint32
			count int
		}
		entries := make([]entry, 0, len(counts))
		for mask, c := range counts {
			entries = append(entries, entry{mask: mask, count: c})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count == entries[j].count {
				return lessMask(entries[i].mask, entries[j].mask)
			}
			return entries[i].count > entries[j].count
		})
		if top > 0 && len(entries) > top {
			entries = entries[:top]
		}
		combos := make([]Combination, 0, len(entries))
		for _, e := range entries {
			combos = append(combos, Combination{Numbers: numbersOf(e.mask), Count: e.count})
		}
		out[k] = combos
	}
	return out
}

func forEachSubset(numbers []int, k int, fn func(uint32)) {
	if k <= 0 || k > len(numbers) {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		var mask uint32
		for _, i := range idx {
			mask |= 1 << uint(numbers[i])
		}
		fn(mask)
		i := k - 1
		for i >= 0 && idx[i] == len(numbers)-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func numbersOf(mask uint32) []int {
	out := make([]int, 0, bits.OnesCount32(mask))
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		if mask&(1<<uint(n)) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// lessMask orders subsets of equal size lexicographically by their numbers.
func lessMask(a, b uint32) bool {
	for a != 0 && b != 0 {
		la, lb := bits.TrailingZeros32(a), bits.TrailingZeros32(b)
		if la != lb {
			return la < lb
		}
		a &^= 1 << uint(la)
		b &^= 1 << uint(lb)
	}
	return a == 0 && b != 0
}

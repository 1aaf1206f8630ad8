// Package stats contains draw statistics, rankings and reporting.
package stats

import (
	"github.com/verte-zerg/lotofacil/internal/model"
)

// Analysis bundles the tables and rankings derived from one history.
type Analysis struct {
	Draws            int
	Frequency        model.FrequencyTable
	Delay            model.DelayTable
	MaxDelay         model.DelayTable
	FrequencyRanking model.Ranking
	DelayRanking     model.Ranking
}

// Frequencies counts how many draws contain each number.
func Frequencies(h model.History) model.FrequencyTable {
	freq := make(model.FrequencyTable, model.NumberCount)
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		freq[n] = 0
	}
	for _, d := range h {
		for _, n := range d.Numbers() {
			freq[n]++
		}
	}
	return freq
}

// Delays returns, per number, how many draws have passed since it last
// appeared. Numbers never drawn get len(h); an empty history yields zeros.
func Delays(h model.History) model.DelayTable {
	delay := make(model.DelayTable, model.NumberCount)
	newest := len(h) - 1
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		delay[n] = len(h)
		for i := newest; i >= 0; i-- {
			if h[i].Contains(n) {
				delay[n] = newest - i
				break
			}
		}
	}
	return delay
}

// MaxDelays returns the longest streak of draws without each number,
// counting the streak still open at the newest draw.
func MaxDelays(h model.History) model.DelayTable {
	longest := make(model.DelayTable, model.NumberCount)
	current := make(map[int]int, model.NumberCount)
	for _, d := range h {
		for n := model.MinNumber; n <= model.MaxNumber; n++ {
			if d.Contains(n) {
				if current[n] > longest[n] {
					longest[n] = current[n]
				}
				current[n] = 0
				continue
			}
			current[n]++
		}
	}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		if current[n] > longest[n] {
			longest[n] = current[n]
		}
	}
	return longest
}

// Analyze computes every table and ranking for h.
func Analyze(h model.History) Analysis {
	freq := Frequencies(h)
	delay := Delays(h)
	// Both tables are built over 1..25 above, so ranking cannot fail.
	freqRanking, _ := BuildFrequencyRanking(freq)
	delayRanking, _ := BuildDelayRanking(delay)
	return Analysis{
		Draws:            len(h),
		Frequency:        freq,
		Delay:            delay,
		MaxDelay:         MaxDelays(h),
		FrequencyRanking: freqRanking,
		DelayRanking:     delayRanking,
	}
}

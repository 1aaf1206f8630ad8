package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/verte-zerg/lotofacil/internal/model"
)

// RenderRankings prints the frequency and delay rankings.
func RenderRankings(w io.Writer, a Analysis, top int) error {
	if a.Draws == 0 {
		_, err := fmt.Fprintln(w, "No draws found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Draws analyzed: %d\n\n", a.Draws); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Frequency Ranking"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(a.FrequencyRanking))
	for i, e := range limitRanking(a.FrequencyRanking, top) {
		pct := float64(e.Score) / float64(a.Draws) * 100
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%02d", e.Number),
			strconv.Itoa(e.Score),
			fmt.Sprintf("%.1f%%", pct),
		})
	}
	if err := writeLines(w, formatTable([]string{"#", "Number", "Hits", "Rate"}, rows, map[int]bool{0: true, 2: true, 3: true})); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Delay Ranking"); err != nil {
		return err
	}
	rows = rows[:0]
	for i, e := range limitRanking(a.DelayRanking, top) {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%02d", e.Number),
			strconv.Itoa(e.Score),
			strconv.Itoa(a.MaxDelay[e.Number]),
		})
	}
	return writeLines(w, formatTable([]string{"#", "Number", "Delay", "Max Delay"}, rows, map[int]bool{0: true, 2: true, 3: true}))
}

// RenderPlays prints generated plays with their shape.
func RenderPlays(w io.Writer, plays []model.Play) error {
	if len(plays) == 0 {
		_, err := fmt.Fprintln(w, "No plays generated.")
		return err
	}
	rows := make([][]string, 0, len(plays))
	total := 0.0
	for i, p := range plays {
		price, _ := model.BetPrice(len(p))
		total += price
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.String(),
			strconv.Itoa(p.Sum()),
			fmt.Sprintf("%d/%d", p.Odd(), len(p)-p.Odd()),
			strconv.Itoa(LongestRun(p)),
			fmt.Sprintf("%.2f", price),
		})
	}
	if err := writeLines(w, formatTable([]string{"#", "Numbers", "Sum", "Odd/Even", "Run", "Price"}, rows, map[int]bool{0: true, 2: true, 4: true, 5: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total cost: %.2f\n", total)
	return err
}

// RenderEvaluations prints historical hit counts per play.
func RenderEvaluations(w io.Writer, evs []Evaluation) error {
	if len(evs) == 0 {
		_, err := fmt.Fprintln(w, "No plays to evaluate.")
		return err
	}
	headers := []string{"#", "Numbers"}
	for hits := MinPrizeHits; hits <= MaxPrizeHits; hits++ {
		headers = append(headers, fmt.Sprintf("%d pts", hits))
	}
	headers = append(headers, "Total")
	right := map[int]bool{0: true}
	for i := 2; i < len(headers); i++ {
		right[i] = true
	}
	rows := make([][]string, 0, len(evs))
	for i, ev := range evs {
		row := []string{strconv.Itoa(i + 1), ev.Play.String()}
		for _, c := range ev.Tiers {
			row = append(row, strconv.Itoa(c))
		}
		row = append(row, strconv.Itoa(ev.Total))
		rows = append(rows, row)
	}
	return writeLines(w, formatTable(headers, rows, right))
}

// RenderBalance prints odd/even splits, run lengths and the sum summary.
func RenderBalance(w io.Writer, h model.History) error {
	if len(h) == 0 {
		_, err := fmt.Fprintln(w, "No draws found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Odd/Even"); err != nil {
		return err
	}
	rows := [][]string{}
	for _, c := range OddEvenDistribution(h) {
		rows = append(rows, []string{strconv.Itoa(c.Odd), strconv.Itoa(c.Even), strconv.Itoa(c.Draws)})
	}
	if err := writeLines(w, formatTable([]string{"Odd", "Even", "Draws"}, rows, map[int]bool{0: true, 1: true, 2: true})); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Consecutive Runs"); err != nil {
		return err
	}
	rows = rows[:0]
	for _, c := range RunHistogram(h) {
		rows = append(rows, []string{strconv.Itoa(c.Length), strconv.Itoa(c.Runs)})
	}
	if err := writeLines(w, formatTable([]string{"Length", "Runs"}, rows, map[int]bool{0: true, 1: true})); err != nil {
		return err
	}

	sums := Sums(h)
	_, err := fmt.Fprintf(w, "Sum: min %d  mean %.2f  max %d\n", sums.Min, sums.Mean, sums.Max)
	return err
}

// RenderCombinations prints the most repeated subsets by size.
func RenderCombinations(w io.Writer, combos map[int][]Combination) error {
	sizes := make([]int, 0, len(combos))
	for k := range combos {
		sizes = append(sizes, k)
	}
	sort.Ints(sizes)
	for _, k := range sizes {
		if _, err := fmt.Fprintf(w, "Top %d-number combinations\n", k); err != nil {
			return err
		}
		rows := make([][]string, 0, len(combos[k]))
		for _, c := range combos[k] {
			rows = append(rows, []string{model.FormatNumbers(c.Numbers), strconv.Itoa(c.Count)})
		}
		if err := writeLines(w, formatTable([]string{"Numbers", "Draws"}, rows, map[int]bool{1: true})); err != nil {
			return err
		}
	}
	return nil
}

func limitRanking(r model.Ranking, top int) model.Ranking {
	if top <= 0 || top >= len(r) {
		return r
	}
	return r[:top]
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

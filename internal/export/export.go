// Package export writes rankings, plays and evaluations as text, JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/lotofacil/internal/generator"
	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
)

// Format selects the output encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (text, json, yaml)", s)
	}
}

// NumberStat is one number's row across every table.
type NumberStat struct {
	Number    int     `json:"number" yaml:"number"`
	Frequency int     `json:"frequency" yaml:"frequency"`
	Rate      float64 `json:"rate" yaml:"rate"`
	Delay     int     `json:"delay" yaml:"delay"`
	MaxDelay  int     `json:"max_delay" yaml:"max_delay"`
}

// RankingsDoc is the encoded form of an analysis.
type RankingsDoc struct {
	Draws     int           `json:"draws" yaml:"draws"`
	Frequency model.Ranking `json:"frequency_ranking" yaml:"frequency_ranking"`
	Delay     model.Ranking `json:"delay_ranking" yaml:"delay_ranking"`
	Numbers   []NumberStat  `json:"numbers" yaml:"numbers"`
}

// NewRankingsDoc builds a RankingsDoc with rankings cut to top entries;
// top <= 0 keeps all 25.
func NewRankingsDoc(a stats.Analysis, top int) RankingsDoc {
	doc := RankingsDoc{
		Draws:     a.Draws,
		Frequency: limit(a.FrequencyRanking, top),
		Delay:     limit(a.DelayRanking, top),
		Numbers:   make([]NumberStat, 0, model.NumberCount),
	}
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		row := NumberStat{
			Number:    n,
			Frequency: a.Frequency[n],
			Delay:     a.Delay[n],
			MaxDelay:  a.MaxDelay[n],
		}
		if a.Draws > 0 {
			row.Rate = float64(row.Frequency) / float64(a.Draws)
		}
		doc.Numbers = append(doc.Numbers, row)
	}
	return doc
}

func limit(r model.Ranking, top int) model.Ranking {
	if top <= 0 || top >= len(r) {
		return r
	}
	return r[:top]
}

// PlayDoc describes one play.
type PlayDoc struct {
	Numbers    []int   `json:"numbers" yaml:"numbers"`
	Sum        int     `json:"sum" yaml:"sum"`
	Odd        int     `json:"odd" yaml:"odd"`
	Even       int     `json:"even" yaml:"even"`
	LongestRun int     `json:"longest_run" yaml:"longest_run"`
	Price      float64 `json:"price" yaml:"price"`
}

// NewPlayDoc describes p.
func NewPlayDoc(p model.Play) PlayDoc {
	price, _ := model.BetPrice(len(p))
	return PlayDoc{
		Numbers:    append([]int(nil), p...),
		Sum:        p.Sum(),
		Odd:        p.Odd(),
		Even:       len(p) - p.Odd(),
		LongestRun: stats.LongestRun(p),
		Price:      price,
	}
}

// PlaysDoc is the encoded form of a generated batch.
type PlaysDoc struct {
	BatchID   string    `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
	Attempts  int       `json:"attempts" yaml:"attempts"`
	Shortfall int       `json:"shortfall" yaml:"shortfall"`
	TotalCost float64   `json:"total_cost" yaml:"total_cost"`
	Plays     []PlayDoc `json:"plays" yaml:"plays"`
}

// NewPlaysDoc builds a PlaysDoc from a generation result.
func NewPlaysDoc(batchID string, res generator.Result) PlaysDoc {
	doc := PlaysDoc{
		BatchID:   batchID,
		Attempts:  res.Attempts,
		Shortfall: res.Shortfall,
		Plays:     make([]PlayDoc, 0, len(res.Plays)),
	}
	for _, p := range res.Plays {
		pd := NewPlayDoc(p)
		doc.TotalCost += pd.Price
		doc.Plays = append(doc.Plays, pd)
	}
	return doc
}

// EvaluationDoc is the encoded form of a historical evaluation.
type EvaluationDoc struct {
	Numbers []int       `json:"numbers" yaml:"numbers"`
	Hits    map[int]int `json:"hits" yaml:"hits"`
	Total   int         `json:"total" yaml:"total"`
}

// NewEvaluationDocs converts evaluations, keyed by matched-number tier.
func NewEvaluationDocs(evs []stats.Evaluation) []EvaluationDoc {
	out := make([]EvaluationDoc, 0, len(evs))
	for _, ev := range evs {
		doc := EvaluationDoc{
			Numbers: append([]int(nil), ev.Play...),
			Hits:    make(map[int]int, len(ev.Tiers)),
			Total:   ev.Total,
		}
		for hits := stats.MinPrizeHits; hits <= stats.MaxPrizeHits; hits++ {
			doc.Hits[hits] = ev.Tier(hits)
		}
		out = append(out, doc)
	}
	return out
}

// ReportDoc is the encoded form of a full statistics report.
type ReportDoc struct {
	RankingsDoc  `yaml:",inline"`
	OddEven      []stats.OddEvenCount        `json:"odd_even" yaml:"odd_even"`
	Runs         []stats.RunCount            `json:"runs" yaml:"runs"`
	Sums         stats.SumSummary            `json:"sums" yaml:"sums"`
	Combinations map[int][]stats.Combination `json:"combinations" yaml:"combinations"`
}

// NewReportDoc builds a ReportDoc from a report.
func NewReportDoc(r stats.Report, top int) ReportDoc {
	return ReportDoc{
		RankingsDoc:  NewRankingsDoc(r.Analysis, top),
		OddEven:      r.OddEven,
		Runs:         r.Runs,
		Sums:         r.Sums,
		Combinations: r.Combinations,
	}
}

// Encode writes doc as JSON or YAML.
func Encode(w io.Writer, f Format, doc any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q has no encoder", f)
	}
}

// WriteRankings writes an analysis in the given format.
func WriteRankings(w io.Writer, f Format, a stats.Analysis, top int) error {
	if f == FormatText {
		return stats.RenderRankings(w, a, top)
	}
	return Encode(w, f, NewRankingsDoc(a, top))
}

// WritePlays writes a generated batch in the given format.
func WritePlays(w io.Writer, f Format, batchID string, res generator.Result) error {
	if f != FormatText {
		return Encode(w, f, NewPlaysDoc(batchID, res))
	}
	if err := stats.RenderPlays(w, res.Plays); err != nil {
		return err
	}
	if res.Shortfall > 0 {
		if _, err := fmt.Fprintf(w, "Shortfall: %d plays could not be made distinct\n", res.Shortfall); err != nil {
			return err
		}
	}
	if batchID != "" {
		if _, err := fmt.Fprintf(w, "Saved batch: %s\n", batchID); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvaluations writes historical evaluations in the given format.
func WriteEvaluations(w io.Writer, f Format, evs []stats.Evaluation) error {
	if f == FormatText {
		return stats.RenderEvaluations(w, evs)
	}
	return Encode(w, f, NewEvaluationDocs(evs))
}

// WriteReport writes a full report in the given format.
func WriteReport(w io.Writer, f Format, r stats.Report, top int) error {
	if f != FormatText {
		return Encode(w, f, NewReportDoc(r, top))
	}
	if err := stats.RenderRankings(w, r.Analysis, top); err != nil {
		return err
	}
	if err := stats.RenderBalance(w, r.History); err != nil {
		return err
	}
	return stats.RenderCombinations(w, r.Combinations)
}

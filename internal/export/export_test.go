package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/lotofacil/internal/generator"
	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
)

func seqDraw(start int) model.Draw {
	numbers := make([]int, model.DrawSize)
	for i := range numbers {
		numbers[i] = start + i
	}
	return model.MustDraw(numbers...)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestWriteRankingsJSON(t *testing.T) {
	a := stats.Analyze(model.History{seqDraw(1), seqDraw(11)})
	var buf bytes.Buffer
	if err := WriteRankings(&buf, FormatJSON, a, 3); err != nil {
		t.Fatalf("write rankings: %v", err)
	}
	var doc RankingsDoc
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Draws != 2 || len(doc.Frequency) != 3 || len(doc.Numbers) != 25 {
		t.Fatalf("unexpected doc %+v", doc)
	}
	if doc.Frequency[0].Number != 11 || doc.Frequency[0].Score != 2 {
		t.Fatalf("expected 11 to lead the frequency ranking, got %+v", doc.Frequency[0])
	}
	if doc.Numbers[0].Rate != 0.5 || doc.Numbers[0].Delay != 1 {
		t.Fatalf("unexpected stats for 01: %+v", doc.Numbers[0])
	}
}

func TestWritePlaysYAML(t *testing.T) {
	res := generator.Result{
		Plays:     []model.Play{model.Play(seqDraw(1).Numbers())},
		Attempts:  4,
		Shortfall: 1,
	}
	var buf bytes.Buffer
	if err := WritePlays(&buf, FormatYAML, "batch-1", res); err != nil {
		t.Fatalf("write plays: %v", err)
	}
	var doc PlaysDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.BatchID != "batch-1" || doc.Attempts != 4 || doc.Shortfall != 1 {
		t.Fatalf("unexpected doc %+v", doc)
	}
	if len(doc.Plays) != 1 || doc.Plays[0].Sum != 120 || doc.Plays[0].Odd != 8 || doc.Plays[0].LongestRun != 15 {
		t.Fatalf("unexpected play %+v", doc.Plays)
	}
	if doc.TotalCost != 3.5 {
		t.Fatalf("unexpected total cost %v", doc.TotalCost)
	}
}

func TestWritePlaysText(t *testing.T) {
	res := generator.Result{Plays: []model.Play{model.Play(seqDraw(1).Numbers())}, Shortfall: 2}
	var buf bytes.Buffer
	if err := WritePlays(&buf, FormatText, "abc", res); err != nil {
		t.Fatalf("write plays: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total cost: 3.50", "Shortfall: 2", "Saved batch: abc"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestEvaluationDocs(t *testing.T) {
	h := model.History{seqDraw(1), seqDraw(2)}
	evs := stats.EvaluatePlays(h, []model.Play{model.Play(seqDraw(1).Numbers())})
	docs := NewEvaluationDocs(evs)
	if len(docs) != 1 || docs[0].Hits[15] != 1 || docs[0].Hits[14] != 1 || docs[0].Total != 2 {
		t.Fatalf("unexpected evaluation docs %+v", docs)
	}

	var buf bytes.Buffer
	if err := WriteEvaluations(&buf, FormatJSON, evs); err != nil {
		t.Fatalf("write evaluations: %v", err)
	}
	if !strings.Contains(buf.String(), `"15": 1`) {
		t.Fatalf("expected tier keys in json, got %s", buf.String())
	}
}

func TestWriteReport(t *testing.T) {
	var records []model.DrawRecord
	for i := 1; i <= 4; i++ {
		records = append(records, model.DrawRecord{Contest: i, Draw: seqDraw(i)})
	}
	report := stats.NewReport(records, 2)

	var buf bytes.Buffer
	if err := WriteReport(&buf, FormatJSON, report, 5); err != nil {
		t.Fatalf("write report: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"draws", "frequency_ranking", "odd_even", "runs", "sums", "combinations"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing %q in report json", key)
		}
	}

	buf.Reset()
	if err := WriteReport(&buf, FormatText, report, 5); err != nil {
		t.Fatalf("write text report: %v", err)
	}
	if !strings.Contains(buf.String(), "Frequency Ranking") {
		t.Fatalf("text report missing rankings: %q", buf.String())
	}
}

package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "lotofacil.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var records []model.DrawRecord
	for i := 0; i < 5; i++ {
		records = append(records, model.DrawRecord{Contest: i + 1, Draw: seqDraw(i + 1)})
	}
	if _, err := st.UpsertDraws(ctx, records); err != nil {
		t.Fatalf("upsert draws: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 3, TopN: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 3 || report.Records[0].Contest != 3 {
		t.Fatalf("unexpected window: %+v", report.Records)
	}
	if report.Analysis.Draws != 3 {
		t.Fatalf("expected 3 analyzed draws, got %d", report.Analysis.Draws)
	}
	if report.Analysis.Delay[3] != 2 {
		t.Fatalf("expected delay(3)=2 within window, got %d", report.Analysis.Delay[3])
	}
	if len(report.Combinations[2]) != 2 || len(report.Combinations[5]) != 2 {
		t.Fatalf("expected top 2 combinations per size, got %+v", report.Combinations)
	}
	if report.Sums.Min != 150 {
		t.Fatalf("unexpected min sum %d", report.Sums.Min)
	}
}

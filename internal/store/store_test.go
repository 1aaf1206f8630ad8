package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/lotofacil/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "lotofacil.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func record(contest, start int) model.DrawRecord {
	numbers := make([]int, model.DrawSize)
	for i := range numbers {
		numbers[i] = start + i
	}
	return model.DrawRecord{
		Contest: contest,
		Date:    time.Date(2024, 1, contest, 0, 0, 0, 0, time.UTC),
		Draw:    model.MustDraw(numbers...),
	}
}

func TestUpsertAndListDraws(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	inserted, err := st.UpsertDraws(ctx, []model.DrawRecord{record(3, 3), record(1, 1), record(2, 2)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("expected 3 inserted, got %d", inserted)
	}
	inserted, err = st.UpsertDraws(ctx, []model.DrawRecord{record(3, 4), record(4, 5)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected 1 new contest, got %d", inserted)
	}

	all, err := st.ListDraws(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 draws, got %d", len(all))
	}
	for i, r := range all {
		if r.Contest != i+1 {
			t.Fatalf("expected ascending contests, got %d at %d", r.Contest, i)
		}
	}
	if all[2].Draw.Numbers()[0] != 4 {
		t.Fatalf("expected contest 3 to be replaced, got %s", all[2].Draw)
	}
	if !all[0].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", all[0].Date)
	}

	last, err := st.ListDraws(ctx, 2)
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].Contest != 3 || last[1].Contest != 4 {
		t.Fatalf("unexpected window: %+v", last)
	}

	latest, err := st.LatestContest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != 4 {
		t.Fatalf("expected latest 4, got %d", latest)
	}
}

func TestLatestContestEmpty(t *testing.T) {
	st := openTestStore(t)
	latest, err := st.LatestContest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != 0 {
		t.Fatalf("expected 0, got %d", latest)
	}
}

func TestSaveAndGetBatch(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	plays := []model.Play{
		model.Play(record(1, 1).Draw.Numbers()),
		model.Play(record(1, 5).Draw.Numbers()),
	}
	id, err := st.SaveBatch(ctx, model.Batch{Note: "weekly", Plays: plays})
	if err != nil {
		t.Fatalf("save batch: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	batch, err := st.GetBatch(ctx, id)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if batch.Note != "weekly" || len(batch.Plays) != 2 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if batch.Plays[1].String() != plays[1].String() {
		t.Fatalf("play order not preserved: %v", batch.Plays)
	}

	batches, err := st.ListBatches(ctx, 10)
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	if len(batches) != 1 || batches[0].ID != id || len(batches[0].Plays) != 2 {
		t.Fatalf("unexpected batches: %+v", batches)
	}

	if _, err := st.GetBatch(ctx, "missing"); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}

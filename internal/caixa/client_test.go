package caixa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/store"
)

func payload(contest, start int, listKey string) string {
	balls := make([]string, model.DrawSize)
	for i := range balls {
		balls[i] = fmt.Sprintf("%q", fmt.Sprintf("%02d", start+i))
	}
	return fmt.Sprintf(`{"numero":%d,"dataApuracao":"16/10/2025","%s":[%s]}`, contest, listKey, strings.Join(balls, ","))
}

func newServer(t *testing.T, latest int, missing map[int]bool, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		path := strings.Trim(r.URL.Path, "/")
		if path == "" {
			fmt.Fprint(w, payload(latest, 11, "listaDezenas"))
			return
		}
		var n int
		if _, err := fmt.Sscanf(path, "%d", &n); err != nil || n > latest || missing[n] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, payload(n, 1+n%10, "dezenasSorteadasOrdemSorteio"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseResult(t *testing.T) {
	rec, err := ParseResult([]byte(payload(3500, 5, "listaDezenas")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Contest != 3500 || rec.Draw.Numbers()[0] != 5 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !rec.Date.Equal(time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", rec.Date)
	}

	alt := `{"numero":7,"data":"2024-01-02","listaDezenas":[],"dezenasSorteadasOrdemSorteio":["25","01","02","03","04","05","06","07","08","09","10","11","12","13","14"]}`
	rec, err = ParseResult([]byte(alt))
	if err != nil {
		t.Fatalf("parse fallback fields: %v", err)
	}
	if rec.Draw.Numbers()[14] != 25 || rec.Date.Year() != 2024 {
		t.Fatalf("fallback fields not used: %+v", rec)
	}

	var invalid *model.InvalidDrawError
	if _, err := ParseResult([]byte(`{"numero":9,"listaDezenas":["01","02"]}`)); !errors.As(err, &invalid) || invalid.Contest != 9 {
		t.Fatalf("expected InvalidDrawError for contest 9, got %v", err)
	}
	if _, err := ParseResult([]byte(`{"listaDezenas":[]}`)); err == nil {
		t.Fatalf("expected missing contest error")
	}
	if _, err := ParseResult([]byte(`not json`)); err == nil {
		t.Fatalf("expected invalid payload error")
	}
}

func TestClientContest(t *testing.T) {
	srv := newServer(t, 10, map[int]bool{4: true}, nil)
	client := New(Options{BaseURL: srv.URL, Rate: -1})
	ctx := context.Background()

	latest, err := client.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Contest != 10 {
		t.Fatalf("expected latest 10, got %d", latest.Contest)
	}
	rec, err := client.Contest(ctx, 3)
	if err != nil {
		t.Fatalf("contest: %v", err)
	}
	if rec.Contest != 3 || rec.Draw.Numbers()[0] != 4 {
		t.Fatalf("unexpected contest %+v", rec)
	}
	if _, err := client.Contest(ctx, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSync(t *testing.T) {
	var hits int32
	srv := newServer(t, 6, map[int]bool{5: true}, &hits)
	client := New(Options{BaseURL: srv.URL, Rate: -1})

	st, err := store.Open(filepath.Join(t.TempDir(), "lotofacil.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	seed := model.DrawRecord{Contest: 2, Draw: model.MustDraw(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)}
	if _, err := st.UpsertDraws(ctx, []model.DrawRecord{seed}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	res, err := client.Sync(ctx, st)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.LocalBefore != 2 || res.Remote != 6 || res.Inserted != 3 {
		t.Fatalf("unexpected sync result %+v", res)
	}
	if len(res.Unavailable) != 1 || res.Unavailable[0] != 5 {
		t.Fatalf("expected contest 5 unavailable, got %v", res.Unavailable)
	}
	if hits != 4 {
		t.Fatalf("expected 4 requests, got %d", hits)
	}

	records, err := st.ListDraws(ctx, 0)
	if err != nil {
		t.Fatalf("list draws: %v", err)
	}
	var contests []int
	for _, r := range records {
		contests = append(contests, r.Contest)
	}
	if fmt.Sprint(contests) != "[2 3 4 6]" {
		t.Fatalf("unexpected stored contests %v", contests)
	}

	again, err := client.Sync(ctx, st)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if again.Inserted != 0 {
		t.Fatalf("second sync should be a no-op, got %+v", again)
	}
}

func TestSyncResumesAfterFailure(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(r.URL.Path, "/")
		if path == "" {
			fmt.Fprint(w, payload(5, 11, "listaDezenas"))
			return
		}
		var n int
		if _, err := fmt.Sscanf(path, "%d", &n); err != nil || n > 5 {
			http.NotFound(w, r)
			return
		}
		if n == 3 && failing.Load() {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, payload(n, n, "listaDezenas"))
	}))
	t.Cleanup(srv.Close)
	client := New(Options{BaseURL: srv.URL, Rate: -1})

	st, err := store.Open(filepath.Join(t.TempDir(), "lotofacil.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()

	first, err := client.Sync(ctx, st)
	if err == nil {
		t.Fatalf("expected first sync to fail on contest 3")
	}
	if first.Inserted != 2 {
		t.Fatalf("expected contests 1-2 kept, got %+v", first)
	}
	latest, err := st.LatestContest(ctx)
	if err != nil {
		t.Fatalf("latest contest: %v", err)
	}
	if latest != 2 {
		t.Fatalf("newest contest must not be stored before the gap is filled, latest=%d", latest)
	}

	failing.Store(false)
	second, err := client.Sync(ctx, st)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.LocalBefore != 2 || second.Inserted != 3 {
		t.Fatalf("unexpected second sync result %+v", second)
	}
	records, err := st.ListDraws(ctx, 0)
	if err != nil {
		t.Fatalf("list draws: %v", err)
	}
	var contests []int
	for _, r := range records {
		contests = append(contests, r.Contest)
	}
	if fmt.Sprint(contests) != "[1 2 3 4 5]" {
		t.Fatalf("gap not filled: stored %v", contests)
	}
}

// Package store handles SQLite persistence of draws and saved plays.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/lotofacil/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dateLayout = "2006-01-02"

// ErrBatchNotFound is returned when a saved batch id is unknown.
var ErrBatchNotFound = errors.New("batch not found")

// Store wraps SQLite access for draw history and saved batches.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS draws (
			contest INTEGER PRIMARY KEY,
			drawn_on TEXT NOT NULL,
			numbers TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS play_batches (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			note TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS batch_plays (
			batch_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			numbers TEXT NOT NULL,
			PRIMARY KEY (batch_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_play_batches_created_at ON play_batches(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertDraws stores records, replacing any existing contest with the same
// number, and returns how many contests were new.
func (s *Store) UpsertDraws(ctx context.Context, records []model.DrawRecord) (inserted int, err error) {
	if len(records) == 0 {
		return 0, nil
	}
	before, err := s.CountDraws(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO draws (contest, drawn_on, numbers) VALUES (?, ?, ?)
		 ON CONFLICT(contest) DO UPDATE SET drawn_on = excluded.drawn_on, numbers = excluded.numbers`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, r := range records {
		if _, err = stmt.ExecContext(ctx, r.Contest, formatDate(r.Date), encodeNumbers(r.Draw.Numbers())); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}

	after, err := s.CountDraws(ctx)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

// CountDraws returns how many contests are stored.
func (s *Store) CountDraws(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draws`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// LatestContest returns the highest stored contest number, or 0 when empty.
func (s *Store) LatestContest(ctx context.Context) (int, error) {
	var n sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(contest) FROM draws`).Scan(&n); err != nil {
		return 0, err
	}
	return int(n.Int64), nil
}

// ListDraws returns stored draws ordered by contest, limited to the newest
// last draws when last > 0.
func (s *Store) ListDraws(ctx context.Context, last int) ([]model.DrawRecord, error) {
	query := `SELECT contest, drawn_on, numbers FROM draws ORDER BY contest ASC`
	args := []any{}
	if last > 0 {
		query = `SELECT contest, drawn_on, numbers FROM (
			SELECT contest, drawn_on, numbers FROM draws ORDER BY contest DESC LIMIT ?
		) ORDER BY contest ASC`
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.DrawRecord
	for rows.Next() {
		var contest int
		var drawnOn, numbers string
		if err := rows.Scan(&contest, &drawnOn, &numbers); err != nil {
			return nil, err
		}
		parsed, err := decodeNumbers(numbers)
		if err != nil {
			return nil, fmt.Errorf("contest %d: %w", contest, err)
		}
		draw, err := model.NewDraw(parsed)
		if err != nil {
			return nil, err
		}
		date, err := parseDate(drawnOn)
		if err != nil {
			return nil, fmt.Errorf("contest %d: %w", contest, err)
		}
		records = append(records, model.DrawRecord{Contest: contest, Date: date, Draw: draw})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveBatch stores a batch of plays. An empty ID gets a new UUID.
func (s *Store) SaveBatch(ctx context.Context, batch model.Batch) (id string, err error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO play_batches (id, created_at, note) VALUES (?, ?, ?)`,
		batch.ID, batch.CreatedAt.Format(time.RFC3339Nano), batch.Note,
	); err != nil {
		return "", err
	}
	for i, p := range batch.Plays {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO batch_plays (batch_id, position, numbers) VALUES (?, ?, ?)`,
			batch.ID, i, encodeNumbers(p),
		); err != nil {
			return "", err
		}
	}
	if err = tx.Commit(); err != nil {
		return "", err
	}
	return batch.ID, nil
}

// GetBatch loads a saved batch with its plays.
func (s *Store) GetBatch(ctx context.Context, id string) (model.Batch, error) {
	var batch model.Batch
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, note FROM play_batches WHERE id = ?`, id,
	).Scan(&batch.ID, &createdAt, &batch.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Batch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return model.Batch{}, err
	}
	if batch.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.Batch{}, err
	}
	plays, err := s.listBatchPlays(ctx, id)
	if err != nil {
		return model.Batch{}, err
	}
	batch.Plays = plays
	return batch, nil
}

// ListBatches returns the most recent batches, newest first.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]model.Batch, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, note FROM play_batches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var batches []model.Batch
	for rows.Next() {
		var b model.Batch
		var createdAt string
		if err := rows.Scan(&b.ID, &createdAt, &b.Note); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range batches {
		plays, err := s.listBatchPlays(ctx, batches[i].ID)
		if err != nil {
			return nil, err
		}
		batches[i].Plays = plays
	}
	return batches, nil
}

func (s *Store) listBatchPlays(ctx context.Context, id string) ([]model.Play, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT numbers FROM batch_plays WHERE batch_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var plays []model.Play
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		numbers, err := decodeNumbers(raw)
		if err != nil {
			return nil, err
		}
		plays = append(plays, model.Play(numbers))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plays, nil
}

func encodeNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func decodeNumbers(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid stored number %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

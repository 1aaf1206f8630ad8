package caixa

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/lotofacil/internal/history"
	"github.com/verte-zerg/lotofacil/internal/model"
)

const syncChunk = 50

// Store is the persistence the sync needs.
type Store interface {
	LatestContest(ctx context.Context) (int, error)
	UpsertDraws(ctx context.Context, records []model.DrawRecord) (int, error)
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	LocalBefore int
	Remote      int
	Inserted    int
	Unavailable []int
}

// Sync fetches every contest newer than the store's latest and writes them
// in ascending order. Contests the API reports as missing are recorded and
// skipped. Records are written in chunks so a failure keeps earlier work;
// the newest contest goes last so an interrupted run leaves no gap below the
// stored maximum.
func (c *Client) Sync(ctx context.Context, st Store) (SyncResult, error) {
	local, err := st.LatestContest(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to read latest contest: %w", err)
	}
	res := SyncResult{LocalBefore: local}

	latest, err := c.Latest(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to fetch latest contest: %w", err)
	}
	res.Remote = latest.Contest
	if latest.Contest <= local {
		c.log.Info().Int("contest", local).Msg("history up to date")
		return res, nil
	}

	pending := history.NewSet()
	flush := func() error {
		if pending.Len() == 0 {
			return nil
		}
		n, err := st.UpsertDraws(ctx, pending.Records())
		if err != nil {
			return fmt.Errorf("failed to store draws: %w", err)
		}
		res.Inserted += n
		pending = history.NewSet()
		return nil
	}

	for _, number := range pending.Missing(local+1, latest.Contest-1) {
		rec, err := c.Contest(ctx, number)
		if errors.Is(err, ErrNotFound) {
			c.log.Warn().Int("contest", number).Msg("contest unavailable")
			res.Unavailable = append(res.Unavailable, number)
			continue
		}
		if err != nil {
			if ferr := flush(); ferr != nil {
				c.log.Error().Err(ferr).Msg("flush after fetch failure")
			}
			return res, fmt.Errorf("failed to fetch contest %d: %w", number, err)
		}
		c.log.Debug().Int("contest", number).Msg("fetched contest")
		pending.Add(rec)
		if pending.Len() >= syncChunk {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	pending.Add(latest)
	if err := flush(); err != nil {
		return res, err
	}
	c.log.Info().Int("from", local+1).Int("to", latest.Contest).Int("inserted", res.Inserted).Msg("sync finished")
	return res, nil
}

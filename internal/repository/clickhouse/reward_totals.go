package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const rewardTotalsQuery = `
SELECT
	countIf(miner != '') AS blocks,
	sum(reward) AS rewards,
	sum(fees) AS fees,
	sum(message_count) AS messages
FROM netstats_blocks FINAL
WHERE height <= ?`

// RewardTotals aggregates produced blocks, rewards, fees and messages up to and including height.
func (r *Repository) RewardTotals(ctx context.Context, height uint64) (totals model.RewardTotals, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("reward_totals", err, start)
	}()

	rows, err := r.conn.Query(ctx, rewardTotalsQuery, height)
	if err != nil {
		return model.RewardTotals{}, fmt.Errorf("query reward totals: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		return model.RewardTotals{}, fmt.Errorf("reward totals not found")
	}
	if err = rows.Scan(&totals.Blocks, &totals.Rewards, &totals.Fees, &totals.Messages); err != nil {
		return model.RewardTotals{}, fmt.Errorf("scan reward totals: %w", err)
	}
	if err = rows.Err(); err != nil {
		return model.RewardTotals{}, fmt.Errorf("iterate reward totals: %w", err)
	}
	return totals, nil
}

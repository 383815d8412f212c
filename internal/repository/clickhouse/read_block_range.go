package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const readBlockRangeQuery = `
SELECT
	height,
	hash,
	parent_hash,
	mined_at,
	miner,
	reward,
	fees,
	message_count,
	difficulty
FROM netstats_blocks FINAL
WHERE mined_at > ? AND mined_at <= ?
ORDER BY height`

// ReadBlockRange returns blocks mined in (from, to] ordered by height.
func (r *Repository) ReadBlockRange(ctx context.Context, from, to time.Time) (blocks []model.Block, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("read_block_range", err, start)
	}()

	rows, err := r.conn.Query(ctx, readBlockRangeQuery, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query block range: %w", err)
	}
	defer closeRows(rows, &err)

	for rows.Next() {
		var b model.Block
		if err = rows.Scan(
			&b.Height,
			&b.Hash,
			&b.ParentHash,
			&b.MinedAt,
			&b.Miner,
			&b.Reward,
			&b.Fees,
			&b.MessageCount,
			&b.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block range: %w", err)
	}
	return blocks, nil
}

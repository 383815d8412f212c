package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const appendBlocksQuery = `
INSERT INTO netstats_blocks (
	height,
	hash,
	parent_hash,
	mined_at,
	miner,
	reward,
	fees,
	message_count,
	difficulty
) VALUES`

// AppendBlocks inserts blocks in one batch. The batch must start right after the
// highest stored height and be strictly contiguous, otherwise ErrNonContiguousAppend is returned.
func (r *Repository) AppendBlocks(ctx context.Context, blocks []model.Block) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("append_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Height != blocks[i-1].Height+1 {
			err = fmt.Errorf("%w: height %d follows %d", ErrNonContiguousAppend, blocks[i].Height, blocks[i-1].Height)
			return err
		}
	}

	r.appendMu.Lock()
	defer r.appendMu.Unlock()

	cursor, err := r.maxBlockHeight(ctx)
	if err != nil {
		return err
	}
	if blocks[0].Height != cursor.Next() {
		err = fmt.Errorf("%w: first height %d, expected %d", ErrNonContiguousAppend, blocks[0].Height, cursor.Next())
		return err
	}

	batch, err := r.conn.PrepareBatch(ctx, appendBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			block.Height,
			block.Hash,
			block.ParentHash,
			block.MinedAt,
			block.Miner,
			block.Reward,
			block.Fees,
			block.MessageCount,
			block.Difficulty,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append block %d: %w", block.Height, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

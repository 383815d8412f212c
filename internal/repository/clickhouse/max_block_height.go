package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const maxBlockHeightQuery = `
SELECT count() AS blocks, max(height) AS max_height
FROM netstats_blocks`

// MaxBlockHeight returns the cursor of the highest stored block.
func (r *Repository) MaxBlockHeight(ctx context.Context) (model.SyncCursor, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_block_height", err, start)
	}()

	cursor, err := r.maxBlockHeight(ctx)
	return cursor, err
}

func (r *Repository) maxBlockHeight(ctx context.Context) (cursor model.SyncCursor, err error) {
	rows, err := r.conn.Query(ctx, maxBlockHeightQuery)
	if err != nil {
		return model.SyncCursor{}, fmt.Errorf("query max block height: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		return model.SyncCursor{}, fmt.Errorf("max block height not found")
	}
	var count, height uint64
	if err = rows.Scan(&count, &height); err != nil {
		return model.SyncCursor{}, fmt.Errorf("scan max block height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return model.SyncCursor{}, fmt.Errorf("iterate max block height: %w", err)
	}

	if count == 0 {
		return model.EmptyCursor(), nil
	}
	return model.CursorAt(height), nil
}

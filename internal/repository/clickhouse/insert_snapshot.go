package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const insertSnapshotQuery = `
INSERT INTO netstats_snapshots (
	computed_at,
	height,
	cursor_empty,
	payload
) VALUES`

// InsertSnapshot persists a published snapshot as a JSON payload row.
func (r *Repository) InsertSnapshot(ctx context.Context, snapshot model.Snapshot) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_snapshot", err, start)
	}()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	batch, err := r.conn.PrepareBatch(ctx, insertSnapshotQuery)
	if err != nil {
		return fmt.Errorf("prepare snapshot batch: %w", err)
	}

	var empty uint8
	if snapshot.Cursor.Empty {
		empty = 1
	}
	if err = batch.Append(snapshot.ComputedAt.UTC(), snapshot.Cursor.Height, empty, string(payload)); err != nil {
		_ = batch.Abort()
		return fmt.Errorf("append snapshot: %w", err)
	}
	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

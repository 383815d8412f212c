package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const latestSnapshotQuery = `
SELECT payload
FROM netstats_snapshots
ORDER BY computed_at DESC
LIMIT 1`

// LatestSnapshot returns the most recently persisted snapshot, or nil when none exists.
func (r *Repository) LatestSnapshot(ctx context.Context) (snapshot *model.Snapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_snapshot", err, start)
	}()

	rows, err := r.conn.Query(ctx, latestSnapshotQuery)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate latest snapshot: %w", err)
		}
		return nil, nil
	}

	var payload string
	if err = rows.Scan(&payload); err != nil {
		return nil, fmt.Errorf("scan latest snapshot: %w", err)
	}
	var decoded model.Snapshot
	if err = json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("decode latest snapshot: %w", err)
	}
	return &decoded, nil
}

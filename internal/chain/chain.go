// Package chain declares the node client the syncer reads canonical blocks from.
package chain

import (
	"context"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

// Client reads canonical chain state from a node.
type Client interface {
	// ChainHead returns metadata about the current tip.
	ChainHead(ctx context.Context) (model.ChainSnapshot, error)
	// GetBlocksAfter returns up to limit blocks starting at cursor.Next(), in height order.
	// An empty slice with a nil error means there is nothing new.
	GetBlocksAfter(ctx context.Context, cursor model.SyncCursor, limit int) ([]model.Block, error)
}

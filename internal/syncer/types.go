package syncer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainClient interface {
		ChainHead(ctx context.Context) (model.ChainSnapshot, error)
		GetBlocksAfter(ctx context.Context, cursor model.SyncCursor, limit int) ([]model.Block, error)
	}
	BlockStore interface {
		MaxBlockHeight(ctx context.Context) (model.SyncCursor, error)
		AppendBlocks(ctx context.Context, blocks []model.Block) error
	}
	Metrics interface {
		ObserveCycle(err error, reason string, blocks int, started time.Time)
		ObserveOverlap()
		SetHeights(cursor, tip uint64)
	}
)

// SyncedFunc is called after every successful cycle with the new cursor and chain tip.
type SyncedFunc func(cursor model.SyncCursor, head model.ChainSnapshot)

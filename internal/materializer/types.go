package materializer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Registry interface {
		ListActive(now time.Time) []model.NodeStatus
		Get(peer model.PeerID, now time.Time) (model.NodeStatus, bool)
	}
	SyncState interface {
		Cursor() (model.SyncCursor, bool)
		LastChainSnapshot() (model.ChainSnapshot, bool)
	}
	Store interface {
		ReadBlockRange(ctx context.Context, from, to time.Time) ([]model.Block, error)
		RewardTotals(ctx context.Context, height uint64) (model.RewardTotals, error)
		InsertSnapshot(ctx context.Context, snapshot model.Snapshot) error
		LatestSnapshot(ctx context.Context) (*model.Snapshot, error)
	}
	Metrics interface {
		ObserveRun(err error, started time.Time)
		ObservePublished(computedAt time.Time, confidence float64)
	}
)

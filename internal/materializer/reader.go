package materializer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/cache"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const persistedSnapshotKey = "snapshot:persisted"

// ErrNoSnapshot is returned when nothing has been materialized yet.
var ErrNoSnapshot = errors.New("no snapshot materialized yet")

// Reader is the read-only view handed to consumers.
type Reader struct {
	materializer *Materializer
	registry     Registry
	store        Store
	cache        *cache.Cache
	ttl          time.Duration
}

func NewReader(m *Materializer) (*Reader, error) {
	if m == nil {
		return nil, errors.New("reader materializer is required")
	}
	return &Reader{
		materializer: m,
		registry:     m.registry,
		store:        m.store,
		cache:        m.cache,
		ttl:          m.cacheTTL,
	}, nil
}

// Latest returns the published snapshot. After a restart, before the first run completes,
// it falls back to the last persisted one.
func (r *Reader) Latest(ctx context.Context) (*model.Snapshot, error) {
	if s := r.materializer.Current(); s != nil {
		return s, nil
	}

	s, err := cache.GetOrCompute(ctx, r.cache, persistedSnapshotKey, r.ttl, func(ctx context.Context) (*model.Snapshot, error) {
		s, err := r.store.LatestSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, ErrNoSnapshot
		}
		return s, nil
	})
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return nil, err
		}
		return nil, fmt.Errorf("load persisted snapshot: %w", err)
	}
	return s, nil
}

// MiningPower returns the estimate of the latest snapshot.
func (r *Reader) MiningPower(ctx context.Context) (model.MiningPowerEstimate, error) {
	s, err := r.Latest(ctx)
	if err != nil {
		return model.MiningPowerEstimate{}, err
	}
	return s.MiningPower, nil
}

// ActiveNodes lists live peers. The peer list is cached briefly, each peer's status is read
// from the registry at now so heartbeats after the cache fill show up and stale peers drop out.
func (r *Reader) ActiveNodes(ctx context.Context, now time.Time) ([]model.NodeStatus, error) {
	bucket := now.Truncate(r.ttl)
	key := fmt.Sprintf("nodes:%d", bucket.Unix())
	peers, err := cache.GetOrCompute(ctx, r.cache, key, r.ttl, func(context.Context) ([]model.PeerID, error) {
		active := r.registry.ListActive(now)
		ids := make([]model.PeerID, 0, len(active))
		for _, n := range active {
			ids = append(ids, n.PeerID)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.NodeStatus, 0, len(peers))
	for _, peer := range peers {
		if n, ok := r.registry.Get(peer, now); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

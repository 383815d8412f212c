// Package materializer periodically composes registry, chain and storage reads into one
// immutable Snapshot and publishes it atomically.
package materializer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/cache"
	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/miningpower"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"go.uber.org/zap"
)

const (
	defaultWindow    = time.Hour
	defaultCacheTTL  = 15 * time.Second
	defaultTopMiners = 10
	defaultSyncedLag = 5

	defaultPersistTimeout = 30 * time.Second
)

// ErrNotSynced is returned while the sync cursor has not been loaded yet.
var ErrNotSynced = errors.New("sync cursor not loaded")

type Config struct {
	// Window is the trailing period of the mining and market aggregates.
	Window    time.Duration
	CacheTTL  time.Duration
	TopMiners int
	// SyncedLag is the height distance to the chain tip under which a node counts as synced.
	SyncedLag uint64
	Power     miningpower.Params
	// PersistTimeout bounds the snapshot insert.
	PersistTimeout time.Duration
}

type Materializer struct {
	registry Registry
	sync     SyncState
	store    Store
	cache    *cache.Cache
	clock    clock.Clock
	metrics  Metrics
	logger   *zap.Logger

	window    time.Duration
	cacheTTL  time.Duration
	topMiners int
	syncedLag uint64
	power     miningpower.Params

	persistTimeout time.Duration

	current atomic.Pointer[model.Snapshot]
}

func New(cfg Config, registry Registry, sync SyncState, store Store, c *cache.Cache, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*Materializer, error) {
	if registry == nil {
		return nil, errors.New("materializer registry is required")
	}
	if sync == nil {
		return nil, errors.New("materializer sync state is required")
	}
	if store == nil {
		return nil, errors.New("materializer store is required")
	}
	if c == nil {
		return nil, errors.New("materializer cache is required")
	}
	if clk == nil {
		return nil, errors.New("materializer clock is required")
	}
	if metrics == nil {
		return nil, errors.New("materializer metrics is required")
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.TopMiners <= 0 {
		cfg.TopMiners = defaultTopMiners
	}
	if cfg.SyncedLag == 0 {
		cfg.SyncedLag = defaultSyncedLag
	}
	if cfg.Power.Window <= 0 {
		cfg.Power.Window = cfg.Window
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}

	return &Materializer{
		registry:  registry,
		sync:      sync,
		store:     store,
		cache:     c,
		clock:     clk,
		metrics:   metrics,
		logger:    logger.Named("materializer"),
		window:    cfg.Window,
		cacheTTL:  cfg.CacheTTL,
		topMiners: cfg.TopMiners,
		syncedLag: cfg.SyncedLag,
		power:     cfg.Power,

		persistTimeout: cfg.PersistTimeout,
	}, nil
}

// RunOnce computes a new snapshot, persists it and then publishes it.
// On any error the previously published snapshot stays in place.
func (m *Materializer) RunOnce(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() {
		m.metrics.ObserveRun(err, start)
	}()

	snapshot, err := m.compute(ctx)
	if err != nil {
		return err
	}
	if err = m.persist(ctx, snapshot); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	m.current.Store(snapshot)
	m.metrics.ObservePublished(snapshot.ComputedAt, snapshot.MiningPower.Confidence)
	m.logger.Debug("snapshot published",
		zap.Time("computed_at", snapshot.ComputedAt),
		zap.Uint64("height", snapshot.Cursor.Height),
		zap.Int("active_nodes", snapshot.MinerCounts.ActiveNodes),
		zap.String("power_method", string(snapshot.MiningPower.Method)))
	return nil
}

func (m *Materializer) persist(ctx context.Context, snapshot *model.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, m.persistTimeout)
	defer cancel()
	return m.store.InsertSnapshot(ctx, *snapshot)
}

// Current returns the published snapshot, nil before the first successful run.
// The value is shared and must not be modified.
func (m *Materializer) Current() *model.Snapshot {
	return m.current.Load()
}

func (m *Materializer) compute(ctx context.Context) (*model.Snapshot, error) {
	now := m.clock.Now()
	cursor, ok := m.sync.Cursor()
	if !ok {
		return nil, ErrNotSynced
	}

	var head *model.ChainSnapshot
	if h, ok := m.sync.LastChainSnapshot(); ok {
		head = &h
	}
	nodes := m.registry.ListActive(now)

	blocks, err := m.windowBlocks(ctx, cursor, now)
	if err != nil {
		return nil, err
	}
	totals, err := m.rewardTotals(ctx, cursor)
	if err != nil {
		return nil, err
	}

	window := inWindow(blocks, now.Add(-m.window), now)
	power := miningpower.Compute(blocks, nodes, head, now, m.power)

	return &model.Snapshot{
		ComputedAt:  now,
		Cursor:      cursor,
		Mining:      miningStats(window, nodes, cursor, now, m.topMiners),
		Market:      marketStats(window, now),
		Storage:     storageStats(power, head, now),
		Token:       tokenStats(window, totals, head, cursor, now),
		MinerCounts: minerCounts(window, nodes, head, m.syncedLag, now),
		MiningPower: power,
	}, nil
}

// windowBlocks reads the trailing window through the cache. The entry is keyed by the cursor,
// so a new batch of blocks always misses.
func (m *Materializer) windowBlocks(ctx context.Context, cursor model.SyncCursor, now time.Time) ([]model.Block, error) {
	if cursor.Empty {
		return nil, nil
	}
	from := now.Add(-m.window).Truncate(m.cacheTTL)
	key := fmt.Sprintf("blocks:%d:%d", cursor.Height, from.Unix())
	blocks, err := cache.GetOrCompute(ctx, m.cache, key, m.cacheTTL, func(ctx context.Context) ([]model.Block, error) {
		return m.store.ReadBlockRange(ctx, from, now)
	})
	if err != nil {
		return nil, fmt.Errorf("read block window: %w", err)
	}
	return blocks, nil
}

func (m *Materializer) rewardTotals(ctx context.Context, cursor model.SyncCursor) (model.RewardTotals, error) {
	if cursor.Empty {
		return model.RewardTotals{}, nil
	}
	key := fmt.Sprintf("totals:%d", cursor.Height)
	totals, err := cache.GetOrCompute(ctx, m.cache, key, m.cacheTTL, func(ctx context.Context) (model.RewardTotals, error) {
		return m.store.RewardTotals(ctx, cursor.Height)
	})
	if err != nil {
		return model.RewardTotals{}, fmt.Errorf("read reward totals: %w", err)
	}
	return totals, nil
}

// Package syncer mirrors canonical chain blocks into storage one contiguous batch at a time.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/goodnatureofminers/netstats7000-backend/internal/repository/clickhouse"
	"go.uber.org/zap"
)

const (
	defaultMaxBatch       = 500
	defaultFetchTimeout   = 30 * time.Second
	defaultPersistTimeout = 30 * time.Second

	reasonTransient     = "transient"
	reasonInconsistency = "inconsistency"
	reasonTimeout       = "timeout"
)

var (
	ErrCycleInProgress  = errors.New("sync cycle already in progress")
	ErrHeightRegression = errors.New("chain head below sync cursor")
	ErrNonContiguous    = errors.New("non-contiguous block batch")
	ErrMalformedBlock   = errors.New("malformed block")
)

type Config struct {
	MaxBatch       int
	FetchTimeout   time.Duration
	PersistTimeout time.Duration
}

// Syncer runs one sync cycle at a time. Cycles that arrive while another is running are dropped.
type Syncer struct {
	client  ChainClient
	store   BlockStore
	clock   clock.Clock
	metrics Metrics
	logger  *zap.Logger

	maxBatch       int
	fetchTimeout   time.Duration
	persistTimeout time.Duration

	running     atomic.Bool
	state       atomic.Int32
	cursor      atomic.Pointer[model.SyncCursor] // nil until loaded, reset on persist failure
	head        atomic.Pointer[model.ChainSnapshot]
	lastSuccess atomic.Int64

	// lastHash is the hash at cursor when it was appended by this process. Owned by the running cycle.
	lastHash string

	listenersMu sync.RWMutex
	listeners   []SyncedFunc
}

func New(cfg Config, client ChainClient, store BlockStore, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*Syncer, error) {
	if client == nil {
		return nil, errors.New("chain client is required")
	}
	if store == nil {
		return nil, errors.New("block store is required")
	}
	if clk == nil {
		return nil, errors.New("syncer clock is required")
	}
	if metrics == nil {
		return nil, errors.New("syncer metrics is required")
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = defaultMaxBatch
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}

	return &Syncer{
		client:         client,
		store:          store,
		clock:          clk,
		metrics:        metrics,
		logger:         logger.Named("chainsaw"),
		maxBatch:       cfg.MaxBatch,
		fetchTimeout:   cfg.FetchTimeout,
		persistTimeout: cfg.PersistTimeout,
	}, nil
}

// OnSynced registers fn to be called after each successful cycle.
func (s *Syncer) OnSynced(fn SyncedFunc) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// RunCycle fetches the next batch after the cursor and appends it to storage.
// The cursor only moves when the whole batch was written.
func (s *Syncer) RunCycle(ctx context.Context) (err error) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.ObserveOverlap()
		return ErrCycleInProgress
	}
	defer s.running.Store(false)

	started := time.Now()
	persisted := 0
	defer func() {
		if err == nil {
			s.setState(StateIdle)
			s.metrics.ObserveCycle(nil, "", persisted, started)
			return
		}
		s.setState(StateFailed)
		reason := classify(err)
		s.metrics.ObserveCycle(err, reason, 0, started)
		s.logger.Warn("sync cycle failed", zap.String("reason", reason), zap.Error(err))
	}()

	cursor, err := s.loadCursor(ctx)
	if err != nil {
		return err
	}

	s.setState(StateFetching)
	head, blocks, err := s.fetch(ctx, cursor)
	if err != nil {
		return err
	}
	s.metrics.SetHeights(cursor.Height, head.Height)

	if !cursor.Empty && head.Height < cursor.Height {
		return fmt.Errorf("%w: head %d, cursor %d", ErrHeightRegression, head.Height, cursor.Height)
	}
	if len(blocks) > s.maxBatch {
		return fmt.Errorf("%w: client returned %d blocks for limit %d", ErrMalformedBlock, len(blocks), s.maxBatch)
	}
	if err = validateBatch(cursor, s.lastHash, blocks); err != nil {
		return err
	}

	if len(blocks) > 0 {
		s.setState(StatePersisting)
		if err = s.persist(ctx, blocks); err != nil {
			s.cursor.Store(nil)
			s.lastHash = ""
			return err
		}
		last := blocks[len(blocks)-1]
		next := model.CursorAt(last.Height)
		s.cursor.Store(&next)
		s.lastHash = last.Hash
		cursor = next
		persisted = len(blocks)
		s.metrics.SetHeights(cursor.Height, head.Height)
		s.logger.Info("blocks synced",
			zap.Uint64("from", blocks[0].Height),
			zap.Uint64("to", last.Height),
			zap.Uint64("tip", head.Height))
	}

	s.head.Store(&head)
	s.lastSuccess.Store(s.clock.Now().UnixNano())
	s.notify(cursor, head)
	return nil
}

// Cursor returns the highest stored height known to the syncer. ok is false until it has been loaded.
func (s *Syncer) Cursor() (model.SyncCursor, bool) {
	c := s.cursor.Load()
	if c == nil {
		return model.SyncCursor{}, false
	}
	return *c, true
}

// LastChainSnapshot returns the chain tip observed by the last successful cycle.
func (s *Syncer) LastChainSnapshot() (model.ChainSnapshot, bool) {
	h := s.head.Load()
	if h == nil {
		return model.ChainSnapshot{}, false
	}
	return *h, true
}

func (s *Syncer) State() State {
	return State(s.state.Load())
}

// LastSuccess returns the time of the last successful cycle, zero if none.
func (s *Syncer) LastSuccess() time.Time {
	ns := s.lastSuccess.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (s *Syncer) loadCursor(ctx context.Context) (model.SyncCursor, error) {
	if c := s.cursor.Load(); c != nil {
		return *c, nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	c, err := s.store.MaxBlockHeight(loadCtx)
	if err != nil {
		return model.SyncCursor{}, fmt.Errorf("load sync cursor: %w", err)
	}
	s.cursor.Store(&c)
	s.lastHash = ""
	s.logger.Info("sync cursor loaded", zap.Uint64("height", c.Height), zap.Bool("empty", c.Empty))
	return c, nil
}

func (s *Syncer) fetch(ctx context.Context, cursor model.SyncCursor) (model.ChainSnapshot, []model.Block, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	head, err := s.client.ChainHead(fetchCtx)
	if err != nil {
		return model.ChainSnapshot{}, nil, fmt.Errorf("fetch chain head: %w", err)
	}
	head.ObservedAt = s.clock.Now()

	if !cursor.Empty && head.Height <= cursor.Height {
		// Nothing new, or a regression the caller reports.
		return head, nil, nil
	}

	blocks, err := s.client.GetBlocksAfter(fetchCtx, cursor, s.maxBatch)
	if err != nil {
		return model.ChainSnapshot{}, nil, fmt.Errorf("fetch blocks after %d: %w", cursor.Height, err)
	}
	return head, blocks, nil
}

func (s *Syncer) persist(ctx context.Context, blocks []model.Block) error {
	persistCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	if err := s.store.AppendBlocks(persistCtx, blocks); err != nil {
		return fmt.Errorf("append blocks %d..%d: %w", blocks[0].Height, blocks[len(blocks)-1].Height, err)
	}
	return nil
}

func (s *Syncer) notify(cursor model.SyncCursor, head model.ChainSnapshot) {
	s.listenersMu.RLock()
	listeners := s.listeners
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(cursor, head)
	}
}

func (s *Syncer) setState(st State) {
	s.state.Store(int32(st))
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, ErrHeightRegression),
		errors.Is(err, ErrNonContiguous),
		errors.Is(err, ErrMalformedBlock),
		errors.Is(err, clickhouse.ErrNonContiguousAppend):
		return reasonInconsistency
	default:
		return reasonTransient
	}
}

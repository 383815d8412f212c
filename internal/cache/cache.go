// Package cache provides a short-TTL read-through memory cache with single-flight computation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

const (
	defaultNumCounters    = 10_000
	defaultMaxCost        = 1_000
	defaultBufferItems    = 64
	defaultComputeTimeout = 30 * time.Second
	itemCost              = 1
)

// Config sizes the underlying store.
type Config struct {
	NumCounters    int64
	MaxCost        int64
	BufferItems    int64
	ComputeTimeout time.Duration
}

// Cache is a TTL cache whose misses are computed at most once per key at a time.
// It holds no correctness obligation: an empty cache only costs recomputation.
type Cache struct {
	store          *ristretto.Cache[string, any]
	flights        singleflight.Group
	metrics        Metrics
	computeTimeout time.Duration
}

// New builds a Cache, filling zero Config fields with defaults.
func New(cfg Config, metrics Metrics) (*Cache, error) {
	if metrics == nil {
		return nil, errors.New("cache metrics is required")
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = defaultNumCounters
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = defaultMaxCost
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = defaultBufferItems
	}
	if cfg.ComputeTimeout <= 0 {
		cfg.ComputeTimeout = defaultComputeTimeout
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}

	return &Cache{
		store:          store,
		metrics:        metrics,
		computeTimeout: cfg.ComputeTimeout,
	}, nil
}

// GetOrCompute returns the cached value for key or computes, stores and returns it.
// Concurrent callers for the same missing key share one compute call. Errors are never cached.
// The computation is detached from the first caller's cancellation and bounded by the compute
// timeout; each caller stops waiting when its own context ends.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := lookup[T](c, key); ok {
		c.metrics.ObserveLookup(true)
		return v, nil
	}
	c.metrics.ObserveLookup(false)

	ch := c.flights.DoChan(key, func() (any, error) {
		// Double-check inside the flight: a previous flight may have just stored it.
		if v, ok := lookup[T](c, key); ok {
			return v, nil
		}

		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.computeTimeout)
		defer cancel()

		started := time.Now()
		v, err := compute(computeCtx)
		c.metrics.ObserveCompute(err, started)
		if err != nil {
			return nil, err
		}
		c.set(key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// Set stores value under key for ttl. A non-positive ttl is a no-op.
func Set[T any](c *Cache, key string, value T, ttl time.Duration) {
	c.set(key, value, ttl)
}

// Delete drops key so the next access recomputes.
func (c *Cache) Delete(key string) {
	c.store.Del(key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.store.Clear()
}

// Close stops the store's background goroutines.
func (c *Cache) Close() {
	c.store.Close()
}

func (c *Cache) set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	// The store may reject the write under contention; the next access recomputes.
	if c.store.SetWithTTL(key, value, itemCost, ttl) {
		c.store.Wait()
	}
}

func lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	raw, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

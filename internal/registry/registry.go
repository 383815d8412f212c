// Package registry keeps the in-memory table of live peers built from heartbeats.
package registry

import (
	"errors"
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"go.uber.org/zap"
)

const (
	outcomeCreated     = "created"
	outcomeUpdated     = "updated"
	outcomeStaleHeight = "stale_height"
	outcomeEvictedRace = "evicted_race"
)

// entry guards one peer. Writers serialize on mu; readers only load status.
type entry struct {
	mu      sync.Mutex
	evicted bool
	status  atomic.Pointer[model.NodeStatus]
}

// Registry is a concurrent table of NodeStatus keyed by peer.
// Upserts lock only the affected peer and snapshot reads never take a lock.
type Registry struct {
	entries        sync.Map
	size           atomic.Int64
	tip            atomic.Uint64
	staleThreshold time.Duration
	clock          clock.Clock
	geo            Geolocator
	metrics        Metrics
	logger         *zap.Logger
}

// NewRegistry builds a Registry. geo may be nil to disable geolocation.
func NewRegistry(staleThreshold time.Duration, clk clock.Clock, geo Geolocator, metrics Metrics, logger *zap.Logger) (*Registry, error) {
	if staleThreshold <= 0 {
		return nil, errors.New("stale threshold must be positive")
	}
	if clk == nil {
		return nil, errors.New("registry clock is required")
	}
	if metrics == nil {
		return nil, errors.New("registry metrics is required")
	}
	return &Registry{
		staleThreshold: staleThreshold,
		clock:          clk,
		geo:            geo,
		metrics:        metrics,
		logger:         logger.Named("registry"),
	}, nil
}

// ApplyHeartbeat upserts the sender's status. A heartbeat reporting a lower height than
// stored only refreshes LastSeenAt.
func (r *Registry) ApplyHeartbeat(hb model.Heartbeat) {
	seen := hb.ReceivedAt
	if seen.IsZero() {
		seen = r.clock.Now()
	}

	for {
		e, created := r.loadOrCreate(hb.PeerID)

		e.mu.Lock()
		if e.evicted {
			// Swept between load and lock; retry on a fresh entry.
			e.mu.Unlock()
			r.metrics.ObserveHeartbeat(outcomeEvictedRace)
			continue
		}
		if created {
			r.size.Add(1)
		}
		next, outcome := merge(e.status.Load(), hb, seen)

		var resolveIP netip.Addr
		if r.geo != nil && next.IP.IsValid() && next.Geolocation == nil {
			if geo, ok := r.geo.Cached(next.IP); ok {
				next.Geolocation = geo
			} else {
				resolveIP = next.IP
			}
		}
		e.status.Store(&next)
		e.mu.Unlock()

		if created {
			r.metrics.SetEntries(int(r.size.Load()))
		}
		r.metrics.ObserveHeartbeat(outcome)

		if resolveIP.IsValid() {
			peer := hb.PeerID
			r.geo.ResolveAsync(resolveIP, func(geo *model.Geolocation) {
				r.backfillGeolocation(peer, resolveIP, geo)
			})
		}
		return
	}
}

// ListActive returns a copy of every status seen within the stale threshold of now,
// ordered by peer.
func (r *Registry) ListActive(now time.Time) []model.NodeStatus {
	tip := r.tip.Load()
	active := make([]model.NodeStatus, 0, r.size.Load())
	r.entries.Range(func(_, v any) bool {
		st := v.(*entry).status.Load()
		if st == nil || r.isStale(st, now) {
			return true
		}
		active = append(active, withLag(*st, tip))
		return true
	})
	sort.Slice(active, func(i, j int) bool {
		return active[i].PeerID < active[j].PeerID
	})
	return active
}

// Get returns the status of one peer if it is active at now.
func (r *Registry) Get(peer model.PeerID, now time.Time) (model.NodeStatus, bool) {
	v, ok := r.entries.Load(peer)
	if !ok {
		return model.NodeStatus{}, false
	}
	st := v.(*entry).status.Load()
	if st == nil || r.isStale(st, now) {
		return model.NodeStatus{}, false
	}
	return withLag(*st, r.tip.Load()), true
}

// EvictStale removes every status beyond the stale threshold of now and returns how many were removed.
func (r *Registry) EvictStale(now time.Time) int {
	evicted := 0
	r.entries.Range(func(k, v any) bool {
		e := v.(*entry)
		if st := e.status.Load(); st == nil || !r.isStale(st, now) {
			return true
		}

		e.mu.Lock()
		// Re-check under the lock: a heartbeat may have landed since the load.
		if st := e.status.Load(); st != nil && r.isStale(st, now) {
			e.evicted = true
			if r.entries.CompareAndDelete(k, e) {
				r.size.Add(-1)
				evicted++
			}
		}
		e.mu.Unlock()
		return true
	})

	remaining := int(r.size.Load())
	r.metrics.ObserveEvicted(evicted, remaining)
	if evicted > 0 {
		r.logger.Debug("evicted stale peers", zap.Int("evicted", evicted), zap.Int("remaining", remaining))
	}
	return evicted
}

// ObserveChainTip records the synced chain height used to compute HeightLag.
func (r *Registry) ObserveChainTip(height uint64) {
	r.tip.Store(height)
}

// Len returns the number of held statuses, including stale ones not yet swept.
func (r *Registry) Len() int {
	return int(r.size.Load())
}

func (r *Registry) loadOrCreate(peer model.PeerID) (*entry, bool) {
	if v, ok := r.entries.Load(peer); ok {
		return v.(*entry), false
	}
	v, loaded := r.entries.LoadOrStore(peer, &entry{})
	return v.(*entry), !loaded
}

func (r *Registry) isStale(st *model.NodeStatus, now time.Time) bool {
	return now.Sub(st.LastSeenAt) > r.staleThreshold
}

func (r *Registry) backfillGeolocation(peer model.PeerID, ip netip.Addr, geo *model.Geolocation) {
	if geo == nil {
		return
	}
	v, ok := r.entries.Load(peer)
	if !ok {
		return
	}
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.status.Load()
	if e.evicted || st == nil || st.IP != ip || st.Geolocation != nil {
		return
	}
	next := *st
	next.Geolocation = geo
	e.status.Store(&next)
}

func merge(prev *model.NodeStatus, hb model.Heartbeat, seen time.Time) (model.NodeStatus, string) {
	if prev == nil {
		return model.NodeStatus{
			PeerID:                hb.PeerID,
			IP:                    hb.IP,
			FirstSeenAt:           seen,
			LastSeenAt:            seen,
			LastReportedHeight:    hb.BlockHeight,
			LastReportedBlockTime: hb.BlockTime,
			MinerAddress:          hb.MinerAddress,
			Nickname:              hb.Nickname,
			MinerPower:            hb.MinerPower,
		}, outcomeCreated
	}

	next := *prev
	if seen.After(next.LastSeenAt) {
		next.LastSeenAt = seen
	}
	if hb.BlockHeight < prev.LastReportedHeight {
		return next, outcomeStaleHeight
	}

	next.LastReportedHeight = hb.BlockHeight
	next.LastReportedBlockTime = hb.BlockTime
	next.MinerAddress = hb.MinerAddress
	next.Nickname = hb.Nickname
	next.MinerPower = hb.MinerPower
	if hb.IP.IsValid() && hb.IP != next.IP {
		next.IP = hb.IP
		next.Geolocation = nil
	}
	return next, outcomeUpdated
}

func withLag(st model.NodeStatus, tip uint64) model.NodeStatus {
	if tip > st.LastReportedHeight {
		st.HeightLag = tip - st.LastReportedHeight
	} else {
		st.HeightLag = 0
	}
	return st
}

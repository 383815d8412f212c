package registry

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	geoOutcomeResolved = "resolved"
	geoOutcomeNotFound = "not_found"
	geoOutcomeError    = "error"
	geoOutcomeSkipped  = "skipped"
)

// ResolverConfig tunes the geolocation resolver.
type ResolverConfig struct {
	TTL            time.Duration
	NegativeTTL    time.Duration
	LookupTimeout  time.Duration
	MaxConcurrency int64
}

// Resolver is a best-effort Geolocator over a GeolocationStore. Results are cached per address,
// misses and failures only for NegativeTTL so a later heartbeat retries them.
type Resolver struct {
	store         GeolocationStore
	cache         *gocache.Cache
	flights       singleflight.Group
	sem           *semaphore.Weighted
	negativeTTL   time.Duration
	lookupTimeout time.Duration
	metrics       GeolocationMetrics
	logger        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	// mu orders wg.Add against Close.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewResolver builds a Resolver. Close must be called to stop in-flight lookups.
func NewResolver(store GeolocationStore, cfg ResolverConfig, metrics GeolocationMetrics, logger *zap.Logger) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("geolocation store is required")
	}
	if metrics == nil {
		return nil, errors.New("geolocation metrics is required")
	}
	if cfg.TTL <= 0 || cfg.NegativeTTL <= 0 || cfg.LookupTimeout <= 0 || cfg.MaxConcurrency <= 0 {
		return nil, errors.New("geolocation resolver config values must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		store:         store,
		cache:         gocache.New(cfg.TTL, 2*cfg.TTL),
		sem:           semaphore.NewWeighted(cfg.MaxConcurrency),
		negativeTTL:   cfg.NegativeTTL,
		lookupTimeout: cfg.LookupTimeout,
		metrics:       metrics,
		logger:        logger.Named("geolocator"),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Cached returns a cached resolution for ip.
func (r *Resolver) Cached(ip netip.Addr) (*model.Geolocation, bool) {
	v, ok := r.cache.Get(ip.String())
	if !ok {
		return nil, false
	}
	geo, _ := v.(*model.Geolocation)
	return geo, true
}

// ResolveAsync looks ip up in the background. Concurrent calls for one address share a lookup.
// When the concurrency bound is reached the call is skipped.
func (r *Resolver) ResolveAsync(ip netip.Addr, done func(*model.Geolocation)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if !r.sem.TryAcquire(1) {
		r.mu.Unlock()
		r.metrics.ObserveGeolocation(geoOutcomeSkipped)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer r.sem.Release(1)

		key := ip.String()
		v, _, _ := r.flights.Do(key, func() (any, error) {
			if geo, ok := r.Cached(ip); ok {
				return geo, nil
			}
			return r.resolve(ip), nil
		})
		if geo, _ := v.(*model.Geolocation); geo != nil && done != nil {
			done(geo)
		}
	}()
}

// Close cancels in-flight lookups and waits for them to return.
// Calls to ResolveAsync after Close are dropped.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.closed = true
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Resolver) resolve(ip netip.Addr) *model.Geolocation {
	key := ip.String()
	if !ip.IsGlobalUnicast() || ip.IsPrivate() {
		r.cache.Set(key, (*model.Geolocation)(nil), gocache.NoExpiration)
		r.metrics.ObserveGeolocation(geoOutcomeNotFound)
		return nil
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.lookupTimeout)
	defer cancel()

	geo, err := r.store.LookupGeolocation(ctx, ip)
	switch {
	case err != nil:
		r.cache.Set(key, (*model.Geolocation)(nil), r.negativeTTL)
		r.metrics.ObserveGeolocation(geoOutcomeError)
		r.logger.Debug("geolocation lookup failed", zap.String("ip", key), zap.Error(err))
		return nil
	case geo == nil:
		r.cache.Set(key, (*model.Geolocation)(nil), r.negativeTTL)
		r.metrics.ObserveGeolocation(geoOutcomeNotFound)
		return nil
	default:
		r.cache.Set(key, geo, gocache.DefaultExpiration)
		r.metrics.ObserveGeolocation(geoOutcomeResolved)
		return geo
	}
}

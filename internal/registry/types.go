package registry

import (
	"context"
	"net/netip"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Geolocator resolves peer addresses without blocking heartbeat application.
	Geolocator interface {
		// Cached returns a previous resolution. A nil location with ok=true is a cached miss.
		Cached(ip netip.Addr) (*model.Geolocation, bool)
		// ResolveAsync starts a resolution and calls done with a non-nil location on success.
		ResolveAsync(ip netip.Addr, done func(*model.Geolocation))
	}
	GeolocationStore interface {
		LookupGeolocation(ctx context.Context, ip netip.Addr) (*model.Geolocation, error)
	}
	Metrics interface {
		ObserveHeartbeat(outcome string)
		ObserveEvicted(evicted, remaining int)
		SetEntries(n int)
	}
	GeolocationMetrics interface {
		ObserveGeolocation(outcome string)
	}
)

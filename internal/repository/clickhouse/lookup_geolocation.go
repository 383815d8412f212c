package clickhouse

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

const lookupGeolocationQuery = `
SELECT country, region, city, latitude, longitude
FROM netstats_geolocations
WHERE ip_from <= toIPv6(?) AND ip_to >= toIPv6(?)
ORDER BY ip_from DESC
LIMIT 1`

// LookupGeolocation finds the range containing ip. It returns nil when the address is not covered.
func (r *Repository) LookupGeolocation(ctx context.Context, ip netip.Addr) (loc *model.Geolocation, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("lookup_geolocation", err, start)
	}()

	addr := ip.Unmap().String()
	rows, err := r.conn.Query(ctx, lookupGeolocationQuery, addr, addr)
	if err != nil {
		return nil, fmt.Errorf("query geolocation: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate geolocation: %w", err)
		}
		return nil, nil
	}

	var found model.Geolocation
	if err = rows.Scan(&found.Country, &found.Region, &found.City, &found.Latitude, &found.Longitude); err != nil {
		return nil, fmt.Errorf("scan geolocation: %w", err)
	}
	return &found, nil
}

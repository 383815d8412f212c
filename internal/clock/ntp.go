package clock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"go.uber.org/zap"
)

const ntpQueryTimeout = 5 * time.Second

// NTPClock corrects the wall time of an underlying clock by an offset measured against NTP servers.
// Until the first successful sync the offset is zero.
type NTPClock struct {
	Clock
	servers []string
	query   func(host string) (*ntp.Response, error)
	offset  atomic.Int64
	logger  *zap.Logger
}

// NewNTPClock builds an NTPClock over base using the given servers in priority order.
func NewNTPClock(base Clock, servers []string, logger *zap.Logger) (*NTPClock, error) {
	if base == nil {
		return nil, errors.New("base clock is required")
	}
	if len(servers) == 0 {
		return nil, errors.New("at least one ntp server is required")
	}
	return &NTPClock{
		Clock:   base,
		servers: servers,
		query: func(host string) (*ntp.Response, error) {
			return ntp.QueryWithOptions(host, ntp.QueryOptions{Timeout: ntpQueryTimeout})
		},
		logger: logger.Named("ntp"),
	}, nil
}

// Now returns the corrected time.
func (c *NTPClock) Now() time.Time {
	return c.Clock.Now().Add(c.Offset())
}

// Since returns the corrected time elapsed since t.
func (c *NTPClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Until returns the corrected duration until t.
func (c *NTPClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Offset returns the last measured clock offset.
func (c *NTPClock) Offset() time.Duration {
	return time.Duration(c.offset.Load())
}

// Sync queries servers in order and keeps the offset of the first valid response.
// On failure the previous offset stays in effect.
func (c *NTPClock) Sync(ctx context.Context) error {
	var errs []error
	for _, host := range c.servers {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err := c.query(host)
		if err == nil {
			err = resp.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", host, err))
			continue
		}
		c.offset.Store(int64(resp.ClockOffset))
		c.logger.Debug("clock offset updated", zap.String("server", host), zap.Duration("offset", resp.ClockOffset))
		return nil
	}
	return fmt.Errorf("ntp sync: %w", errors.Join(errs...))
}

// Run syncs immediately and then on every interval until the context is canceled.
func (c *NTPClock) Run(ctx context.Context, interval time.Duration) error {
	for {
		if err := c.Sync(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warn("ntp sync failed, keeping previous offset", zap.Error(err), zap.Duration("offset", c.Offset()))
		}
		if err := Sleep(ctx, c.Clock, interval); err != nil {
			return err
		}
	}
}

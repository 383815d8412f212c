// Package ingest validates heartbeats handed over by the peer transport and forwards them to the registry.
package ingest

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"go.uber.org/zap"
)

// Envelope is one raw message from the transport.
type Envelope struct {
	// From is the transport-authenticated author, empty when unknown.
	From       model.PeerID
	RemoteIP   netip.Addr
	Data       []byte
	ReceivedAt time.Time
}

// Config bounds the ingest queue and validation windows.
type Config struct {
	QueueSize int
	Workers   int
	ClockSkew time.Duration
	MaxAge    time.Duration
}

// Ingest decouples the transport from registry writes with a bounded drop-oldest queue.
type Ingest struct {
	queue     chan Envelope
	workers   int
	clockSkew time.Duration
	maxAge    time.Duration
	sink      HeartbeatSink
	clock     clock.Clock
	metrics   Metrics
	logger    *zap.Logger
}

// New builds an Ingest. Run must be called to start draining the queue.
func New(cfg Config, sink HeartbeatSink, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*Ingest, error) {
	if cfg.QueueSize <= 0 || cfg.Workers <= 0 {
		return nil, errors.New("ingest queue size and workers must be positive")
	}
	if cfg.ClockSkew < 0 || cfg.MaxAge < 0 {
		return nil, errors.New("ingest clock skew and max age must not be negative")
	}
	if sink == nil {
		return nil, errors.New("heartbeat sink is required")
	}
	if clk == nil {
		return nil, errors.New("ingest clock is required")
	}
	if metrics == nil {
		return nil, errors.New("ingest metrics is required")
	}
	return &Ingest{
		queue:     make(chan Envelope, cfg.QueueSize),
		workers:   cfg.Workers,
		clockSkew: cfg.ClockSkew,
		maxAge:    cfg.MaxAge,
		sink:      sink,
		clock:     clk,
		metrics:   metrics,
		logger:    logger.Named("ingest"),
	}, nil
}

// OnMessage enqueues env without blocking. When the queue is full the oldest envelope is dropped.
func (i *Ingest) OnMessage(env Envelope) {
	for {
		select {
		case i.queue <- env:
			i.metrics.ObserveReceived()
			return
		default:
		}

		select {
		case <-i.queue:
			i.metrics.ObserveDropped(reasonQueueFull)
		default:
		}
	}
}

// Run drains the queue with the configured number of workers until the context is canceled.
func (i *Ingest) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for w := 0; w < i.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case env := <-i.queue:
					i.metrics.SetQueueDepth(len(i.queue))
					i.handle(env)
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (i *Ingest) handle(env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			i.metrics.ObserveDropped(reasonPanic)
			i.logger.Error("heartbeat handler panicked", zap.Any("panic", r), zap.String("from", string(env.From)))
		}
	}()

	hb, reason := i.decode(env, i.clock.Now())
	if reason != "" {
		i.metrics.ObserveDropped(reason)
		i.logger.Debug("heartbeat dropped", zap.String("reason", reason), zap.String("from", string(env.From)))
		return
	}
	i.sink.ApplyHeartbeat(hb)
	i.metrics.ObserveAccepted()
}

// Package scheduler runs recurring jobs on an injectable clock.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"go.uber.org/zap"
)

const (
	defaultGrace           = 10 * time.Second
	defaultMaxBackoffRatio = 10
)

// ErrBusy is returned by RunOnce when a run of the same job is still active.
var ErrBusy = errors.New("job is already running")

// Job is one unit of recurring work.
type Job func(ctx context.Context) error

type Config struct {
	Name     string
	Interval time.Duration
	// Timeout bounds one run. Zero means unbounded.
	Timeout time.Duration
	// Grace is how long an in-flight run may continue after the parent context ends.
	Grace time.Duration
	// BackoffInitial and BackoffMax shape the retry delay after failed runs.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Periodic runs a job every Interval, sooner when triggered, and with exponential backoff after failures.
// Runs never overlap: a fire that arrives while a run is active is dropped.
type Periodic struct {
	name     string
	job      Job
	clock    clock.Clock
	metrics  Metrics
	logger   *zap.Logger
	interval time.Duration
	timeout  time.Duration
	grace    time.Duration
	backoff  *backoff.ExponentialBackOff

	running atomic.Bool
	trigger chan struct{}
}

func NewPeriodic(cfg Config, job Job, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*Periodic, error) {
	if job == nil {
		return nil, errors.New("scheduler job is required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("scheduler interval must be positive")
	}
	if clk == nil {
		return nil, errors.New("scheduler clock is required")
	}
	if metrics == nil {
		return nil, errors.New("scheduler metrics is required")
	}
	if cfg.Grace <= 0 {
		cfg.Grace = defaultGrace
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = cfg.Interval
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = cfg.Interval * defaultMaxBackoffRatio
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BackoffInitial
	b.MaxInterval = cfg.BackoffMax
	b.MaxElapsedTime = 0
	b.Clock = clk
	b.Reset()

	return &Periodic{
		name:     cfg.Name,
		job:      job,
		clock:    clk,
		metrics:  metrics,
		logger:   logger.Named("scheduler").With(zap.String("job", cfg.Name)),
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		grace:    cfg.Grace,
		backoff:  b,
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Run fires the job immediately and then keeps firing it until ctx is canceled.
func (p *Periodic) Run(ctx context.Context) error {
	var delay time.Duration
	for {
		if delay > 0 {
			timer := p.clock.Timer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			case <-p.trigger:
				timer.Stop()
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		err := p.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrBusy):
			delay = p.interval
		case err != nil:
			delay = p.backoff.NextBackOff()
			p.logger.Warn("job failed, backing off", zap.Error(err), zap.Duration("retry_in", delay))
		default:
			p.backoff.Reset()
			delay = p.interval
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Trigger asks for a run as soon as possible. It never blocks; triggers coalesce and
// a trigger that arrives during a run is dropped.
func (p *Periodic) Trigger() {
	if p.running.Load() {
		p.metrics.ObserveSkipped()
		return
	}
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// RunOnce runs the job now unless a run is already active.
func (p *Periodic) RunOnce(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		p.metrics.ObserveSkipped()
		return ErrBusy
	}
	defer p.running.Store(false)

	runCtx, cancel := p.runContext(ctx)
	defer cancel()

	started := time.Now()
	err := p.job(runCtx)
	p.metrics.ObserveRun(err, started)
	return err
}

// runContext detaches the run from ctx so shutdown gives it Grace to finish.
func (p *Periodic) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if p.timeout > 0 {
		runCtx, cancel = context.WithTimeout(base, p.timeout)
	} else {
		runCtx, cancel = context.WithCancel(base)
	}

	stop := context.AfterFunc(ctx, func() {
		p.logger.Info("shutdown requested, waiting for in-flight run", zap.Duration("grace", p.grace))
		p.clock.AfterFunc(p.grace, cancel)
	})
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Running reports whether a run is active.
func (p *Periodic) Running() bool {
	return p.running.Load()
}

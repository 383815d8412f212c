package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/netstats7000-backend/internal/cache"
	"github.com/goodnatureofminers/netstats7000-backend/internal/chain"
	"github.com/goodnatureofminers/netstats7000-backend/internal/chain/bitcoin"
	"github.com/goodnatureofminers/netstats7000-backend/internal/chain/lotus"
	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/ingest"
	"github.com/goodnatureofminers/netstats7000-backend/internal/materializer"
	"github.com/goodnatureofminers/netstats7000-backend/internal/metrics"
	"github.com/goodnatureofminers/netstats7000-backend/internal/miningpower"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/goodnatureofminers/netstats7000-backend/internal/p2p"
	"github.com/goodnatureofminers/netstats7000-backend/internal/registry"
	"github.com/goodnatureofminers/netstats7000-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/netstats7000-backend/internal/scheduler"
	"github.com/goodnatureofminers/netstats7000-backend/internal/syncer"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type config struct {
	ClickhouseDSN string `long:"clickhouse-dsn" env:"NETSTATSD_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	GRPCAddr      string `long:"grpc-addr" env:"NETSTATSD_GRPC_ADDR" description:"address for the gRPC health server" default:":8000"`
	MetricsAddr   string `long:"metrics-addr" env:"NETSTATSD_METRICS_ADDR" description:"address for metrics server" default:":2112"`

	Chain        string        `long:"chain" env:"NETSTATSD_CHAIN" description:"chain client implementation" choice:"lotus" choice:"bitcoin" default:"lotus"`
	RPCURL       string        `long:"rpc-url" env:"NETSTATSD_RPC_URL" description:"chain node RPC URL" default:"http://127.0.0.1:1234/rpc/v1"`
	RPCUser      string        `long:"rpc-user" env:"NETSTATSD_RPC_USER" description:"bitcoin RPC username"`
	RPCPassword  string        `long:"rpc-password" env:"NETSTATSD_RPC_PASSWORD" description:"bitcoin RPC password"`
	RPCToken     string        `long:"rpc-token" env:"NETSTATSD_RPC_TOKEN" description:"lotus API bearer token"`
	RPCRate      int           `long:"rpc-rate" env:"NETSTATSD_RPC_RATE" description:"lotus requests per second" default:"20"`
	RPCWorkers   int           `long:"rpc-workers" env:"NETSTATSD_RPC_WORKERS" description:"parallel bitcoin block fetches" default:"4"`
	HTTPTimeout  time.Duration `long:"http-timeout" env:"NETSTATSD_HTTP_TIMEOUT" description:"HTTP timeout for RPC requests" default:"30s"`
	Network      string        `long:"network" env:"NETSTATSD_NETWORK" description:"bitcoin network name" default:"mainnet"`
	RewardPerWin string        `long:"reward-per-win" env:"NETSTATSD_REWARD_PER_WIN" description:"lotus block reward per election win, required for lotus"`
	EpochSeconds int64         `long:"epoch-seconds" env:"NETSTATSD_EPOCH_SECONDS" description:"lotus epoch duration in seconds" default:"30"`

	ListenAddrs []string `long:"p2p-listen" env:"NETSTATSD_P2P_LISTEN" env-delim:"," description:"libp2p listen multiaddrs" default:"/ip4/0.0.0.0/tcp/4001"`
	Seeds       []string `long:"p2p-seed" env:"NETSTATSD_P2P_SEEDS" env-delim:"," description:"seed peer multiaddrs"`
	DataDir     string   `long:"p2p-data-dir" env:"NETSTATSD_P2P_DATA_DIR" description:"directory holding the node identity"`
	Topic       string   `long:"p2p-topic" env:"NETSTATSD_P2P_TOPIC" description:"heartbeat topic" default:"/netstats/heartbeat/1.0.0"`
	MDNS        bool     `long:"p2p-mdns" env:"NETSTATSD_P2P_MDNS" description:"enable mDNS discovery"`
	Rendezvous  string   `long:"p2p-rendezvous" env:"NETSTATSD_P2P_RENDEZVOUS" description:"mDNS service name" default:"netstats7000"`

	QueueSize     int           `long:"ingest-queue" env:"NETSTATSD_INGEST_QUEUE" description:"heartbeat queue size" default:"4096"`
	IngestWorkers int           `long:"ingest-workers" env:"NETSTATSD_INGEST_WORKERS" description:"heartbeat workers" default:"4"`
	ClockSkew     time.Duration `long:"clock-skew" env:"NETSTATSD_CLOCK_SKEW" description:"tolerated future skew of heartbeat timestamps" default:"30s"`
	MaxAge        time.Duration `long:"heartbeat-max-age" env:"NETSTATSD_HEARTBEAT_MAX_AGE" description:"oldest accepted heartbeat" default:"5m"`

	StaleThreshold time.Duration `long:"stale-threshold" env:"NETSTATSD_STALE_THRESHOLD" description:"peer inactivity before eviction" default:"2m"`
	EvictInterval  time.Duration `long:"evict-interval" env:"NETSTATSD_EVICT_INTERVAL" description:"registry eviction interval" default:"30s"`
	GeoTTL         time.Duration `long:"geo-ttl" env:"NETSTATSD_GEO_TTL" description:"geolocation cache ttl" default:"6h"`
	GeoNegativeTTL time.Duration `long:"geo-negative-ttl" env:"NETSTATSD_GEO_NEGATIVE_TTL" description:"geolocation miss cache ttl" default:"10m"`
	GeoTimeout     time.Duration `long:"geo-timeout" env:"NETSTATSD_GEO_TIMEOUT" description:"geolocation lookup timeout" default:"2s"`
	GeoConcurrency int64         `long:"geo-concurrency" env:"NETSTATSD_GEO_CONCURRENCY" description:"concurrent geolocation lookups" default:"8"`

	SyncInterval   time.Duration `long:"sync-interval" env:"NETSTATSD_SYNC_INTERVAL" description:"chain sync interval" default:"15s"`
	SyncBatch      int           `long:"sync-batch" env:"NETSTATSD_SYNC_BATCH" description:"max blocks per sync cycle" default:"500"`
	FetchTimeout   time.Duration `long:"fetch-timeout" env:"NETSTATSD_FETCH_TIMEOUT" description:"chain fetch timeout" default:"30s"`
	PersistTimeout time.Duration `long:"persist-timeout" env:"NETSTATSD_PERSIST_TIMEOUT" description:"block persist timeout" default:"30s"`
	SyncFresh      time.Duration `long:"sync-fresh" env:"NETSTATSD_SYNC_FRESH" description:"max age of the last successful sync reported as healthy" default:"5m"`

	MaterializeInterval time.Duration `long:"materialize-interval" env:"NETSTATSD_MATERIALIZE_INTERVAL" description:"snapshot interval" default:"30s"`
	MaterializeTimeout  time.Duration `long:"materialize-timeout" env:"NETSTATSD_MATERIALIZE_TIMEOUT" description:"snapshot run timeout" default:"1m"`
	SnapshotFresh       time.Duration `long:"snapshot-fresh" env:"NETSTATSD_SNAPSHOT_FRESH" description:"max age of the latest snapshot reported as healthy" default:"5m"`
	Window              time.Duration `long:"window" env:"NETSTATSD_WINDOW" description:"trailing aggregation window" default:"1h"`
	CacheTTL            time.Duration `long:"cache-ttl" env:"NETSTATSD_CACHE_TTL" description:"read cache ttl" default:"15s"`
	TopMiners           int           `long:"top-miners" env:"NETSTATSD_TOP_MINERS" description:"miners listed in the snapshot" default:"10"`
	SyncedLag           uint64        `long:"synced-lag" env:"NETSTATSD_SYNCED_LAG" description:"height lag under which a node counts as synced" default:"5"`
	TargetBlockTime     time.Duration `long:"target-block-time" env:"NETSTATSD_TARGET_BLOCK_TIME" description:"expected block interval" default:"30s"`
	BlocksPerTarget     float64       `long:"blocks-per-target" env:"NETSTATSD_BLOCKS_PER_TARGET" description:"expected blocks per interval" default:"1"`

	NTPServers  []string      `long:"ntp-server" env:"NETSTATSD_NTP_SERVERS" env-delim:"," description:"NTP servers, empty to use the system clock"`
	NTPInterval time.Duration `long:"ntp-interval" env:"NETSTATSD_NTP_INTERVAL" description:"NTP resync interval" default:"10m"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("netstatsd failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	var clk clock.Clock = clock.New()
	var ntpClock *clock.NTPClock
	if len(cfg.NTPServers) > 0 {
		c, err := clock.NewNTPClock(clk, cfg.NTPServers, logger)
		if err != nil {
			return fmt.Errorf("init ntp clock: %w", err)
		}
		ntpClock = c
		clk = c
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", zap.Error(err))
		}
	}()

	registryMetrics := metrics.NewNodeRegistry()
	geo, err := registry.NewResolver(repo, registry.ResolverConfig{
		TTL:            cfg.GeoTTL,
		NegativeTTL:    cfg.GeoNegativeTTL,
		LookupTimeout:  cfg.GeoTimeout,
		MaxConcurrency: cfg.GeoConcurrency,
	}, registryMetrics, logger)
	if err != nil {
		return fmt.Errorf("init geolocation: %w", err)
	}
	defer geo.Close()

	nodes, err := registry.NewRegistry(cfg.StaleThreshold, clk, geo, registryMetrics, logger)
	if err != nil {
		return fmt.Errorf("init registry: %w", err)
	}

	heartbeats, err := ingest.New(ingest.Config{
		QueueSize: cfg.QueueSize,
		Workers:   cfg.IngestWorkers,
		ClockSkew: cfg.ClockSkew,
		MaxAge:    cfg.MaxAge,
	}, nodes, clk, metrics.NewHeartbeatIngest(), logger)
	if err != nil {
		return fmt.Errorf("init ingest: %w", err)
	}

	node, err := p2p.NewNode(p2p.Config{
		ListenAddrs: cfg.ListenAddrs,
		Seeds:       cfg.Seeds,
		DataDir:     cfg.DataDir,
		Topic:       cfg.Topic,
		MDNS:        cfg.MDNS,
		Rendezvous:  cfg.Rendezvous,
	}, heartbeats, clk, logger)
	if err != nil {
		return fmt.Errorf("init p2p node: %w", err)
	}
	if err := node.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := node.Close(); err != nil {
			logger.Error("failed to close p2p node", zap.Error(err))
		}
	}()

	client, shutdownClient, err := newChainClient(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownClient()

	chainsaw, err := syncer.New(syncer.Config{
		MaxBatch:       cfg.SyncBatch,
		FetchTimeout:   cfg.FetchTimeout,
		PersistTimeout: cfg.PersistTimeout,
	}, client, repo, clk, metrics.NewChainSyncer(), logger)
	if err != nil {
		return fmt.Errorf("init syncer: %w", err)
	}

	readCache, err := cache.New(cache.Config{}, metrics.NewCache())
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer readCache.Close()

	mat, err := materializer.New(materializer.Config{
		Window:    cfg.Window,
		CacheTTL:  cfg.CacheTTL,
		TopMiners: cfg.TopMiners,
		SyncedLag: cfg.SyncedLag,
		Power: miningpower.Params{
			TargetBlockTime: cfg.TargetBlockTime,
			BlocksPerTarget: cfg.BlocksPerTarget,
		},
		PersistTimeout: cfg.PersistTimeout,
	}, nodes, chainsaw, repo, readCache, clk, metrics.NewMaterializer(), logger)
	if err != nil {
		return fmt.Errorf("init materializer: %w", err)
	}
	snapshots, err := materializer.NewReader(mat)
	if err != nil {
		return fmt.Errorf("init snapshot reader: %w", err)
	}

	syncJob, err := scheduler.NewPeriodic(scheduler.Config{
		Name:     "chainsaw",
		Interval: cfg.SyncInterval,
		Timeout:  cfg.FetchTimeout + cfg.PersistTimeout,
	}, chainsaw.RunCycle, clk, metrics.NewScheduler("chainsaw"), logger)
	if err != nil {
		return fmt.Errorf("init sync job: %w", err)
	}
	materializeJob, err := scheduler.NewPeriodic(scheduler.Config{
		Name:     "materialize",
		Interval: cfg.MaterializeInterval,
		Timeout:  cfg.MaterializeTimeout,
	}, mat.RunOnce, clk, metrics.NewScheduler("materialize"), logger)
	if err != nil {
		return fmt.Errorf("init materialize job: %w", err)
	}
	evictJob, err := scheduler.NewPeriodic(scheduler.Config{
		Name:     "evict",
		Interval: cfg.EvictInterval,
	}, func(context.Context) error {
		nodes.EvictStale(clk.Now())
		return nil
	}, clk, metrics.NewScheduler("evict"), logger)
	if err != nil {
		return fmt.Errorf("init evict job: %w", err)
	}

	chainsaw.OnSynced(func(_ model.SyncCursor, head model.ChainSnapshot) {
		nodes.ObserveChainTip(head.Height)
		materializeJob.Trigger()
	})

	healthServer := health.NewServer()
	healthJob, err := scheduler.NewPeriodic(scheduler.Config{
		Name:     "health",
		Interval: cfg.SyncInterval,
		Timeout:  cfg.PersistTimeout,
	}, func(ctx context.Context) error {
		now := clk.Now()
		healthServer.SetServingStatus("", servingStatus(chainsaw.LastSuccess(), now, cfg.SyncFresh))
		status, err := snapshotStatus(ctx, snapshots, now, cfg.SnapshotFresh)
		if err != nil {
			logger.Warn("failed to read latest snapshot", zap.Error(err))
		}
		healthServer.SetServingStatus(snapshotService, status)
		return nil
	}, clk, metrics.NewScheduler("health"), logger)
	if err != nil {
		return fmt.Errorf("init health job: %w", err)
	}

	if ntpClock != nil {
		g.Go(func() error { return ignoreCanceled(ntpClock.Run(ctx, cfg.NTPInterval)) })
	}
	g.Go(func() error { return ignoreCanceled(heartbeats.Run(ctx)) })
	g.Go(func() error { return ignoreCanceled(node.Run(ctx)) })
	g.Go(func() error { return ignoreCanceled(syncJob.Run(ctx)) })
	g.Go(func() error { return ignoreCanceled(materializeJob.Run(ctx)) })
	g.Go(func() error { return ignoreCanceled(evictJob.Run(ctx)) })
	g.Go(func() error { return ignoreCanceled(healthJob.Run(ctx)) })
	g.Go(func() error { return serveGRPC(ctx, cfg.GRPCAddr, healthServer, logger) })
	g.Go(func() error { return serveMetrics(ctx, cfg.MetricsAddr, logger) })

	logger.Info("netstatsd started",
		zap.String("chain", cfg.Chain),
		zap.Strings("p2p_addrs", node.Addrs()),
	)
	return g.Wait()
}

func newChainClient(cfg config, logger *zap.Logger) (chain.Client, func(), error) {
	switch cfg.Chain {
	case "bitcoin":
		rpc, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("init bitcoin rpc client: %w", err)
		}
		observed := bitcoin.NewObservedRPCClient(rpc, metrics.NewRPCClient("bitcoin"))
		client, err := bitcoin.NewClient(observed, cfg.Network, cfg.RPCWorkers, logger)
		if err != nil {
			rpc.Shutdown()
			return nil, nil, fmt.Errorf("init bitcoin client: %w", err)
		}
		return client, func() {
			rpc.Shutdown()
			rpc.WaitForShutdown()
		}, nil
	default:
		reward, err := lotusRewardPerWin(cfg.RewardPerWin)
		if err != nil {
			return nil, nil, err
		}
		client, err := lotus.NewClient(lotus.Config{
			Endpoint:          cfg.RPCURL,
			Token:             cfg.RPCToken,
			RequestsPerSecond: cfg.RPCRate,
			Timeout:           cfg.HTTPTimeout,
			RewardPerWin:      reward,
			EpochSeconds:      cfg.EpochSeconds,
		}, metrics.NewRPCClient("lotus"), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init lotus client: %w", err)
		}
		return client, func() {}, nil
	}
}

// lotusRewardPerWin parses --reward-per-win. The reward must be positive.
func lotusRewardPerWin(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, errors.New("--reward-per-win is required for the lotus chain")
	}
	reward, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse reward per win: %w", err)
	}
	if !reward.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("reward per win must be positive, got %s", raw)
	}
	return reward, nil
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

// servingStatus reports SERVING while the last successful sync is at most fresh old.
func servingStatus(lastSuccess, now time.Time, fresh time.Duration) healthpb.HealthCheckResponse_ServingStatus {
	if lastSuccess.IsZero() || now.Sub(lastSuccess) > fresh {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// snapshotService is the health service name tracking materialized snapshot freshness.
const snapshotService = "netstats.snapshot"

type snapshotSource interface {
	Latest(ctx context.Context) (*model.Snapshot, error)
}

// snapshotStatus reports SERVING while the latest snapshot, published or persisted, is at most fresh old.
// Having nothing materialized yet is NOT_SERVING without an error.
func snapshotStatus(ctx context.Context, src snapshotSource, now time.Time, fresh time.Duration) (healthpb.HealthCheckResponse_ServingStatus, error) {
	s, err := src.Latest(ctx)
	switch {
	case errors.Is(err, materializer.ErrNoSnapshot):
		return healthpb.HealthCheckResponse_NOT_SERVING, nil
	case err != nil:
		return healthpb.HealthCheckResponse_NOT_SERVING, err
	}
	return servingStatus(s.ComputedAt, now, fresh), nil
}

func serveGRPC(ctx context.Context, addr string, healthServer *health.Server, logger *zap.Logger) error {
	interceptors := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(interceptors...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	healthpb.RegisterHealthServer(grpcServer, healthServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}()

	logger.Info("Starting gRPC server", zap.String("addr", addr))
	if err := grpcServer.Serve(socket); err != nil {
		return fmt.Errorf("serve grpc: %w", err)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the metrics server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown metrics server", zap.Error(err))
		}
	}()

	logger.Info("Starting metrics server", zap.String("addr", addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

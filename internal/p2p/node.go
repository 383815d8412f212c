// Package p2p subscribes to the heartbeat gossip topic and hands raw messages to ingest.
package p2p

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/ingest"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	manet "github.com/multiformats/go-multiaddr/net"
	"go.uber.org/zap"
)

const (
	// DefaultTopic carries JSON heartbeats.
	DefaultTopic = "/netstats/heartbeat/1.0.0"

	seedConnectTimeout = 10 * time.Second
	maxMessageSize     = 64 * 1024
)

// Config describes the libp2p host.
type Config struct {
	ListenAddrs []string
	Seeds       []string
	// DataDir holds the persistent node identity. Empty means an ephemeral identity.
	DataDir    string
	Topic      string
	MDNS       bool
	Rendezvous string
}

// Node is a libp2p host joined to the heartbeat topic.
type Node struct {
	cfg     Config
	handler MessageHandler
	clock   clock.Clock
	logger  *zap.Logger

	host  host.Host
	ps    *pubsub.PubSub
	topic *pubsub.Topic
	sub   *pubsub.Subscription
	mdns  mdns.Service
}

// NewNode returns an unstarted node.
func NewNode(cfg Config, handler MessageHandler, clk clock.Clock, logger *zap.Logger) (*Node, error) {
	if handler == nil {
		return nil, errors.New("p2p message handler is required")
	}
	if clk == nil {
		return nil, errors.New("p2p clock is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if len(cfg.ListenAddrs) == 0 {
		cfg.ListenAddrs = []string{"/ip4/0.0.0.0/tcp/0"}
	}
	return &Node{
		cfg:     cfg,
		handler: handler,
		clock:   clk,
		logger:  logger.Named("p2p"),
	}, nil
}

// Start creates the host, joins the topic and dials the seeds.
func (n *Node) Start(ctx context.Context) error {
	opts := []libp2p.Option{libp2p.ListenAddrStrings(n.cfg.ListenAddrs...)}
	if n.cfg.DataDir != "" {
		priv, err := loadOrCreateIdentity(n.cfg.DataDir)
		if err != nil {
			return fmt.Errorf("load p2p identity: %w", err)
		}
		opts = append(opts, libp2p.Identity(priv))
	}

	h, err := libp2p.New(opts...)
	if err != nil {
		return fmt.Errorf("create libp2p host: %w", err)
	}
	n.host = h

	ps, err := pubsub.NewGossipSub(ctx, h, pubsub.WithMaxMessageSize(maxMessageSize))
	if err != nil {
		_ = h.Close()
		return fmt.Errorf("create pubsub: %w", err)
	}
	n.ps = ps

	topic, err := ps.Join(n.cfg.Topic)
	if err != nil {
		_ = h.Close()
		return fmt.Errorf("join heartbeat topic: %w", err)
	}
	sub, err := topic.Subscribe()
	if err != nil {
		_ = topic.Close()
		_ = h.Close()
		return fmt.Errorf("subscribe heartbeat topic: %w", err)
	}
	n.topic = topic
	n.sub = sub

	n.connectSeeds(ctx)

	if n.cfg.MDNS {
		n.mdns = mdns.NewMdnsService(h, n.cfg.Rendezvous, &discoveryNotifee{node: n, ctx: ctx})
		if err := n.mdns.Start(); err != nil {
			n.logger.Warn("mdns discovery unavailable", zap.Error(err))
		}
	}

	n.logger.Info("p2p node started",
		zap.String("peer_id", h.ID().String()),
		zap.Strings("addrs", n.Addrs()),
		zap.String("topic", n.cfg.Topic),
	)
	return nil
}

// Run forwards topic messages to the handler until the context is canceled.
func (n *Node) Run(ctx context.Context) error {
	if n.sub == nil {
		return errors.New("p2p node not started")
	}
	for {
		msg, err := n.sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read heartbeat topic: %w", err)
		}
		if msg.ReceivedFrom == n.host.ID() {
			continue
		}
		n.deliver(msg)
	}
}

func (n *Node) deliver(msg *pubsub.Message) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("heartbeat handler panicked", zap.Any("panic", r))
		}
	}()

	author := msg.GetFrom()
	n.handler.OnMessage(ingest.Envelope{
		From:       model.PeerID(author.String()),
		RemoteIP:   n.remoteIP(author),
		Data:       msg.Data,
		ReceivedAt: n.clock.Now(),
	})
}

// remoteIP returns the address of a direct connection to id, if any.
func (n *Node) remoteIP(id peer.ID) netip.Addr {
	for _, conn := range n.host.Network().ConnsToPeer(id) {
		ip, err := manet.ToIP(conn.RemoteMultiaddr())
		if err != nil {
			continue
		}
		if addr, ok := netip.AddrFromSlice(ip); ok {
			return addr.Unmap()
		}
	}
	return netip.Addr{}
}

// Publish sends data on the heartbeat topic.
func (n *Node) Publish(ctx context.Context, data []byte) error {
	if n.topic == nil {
		return errors.New("p2p node not started")
	}
	return n.topic.Publish(ctx, data)
}

// Connect dials a peer given as a full /p2p multiaddr.
func (n *Node) Connect(ctx context.Context, addr string) error {
	info, err := peer.AddrInfoFromString(addr)
	if err != nil {
		return fmt.Errorf("parse peer addr %q: %w", addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, seedConnectTimeout)
	defer cancel()
	return n.host.Connect(ctx, *info)
}

func (n *Node) connectSeeds(ctx context.Context) {
	for _, addr := range n.cfg.Seeds {
		if err := n.Connect(ctx, addr); err != nil {
			n.logger.Warn("seed connect failed", zap.String("addr", addr), zap.Error(err))
			continue
		}
		n.logger.Info("seed connected", zap.String("addr", addr))
	}
}

// ID returns the local peer ID, empty before Start.
func (n *Node) ID() peer.ID {
	if n.host == nil {
		return ""
	}
	return n.host.ID()
}

// Addrs returns dialable multiaddrs including the /p2p component.
func (n *Node) Addrs() []string {
	if n.host == nil {
		return nil
	}
	addrs := make([]string, 0, len(n.host.Addrs()))
	for _, a := range n.host.Addrs() {
		addrs = append(addrs, fmt.Sprintf("%s/p2p/%s", a, n.host.ID()))
	}
	return addrs
}

// PeerCount returns the number of connected peers.
func (n *Node) PeerCount() int {
	if n.host == nil {
		return 0
	}
	return len(n.host.Network().Peers())
}

// Close leaves the topic and shuts the host down.
func (n *Node) Close() error {
	if n.sub != nil {
		n.sub.Cancel()
	}
	if n.mdns != nil {
		_ = n.mdns.Close()
	}
	if n.topic != nil {
		_ = n.topic.Close()
	}
	if n.host != nil {
		return n.host.Close()
	}
	return nil
}

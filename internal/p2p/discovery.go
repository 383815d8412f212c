package p2p

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/zap"
)

type discoveryNotifee struct {
	node *Node
	ctx  context.Context
}

// HandlePeerFound is called by mDNS for every advertised peer.
func (d *discoveryNotifee) HandlePeerFound(pi peer.AddrInfo) {
	if pi.ID == d.node.host.ID() {
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, 5*time.Second)
	defer cancel()

	if err := d.node.host.Connect(ctx, pi); err != nil {
		d.node.logger.Debug("mdns peer connect failed", zap.String("peer", pi.ID.String()), zap.Error(err))
	}
}

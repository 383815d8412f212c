// Package model holds the domain types shared by the ingest, sync and materialization pipelines.
package model

import (
	"net/netip"
	"time"

	"github.com/shopspring/decimal"
)

// PeerID is the string form of a public-key-derived libp2p peer identity.
type PeerID string

// Geolocation is the best-effort location of a peer address.
type Geolocation struct {
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Heartbeat is a decoded liveness report from a peer.
type Heartbeat struct {
	PeerID       PeerID
	BlockHeight  uint64
	BlockTime    time.Time
	ReportedAt   time.Time
	MinerAddress string
	Nickname     string
	MinerPower   decimal.Decimal

	// Set by the transport, not by the peer.
	IP         netip.Addr
	ReceivedAt time.Time
}

// NodeStatus is the registry view of a live peer. Values are immutable once published.
type NodeStatus struct {
	PeerID                PeerID
	IP                    netip.Addr
	Geolocation           *Geolocation
	FirstSeenAt           time.Time
	LastSeenAt            time.Time
	LastReportedHeight    uint64
	LastReportedBlockTime time.Time
	MinerAddress          string
	Nickname              string
	MinerPower            decimal.Decimal

	// HeightLag is the distance to the last synced chain tip, filled at read time.
	HeightLag uint64
}

// IsMiner reports whether the peer announced a miner address.
func (s NodeStatus) IsMiner() bool {
	return s.MinerAddress != ""
}

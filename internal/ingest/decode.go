package ingest

import (
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	jsoniter "github.com/json-iterator/go"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/shopspring/decimal"
)

const (
	reasonQueueFull       = "queue_full"
	reasonMalformed       = "malformed"
	reasonBadPeerID       = "bad_peer_id"
	reasonPeerMismatch    = "peer_mismatch"
	reasonFutureTimestamp = "future_timestamp"
	reasonExpired         = "expired"
	reasonPanic           = "panic"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wireHeartbeat is the payload peers publish on the heartbeat topic.
type wireHeartbeat struct {
	PeerID       string          `json:"peer_id"`
	Height       uint64          `json:"height"`
	BlockTime    time.Time       `json:"block_time"`
	ReportedAt   time.Time       `json:"reported_at"`
	MinerAddress string          `json:"miner_address,omitempty"`
	Nickname     string          `json:"nickname,omitempty"`
	MinerPower   decimal.Decimal `json:"miner_power"`
}

// EncodeHeartbeat serializes hb in the wire format.
func EncodeHeartbeat(hb model.Heartbeat) ([]byte, error) {
	return json.Marshal(wireHeartbeat{
		PeerID:       string(hb.PeerID),
		Height:       hb.BlockHeight,
		BlockTime:    hb.BlockTime.UTC(),
		ReportedAt:   hb.ReportedAt.UTC(),
		MinerAddress: hb.MinerAddress,
		Nickname:     hb.Nickname,
		MinerPower:   hb.MinerPower,
	})
}

// decode validates an envelope against now. A non-empty reason means the heartbeat must be dropped.
func (i *Ingest) decode(env Envelope, now time.Time) (model.Heartbeat, string) {
	var wire wireHeartbeat
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return model.Heartbeat{}, reasonMalformed
	}

	id, err := peer.Decode(wire.PeerID)
	if err != nil {
		return model.Heartbeat{}, reasonBadPeerID
	}
	if env.From != "" && env.From != model.PeerID(id.String()) {
		return model.Heartbeat{}, reasonPeerMismatch
	}

	if wire.ReportedAt.IsZero() || wire.MinerPower.IsNegative() {
		return model.Heartbeat{}, reasonMalformed
	}
	if wire.ReportedAt.Sub(now) > i.clockSkew {
		return model.Heartbeat{}, reasonFutureTimestamp
	}
	if i.maxAge > 0 && now.Sub(wire.ReportedAt) > i.maxAge {
		return model.Heartbeat{}, reasonExpired
	}

	receivedAt := env.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}
	return model.Heartbeat{
		PeerID:       model.PeerID(id.String()),
		BlockHeight:  wire.Height,
		BlockTime:    wire.BlockTime,
		ReportedAt:   wire.ReportedAt,
		MinerAddress: wire.MinerAddress,
		Nickname:     wire.Nickname,
		MinerPower:   wire.MinerPower,
		IP:           env.RemoteIP,
		ReceivedAt:   receivedAt,
	}, ""
}

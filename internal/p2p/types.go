package p2p

import "github.com/goodnatureofminers/netstats7000-backend/internal/ingest"

// MessageHandler receives raw heartbeat envelopes. It must not block.
type MessageHandler interface {
	OnMessage(env ingest.Envelope)
}

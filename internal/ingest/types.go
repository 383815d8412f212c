package ingest

import "github.com/goodnatureofminers/netstats7000-backend/internal/model"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	HeartbeatSink interface {
		ApplyHeartbeat(hb model.Heartbeat)
	}
	Metrics interface {
		ObserveReceived()
		ObserveAccepted()
		ObserveDropped(reason string)
		SetQueueDepth(n int)
	}
)

package scheduler

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveRun(err error, started time.Time)
		ObserveSkipped()
	}
)

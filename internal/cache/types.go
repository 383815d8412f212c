package cache

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveLookup(hit bool)
		ObserveCompute(err error, started time.Time)
	}
)

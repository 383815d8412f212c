// Package clock provides the time sources injected into services and helpers for time-related operations.
package clock

import (
	bclock "github.com/benbjohnson/clock"
)

type (
	// Clock is the injectable time source.
	Clock = bclock.Clock
	// Mock is a Clock that only moves when advanced explicitly.
	Mock = bclock.Mock
)

// New returns the wall clock.
func New() Clock {
	return bclock.New()
}

// NewMock returns a mock clock set to the unix epoch.
func NewMock() *Mock {
	return bclock.NewMock()
}

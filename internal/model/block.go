package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Block is a canonical chain block as mirrored into storage.
type Block struct {
	Height       uint64
	Hash         string
	ParentHash   string
	MinedAt      time.Time
	Miner        string
	Reward       decimal.Decimal
	Fees         decimal.Decimal
	MessageCount uint32
	Difficulty   float64
}

// SyncCursor is the highest block height durably stored. Empty means nothing has been stored yet.
type SyncCursor struct {
	Height uint64 `json:"height"`
	Empty  bool   `json:"empty"`
}

// EmptyCursor returns the cursor of a store without blocks.
func EmptyCursor() SyncCursor {
	return SyncCursor{Empty: true}
}

// CursorAt returns a cursor positioned at height.
func CursorAt(height uint64) SyncCursor {
	return SyncCursor{Height: height}
}

// Next returns the height that must follow the cursor.
func (c SyncCursor) Next() uint64 {
	if c.Empty {
		return 0
	}
	return c.Height + 1
}

// ChainSnapshot is the tip metadata reported by the chain client.
type ChainSnapshot struct {
	Height       uint64          `json:"height"`
	Hash         string          `json:"hash"`
	MinedAt      time.Time       `json:"mined_at"`
	NetworkPower decimal.Decimal `json:"network_power"`
	BlockReward  decimal.Decimal `json:"block_reward"`
	ObservedAt   time.Time       `json:"observed_at"`
}

// RewardTotals are cumulative block aggregates up to and including a height.
type RewardTotals struct {
	Blocks   uint64
	Rewards  decimal.Decimal
	Fees     decimal.Decimal
	Messages uint64
}

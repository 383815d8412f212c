package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PowerMethod names the inputs a mining power estimate was derived from.
type PowerMethod string

const (
	PowerMethodNone     PowerMethod = "none"
	PowerMethodChain    PowerMethod = "chain"
	PowerMethodPeers    PowerMethod = "peers"
	PowerMethodCombined PowerMethod = "combined"
)

// MinerShare is the number of window blocks produced by one miner.
type MinerShare struct {
	Miner    string  `json:"miner"`
	Nickname string  `json:"nickname,omitempty"`
	Blocks   int     `json:"blocks"`
	Share    float64 `json:"share"`
}

// MiningStats summarizes block production over the trailing window.
type MiningStats struct {
	ComputedAt       time.Time     `json:"computed_at"`
	LastBlockHeight  uint64        `json:"last_block_height"`
	LastBlockTime    time.Time     `json:"last_block_time"`
	LastBlockMiner   string        `json:"last_block_miner"`
	AverageBlockTime time.Duration `json:"average_block_time"`
	WindowBlocks     int           `json:"window_blocks"`
	TopMiners        []MinerShare  `json:"top_miners"`
}

// MarketStats summarizes the fee market over the trailing window.
type MarketStats struct {
	ComputedAt       time.Time       `json:"computed_at"`
	WindowFees       decimal.Decimal `json:"window_fees"`
	WindowMessages   uint64          `json:"window_messages"`
	AverageFee       decimal.Decimal `json:"average_fee"`
	MessagesPerBlock float64         `json:"messages_per_block"`
}

// StorageStats compares capacity reported by live peers with the chain view.
type StorageStats struct {
	ComputedAt      time.Time       `json:"computed_at"`
	ReportedPower   decimal.Decimal `json:"reported_power"`
	NetworkPower    decimal.Decimal `json:"network_power"`
	ReportingMiners int             `json:"reporting_miners"`
	Coverage        float64         `json:"coverage"`
}

// TokenStats describes issuance derived from stored block rewards.
type TokenStats struct {
	ComputedAt     time.Time       `json:"computed_at"`
	MintedSupply   decimal.Decimal `json:"minted_supply"`
	TotalFees      decimal.Decimal `json:"total_fees"`
	BlockReward    decimal.Decimal `json:"block_reward"`
	WindowRewards  decimal.Decimal `json:"window_rewards"`
	StoredBlocks   uint64          `json:"stored_blocks"`
	Height         uint64          `json:"height"`
}

// MinerCounts counts live peers and producing miners.
type MinerCounts struct {
	ComputedAt      time.Time      `json:"computed_at"`
	ActiveNodes     int            `json:"active_nodes"`
	ActiveMiners    int            `json:"active_miners"`
	ProducingMiners int            `json:"producing_miners"`
	SyncedNodes     int            `json:"synced_nodes"`
	ByCountry       map[string]int `json:"by_country"`
}

// MiningPowerEstimate is the derived aggregate network mining power.
type MiningPowerEstimate struct {
	ComputedAt        time.Time       `json:"computed_at"`
	Method            PowerMethod     `json:"method"`
	NetworkPower      decimal.Decimal `json:"network_power"`
	ChainPower        decimal.Decimal `json:"chain_power"`
	ReportedPower     decimal.Decimal `json:"reported_power"`
	WindowBlocks      int             `json:"window_blocks"`
	ObservedBlockRate float64         `json:"observed_block_rate"`
	ExpectedBlockRate float64         `json:"expected_block_rate"`
	ProductionRatio   float64         `json:"production_ratio"`
	PeerShare         float64         `json:"peer_share"`
	ReportingMiners   int             `json:"reporting_miners"`
	Confidence        float64         `json:"confidence"`
}

// Snapshot is one complete materialization result. It is never mutated after publication.
type Snapshot struct {
	ComputedAt  time.Time           `json:"computed_at"`
	Cursor      SyncCursor          `json:"cursor"`
	Mining      MiningStats         `json:"mining"`
	Market      MarketStats         `json:"market"`
	Storage     StorageStats        `json:"storage"`
	Token       TokenStats          `json:"token"`
	MinerCounts MinerCounts         `json:"miner_counts"`
	MiningPower MiningPowerEstimate `json:"mining_power"`
}

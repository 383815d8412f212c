// Package miningpower estimates aggregate network mining power from recent blocks and live peer reports.
package miningpower

import (
	"sort"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/shopspring/decimal"
)

const (
	defaultWindow          = time.Hour
	defaultTargetBlockTime = 30 * time.Second
	defaultBlocksPerTarget = 1
)

// Params fix the trailing window and the chain's expected production rate.
type Params struct {
	Window          time.Duration
	TargetBlockTime time.Duration
	// BlocksPerTarget is the number of blocks expected per TargetBlockTime.
	BlocksPerTarget float64
}

func (p Params) withDefaults() Params {
	if p.Window <= 0 {
		p.Window = defaultWindow
	}
	if p.TargetBlockTime <= 0 {
		p.TargetBlockTime = defaultTargetBlockTime
	}
	if p.BlocksPerTarget <= 0 {
		p.BlocksPerTarget = defaultBlocksPerTarget
	}
	return p
}

type report struct {
	seen  time.Time
	peer  model.PeerID
	power decimal.Decimal
}

// Compute derives the network power estimate. It never fails: missing inputs lower the
// method and the confidence instead. chain may be nil when no chain tip is known.
// The result depends only on the arguments.
func Compute(blocks []model.Block, nodes []model.NodeStatus, chain *model.ChainSnapshot, now time.Time, params Params) model.MiningPowerEstimate {
	params = params.withDefaults()
	from := now.Add(-params.Window)

	est := model.MiningPowerEstimate{
		ComputedAt:    now,
		Method:        model.PowerMethodNone,
		NetworkPower:  decimal.Zero,
		ChainPower:    decimal.Zero,
		ReportedPower: decimal.Zero,
	}

	reporters := latestReports(nodes)
	est.ReportingMiners = len(reporters)

	addresses := make([]string, 0, len(reporters))
	for addr := range reporters {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)
	for _, addr := range addresses {
		est.ReportedPower = est.ReportedPower.Add(reporters[addr].power)
	}

	reporterBlocks := 0
	for _, b := range blocks {
		if b.Miner == "" || !b.MinedAt.After(from) || b.MinedAt.After(now) {
			continue
		}
		est.WindowBlocks++
		if _, ok := reporters[b.Miner]; ok {
			reporterBlocks++
		}
	}

	est.ObservedBlockRate = float64(est.WindowBlocks) / params.Window.Seconds()
	est.ExpectedBlockRate = params.BlocksPerTarget / params.TargetBlockTime.Seconds()
	est.ProductionRatio = est.ObservedBlockRate / est.ExpectedBlockRate
	if est.WindowBlocks > 0 {
		est.PeerShare = float64(reporterBlocks) / float64(est.WindowBlocks)
	}

	if chain != nil && chain.NetworkPower.IsPositive() {
		est.ChainPower = chain.NetworkPower
	}
	hasChain := est.ChainPower.IsPositive()
	hasPeers := est.ReportedPower.IsPositive()
	production := min(est.ProductionRatio, 1)

	switch {
	case hasChain && hasPeers:
		est.Method = model.PowerMethodCombined
		est.NetworkPower = est.ChainPower
		if reporterBlocks > 0 {
			// Reporters stand for their share of production, the chain view for the rest.
			rest := decimal.NewFromInt(int64(est.WindowBlocks - reporterBlocks))
			est.NetworkPower = est.ChainPower.Mul(rest).Div(decimal.NewFromInt(int64(est.WindowBlocks))).Add(est.ReportedPower)
		}
		est.Confidence = production * (0.5 + 0.5*est.PeerShare)
	case hasChain:
		est.Method = model.PowerMethodChain
		est.NetworkPower = est.ChainPower
		est.Confidence = production * 0.5
	case hasPeers:
		est.Method = model.PowerMethodPeers
		est.NetworkPower = est.ReportedPower
		if reporterBlocks > 0 {
			est.NetworkPower = est.ReportedPower.
				Mul(decimal.NewFromInt(int64(est.WindowBlocks))).
				Div(decimal.NewFromInt(int64(reporterBlocks)))
		}
		est.Confidence = production * est.PeerShare
	}

	return est
}

// latestReports keeps one positive power report per miner address, the most recent sighting.
func latestReports(nodes []model.NodeStatus) map[string]report {
	out := make(map[string]report)
	for _, n := range nodes {
		if !n.IsMiner() || !n.MinerPower.IsPositive() {
			continue
		}
		prev, ok := out[n.MinerAddress]
		if ok && (prev.seen.After(n.LastSeenAt) || (prev.seen.Equal(n.LastSeenAt) && prev.peer > n.PeerID)) {
			continue
		}
		out[n.MinerAddress] = report{seen: n.LastSeenAt, peer: n.PeerID, power: n.MinerPower}
	}
	return out
}

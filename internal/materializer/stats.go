package materializer

import (
	"sort"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/shopspring/decimal"
)

const feePrecision = 18

// inWindow keeps produced blocks mined in (from, to].
func inWindow(blocks []model.Block, from, to time.Time) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Miner == "" || !b.MinedAt.After(from) || b.MinedAt.After(to) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Height < out[j].Height
	})
	return out
}

func miningStats(window []model.Block, nodes []model.NodeStatus, cursor model.SyncCursor, now time.Time, top int) model.MiningStats {
	stats := model.MiningStats{
		ComputedAt:      now,
		LastBlockHeight: cursor.Height,
		WindowBlocks:    len(window),
		TopMiners:       []model.MinerShare{},
	}
	if len(window) == 0 {
		return stats
	}

	last := window[len(window)-1]
	stats.LastBlockHeight = last.Height
	stats.LastBlockTime = last.MinedAt
	stats.LastBlockMiner = last.Miner
	if len(window) > 1 {
		stats.AverageBlockTime = last.MinedAt.Sub(window[0].MinedAt) / time.Duration(len(window)-1)
	}

	counts := make(map[string]int)
	for _, b := range window {
		counts[b.Miner]++
	}
	nicknames := nicknamesByMiner(nodes)
	shares := make([]model.MinerShare, 0, len(counts))
	for miner, n := range counts {
		shares = append(shares, model.MinerShare{
			Miner:    miner,
			Nickname: nicknames[miner],
			Blocks:   n,
			Share:    float64(n) / float64(len(window)),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Blocks != shares[j].Blocks {
			return shares[i].Blocks > shares[j].Blocks
		}
		return shares[i].Miner < shares[j].Miner
	})
	if len(shares) > top {
		shares = shares[:top]
	}
	stats.TopMiners = shares
	return stats
}

func marketStats(window []model.Block, now time.Time) model.MarketStats {
	stats := model.MarketStats{
		ComputedAt: now,
		WindowFees: decimal.Zero,
		AverageFee: decimal.Zero,
	}
	for _, b := range window {
		stats.WindowFees = stats.WindowFees.Add(b.Fees)
		stats.WindowMessages += uint64(b.MessageCount)
	}
	if stats.WindowMessages > 0 {
		stats.AverageFee = stats.WindowFees.DivRound(decimal.NewFromInt(int64(stats.WindowMessages)), feePrecision)
	}
	if len(window) > 0 {
		stats.MessagesPerBlock = float64(stats.WindowMessages) / float64(len(window))
	}
	return stats
}

func storageStats(power model.MiningPowerEstimate, head *model.ChainSnapshot, now time.Time) model.StorageStats {
	stats := model.StorageStats{
		ComputedAt:      now,
		ReportedPower:   power.ReportedPower,
		NetworkPower:    decimal.Zero,
		ReportingMiners: power.ReportingMiners,
	}
	if head != nil {
		stats.NetworkPower = head.NetworkPower
	}
	if stats.NetworkPower.IsPositive() {
		stats.Coverage = stats.ReportedPower.Div(stats.NetworkPower).InexactFloat64()
	}
	return stats
}

func tokenStats(window []model.Block, totals model.RewardTotals, head *model.ChainSnapshot, cursor model.SyncCursor, now time.Time) model.TokenStats {
	stats := model.TokenStats{
		ComputedAt:    now,
		MintedSupply:  totals.Rewards,
		TotalFees:     totals.Fees,
		BlockReward:   decimal.Zero,
		WindowRewards: decimal.Zero,
		StoredBlocks:  totals.Blocks,
	}
	if !cursor.Empty {
		stats.Height = cursor.Height
	}
	if head != nil {
		stats.BlockReward = head.BlockReward
	}
	for _, b := range window {
		stats.WindowRewards = stats.WindowRewards.Add(b.Reward)
	}
	return stats
}

func minerCounts(window []model.Block, nodes []model.NodeStatus, head *model.ChainSnapshot, syncedLag uint64, now time.Time) model.MinerCounts {
	counts := model.MinerCounts{
		ComputedAt:  now,
		ActiveNodes: len(nodes),
		ByCountry:   map[string]int{},
	}

	producing := make(map[string]struct{})
	for _, b := range window {
		producing[b.Miner] = struct{}{}
	}
	counts.ProducingMiners = len(producing)

	for _, n := range nodes {
		if n.IsMiner() {
			counts.ActiveMiners++
		}
		if head != nil && n.LastReportedHeight+syncedLag >= head.Height {
			counts.SyncedNodes++
		}
		if n.Geolocation != nil && n.Geolocation.Country != "" {
			counts.ByCountry[n.Geolocation.Country]++
		}
	}
	return counts
}

// nicknamesByMiner maps miner addresses to the nickname of their most recently seen peer.
func nicknamesByMiner(nodes []model.NodeStatus) map[string]string {
	out := make(map[string]string)
	seen := make(map[string]time.Time)
	for _, n := range nodes {
		if !n.IsMiner() || n.Nickname == "" {
			continue
		}
		if t, ok := seen[n.MinerAddress]; ok && t.After(n.LastSeenAt) {
			continue
		}
		seen[n.MinerAddress] = n.LastSeenAt
		out[n.MinerAddress] = n.Nickname
	}
	return out
}

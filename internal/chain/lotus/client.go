// Package lotus reads canonical tipsets from a Filecoin Lotus node over JSON-RPC.
package lotus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	attoExp             = -18
	defaultEpochSeconds = 30
)

// Config describes the Lotus endpoint.
type Config struct {
	Endpoint          string
	Token             string
	RequestsPerSecond int
	Timeout           time.Duration
	// RewardPerWin is the block reward credited for each election win, in FIL.
	RewardPerWin decimal.Decimal
	EpochSeconds int64
}

// Client implements chain.Client. One tipset maps to one block; null rounds are
// mirrored as empty blocks that carry the key of the preceding tipset so that
// heights stay contiguous and parent linkage holds.
type Client struct {
	rpc          *rpcTransport
	rewardPerWin decimal.Decimal
	epochSeconds int64
	logger       *zap.Logger
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config, metrics RPCMetrics, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse lotus endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("lotus endpoint scheme %q not supported", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("lotus endpoint missing host")
	}
	if metrics == nil {
		return nil, errors.New("lotus rpc metrics is required")
	}
	if cfg.RequestsPerSecond <= 0 {
		return nil, errors.New("lotus requests per second must be positive")
	}
	if cfg.EpochSeconds <= 0 {
		cfg.EpochSeconds = defaultEpochSeconds
	}
	return &Client{
		rpc: &rpcTransport{
			endpoint: cfg.Endpoint,
			token:    cfg.Token,
			http:     &http.Client{Timeout: cfg.Timeout},
			limiter:  ratelimit.New(cfg.RequestsPerSecond),
			metrics:  metrics,
		},
		rewardPerWin: cfg.RewardPerWin,
		epochSeconds: cfg.EpochSeconds,
		logger:       logger.Named("lotus"),
	}, nil
}

// ChainHead returns the head tipset with total network quality-adjusted power.
func (c *Client) ChainHead(ctx context.Context) (model.ChainSnapshot, error) {
	head, err := c.chainHead(ctx)
	if err != nil {
		return model.ChainSnapshot{}, err
	}
	if len(head.Blocks) == 0 {
		return model.ChainSnapshot{}, fmt.Errorf("head tipset %d has no blocks", head.Height)
	}

	var power minerPower
	if err := c.rpc.call(ctx, "state_miner_power", "Filecoin.StateMinerPower", &power, head.Blocks[0].Miner, head.Cids); err != nil {
		return model.ChainSnapshot{}, err
	}

	return model.ChainSnapshot{
		Height:       head.Height,
		Hash:         head.key(),
		MinedAt:      time.Unix(head.minTimestamp(), 0).UTC(),
		NetworkPower: power.TotalPower.QualityAdjPower,
		BlockReward:  c.rewardPerWin,
	}, nil
}

// GetBlocksAfter walks tipsets by height from cursor.Next() up to the head.
func (c *Client) GetBlocksAfter(ctx context.Context, cursor model.SyncCursor, limit int) ([]model.Block, error) {
	if limit <= 0 {
		return nil, nil
	}
	head, err := c.chainHead(ctx)
	if err != nil {
		return nil, err
	}
	next := cursor.Next()
	if next > head.Height {
		return nil, nil
	}
	last := min(next+uint64(limit)-1, head.Height)

	blocks := make([]model.Block, 0, last-next+1)
	for h := next; h <= last; h++ {
		var ts tipSet
		if err := c.rpc.call(ctx, "chain_get_tipset_by_height", "Filecoin.ChainGetTipSetByHeight", &ts, h, nil); err != nil {
			return nil, err
		}
		if ts.Height > h {
			return nil, fmt.Errorf("tipset for height %d reported height %d", h, ts.Height)
		}
		if ts.Height < h {
			blocks = append(blocks, c.nullRound(h, ts))
			continue
		}
		block, err := c.buildBlock(ctx, ts)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (c *Client) chainHead(ctx context.Context) (tipSet, error) {
	var head tipSet
	if err := c.rpc.call(ctx, "chain_head", "Filecoin.ChainHead", &head); err != nil {
		return tipSet{}, err
	}
	return head, nil
}

// nullRound builds the placeholder for an epoch without blocks. prev is the last tipset before it.
func (c *Client) nullRound(height uint64, prev tipSet) model.Block {
	key := prev.key()
	minedAt := prev.minTimestamp() + int64(height-prev.Height)*c.epochSeconds
	return model.Block{
		Height:     height,
		Hash:       key,
		ParentHash: key,
		MinedAt:    time.Unix(minedAt, 0).UTC(),
		Reward:     decimal.Zero,
		Fees:       decimal.Zero,
	}
}

func (c *Client) buildBlock(ctx context.Context, ts tipSet) (model.Block, error) {
	if len(ts.Blocks) == 0 || len(ts.Cids) != len(ts.Blocks) {
		return model.Block{}, fmt.Errorf("tipset %d is malformed", ts.Height)
	}

	var wins int64
	for _, b := range ts.Blocks {
		if b.ElectionProof != nil {
			wins += b.ElectionProof.WinCount
		}
	}

	seen := make(map[string]struct{})
	fees := decimal.Zero
	var count uint32
	for _, blockCid := range ts.Cids {
		var msgs blockMessages
		if err := c.rpc.call(ctx, "chain_get_block_messages", "Filecoin.ChainGetBlockMessages", &msgs, blockCid); err != nil {
			return model.Block{}, err
		}
		for i, msgCid := range msgs.Cids {
			if _, dup := seen[msgCid.Root]; dup {
				continue
			}
			seen[msgCid.Root] = struct{}{}

			var msg message
			switch {
			case i < len(msgs.BlsMessages):
				msg = msgs.BlsMessages[i]
			case i-len(msgs.BlsMessages) < len(msgs.SecpkMessages):
				msg = msgs.SecpkMessages[i-len(msgs.BlsMessages)].Message
			default:
				continue
			}
			count++
			fees = fees.Add(msg.GasPremium.Mul(decimal.NewFromInt(msg.GasLimit)))
		}
	}

	return model.Block{
		Height:       ts.Height,
		Hash:         ts.key(),
		ParentHash:   ts.parentKey(),
		MinedAt:      time.Unix(ts.minTimestamp(), 0).UTC(),
		Miner:        tipSetMiner(ts.Blocks),
		Reward:       c.rewardPerWin.Mul(decimal.NewFromInt(wins)),
		Fees:         fees.Shift(attoExp),
		MessageCount: count,
	}, nil
}

// tipSetMiner credits a tipset to the miner with the most election wins across its blocks.
// Ties go to the miner listed first.
func tipSetMiner(blocks []blockHeader) string {
	wins := make(map[string]int64, len(blocks))
	best, bestWins := "", int64(-1)
	for _, b := range blocks {
		if b.ElectionProof != nil {
			wins[b.Miner] += b.ElectionProof.WinCount
		}
	}
	for _, b := range blocks {
		if w := wins[b.Miner]; w > bestWins {
			best, bestWins = b.Miner, w
		}
	}
	return best
}

// Package bitcoin reads canonical blocks from a Bitcoin-family node over btcd rpcclient.
package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/goodnatureofminers/netstats7000-backend/pkg/safe"
	"github.com/goodnatureofminers/netstats7000-backend/pkg/workerpool"
	"go.uber.org/zap"
)

const defaultWorkers = 4

// Client implements chain.Client on top of a bitcoind-compatible RPC endpoint.
type Client struct {
	rpc     RPCClient
	params  *chaincfg.Params
	workers int
	logger  *zap.Logger
}

// NewClient builds a client for the named network.
func NewClient(rpc RPCClient, network string, workers int, logger *zap.Logger) (*Client, error) {
	if rpc == nil {
		return nil, errors.New("bitcoin rpc client is required")
	}
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Client{
		rpc:     rpc,
		params:  params,
		workers: workers,
		logger:  logger.Named("bitcoin").With(zap.String("network", params.Name)),
	}, nil
}

// ChainHead returns the tip block metadata with a difficulty-derived hashrate estimate.
func (c *Client) ChainHead(ctx context.Context) (model.ChainSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.ChainSnapshot{}, err
	}
	count, err := c.rpc.GetBlockCount()
	if err != nil {
		return model.ChainSnapshot{}, fmt.Errorf("get block count: %w", err)
	}
	block, err := c.blockAt(ctx, count)
	if err != nil {
		return model.ChainSnapshot{}, err
	}
	return model.ChainSnapshot{
		Height:       block.Height,
		Hash:         block.Hash,
		MinedAt:      block.MinedAt,
		NetworkPower: NetworkHashrate(block.Difficulty, c.params),
		BlockReward:  block.Reward,
	}, nil
}

// GetBlocksAfter fetches up to limit blocks after cursor concurrently and returns them in height order.
func (c *Client) GetBlocksAfter(ctx context.Context, cursor model.SyncCursor, limit int) ([]model.Block, error) {
	if limit <= 0 {
		return nil, nil
	}
	count, err := c.rpc.GetBlockCount()
	if err != nil {
		return nil, fmt.Errorf("get block count: %w", err)
	}
	tip, err := safe.Uint64(count)
	if err != nil {
		return nil, fmt.Errorf("block count: %w", err)
	}

	next := cursor.Next()
	if next > tip {
		return nil, nil
	}
	last := min(next+uint64(limit)-1, tip)

	heights := make([]int64, 0, last-next+1)
	for h := next; h <= last; h++ {
		height, err := safe.Int64(h)
		if err != nil {
			return nil, fmt.Errorf("block height: %w", err)
		}
		heights = append(heights, height)
	}

	blocks, err := workerpool.Map(ctx, c.workers, heights, c.blockAt)
	if err != nil {
		c.logger.Debug("block fetch aborted", zap.Uint64("from", next), zap.Uint64("to", last), zap.Error(err))
		return nil, err
	}
	return blocks, nil
}

func (c *Client) blockAt(ctx context.Context, height int64) (model.Block, error) {
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	hash, err := c.rpc.GetBlockHash(height)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block hash %d: %w", height, err)
	}
	verbose, err := c.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block %d: %w", height, err)
	}
	block, err := BuildBlock(*verbose, c.params)
	if err != nil {
		return model.Block{}, err
	}
	return block, nil
}

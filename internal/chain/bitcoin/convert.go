package bitcoin

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
	"github.com/goodnatureofminers/netstats7000-backend/pkg/safe"
	"github.com/shopspring/decimal"
)

const satoshiExp = -8

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}

func satoshisToCoins(sats uint64) decimal.Decimal {
	return decimal.New(int64(sats), satoshiExp)
}

// BlockSubsidy returns the coinbase subsidy at height in whole coins.
func BlockSubsidy(height uint64, params *chaincfg.Params) decimal.Decimal {
	if height > math.MaxInt32 {
		return decimal.Zero
	}
	return decimal.New(blockchain.CalcBlockSubsidy(int32(height), params), satoshiExp)
}

// NetworkHashrate estimates network hashes per second from the block difficulty.
func NetworkHashrate(difficulty float64, params *chaincfg.Params) decimal.Decimal {
	spacing := params.TargetTimePerBlock.Seconds()
	if difficulty <= 0 || spacing <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(difficulty).
		Mul(decimal.NewFromInt(1 << 32)).
		Div(decimal.NewFromFloat(spacing)).
		Round(0)
}

// BuildBlock maps a verbose btcjson block into a model.Block.
// Miner is the first address paid by the coinbase; fees are the coinbase value above the subsidy.
func BuildBlock(src btcjson.GetBlockVerboseTxResult, params *chaincfg.Params) (model.Block, error) {
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d height: %w", src.Height, err)
	}
	txCount, err := safe.Uint32(len(src.Tx))
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d tx count overflow: %w", src.Height, err)
	}
	if len(src.Tx) == 0 {
		return model.Block{}, fmt.Errorf("block %d has no coinbase", src.Height)
	}

	coinbase := src.Tx[0]
	var paid uint64
	for _, vout := range coinbase.Vout {
		sats, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return model.Block{}, fmt.Errorf("block %d coinbase output %d: %w", src.Height, vout.N, err)
		}
		paid += sats
	}
	miner, err := coinbaseMiner(coinbase, params)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d coinbase miner: %w", src.Height, err)
	}

	subsidy := BlockSubsidy(height, params)
	fees := satoshisToCoins(paid).Sub(subsidy)
	if fees.IsNegative() {
		fees = decimal.Zero
	}

	return model.Block{
		Height:       height,
		Hash:         src.Hash,
		ParentHash:   src.PreviousHash,
		MinedAt:      time.Unix(src.Time, 0).UTC(),
		Miner:        miner,
		Reward:       subsidy,
		Fees:         fees,
		MessageCount: txCount,
		Difficulty:   src.Difficulty,
	}, nil
}

func coinbaseMiner(tx btcjson.TxRawResult, params *chaincfg.Params) (string, error) {
	for _, vout := range tx.Vout {
		addrs, err := decodeAddresses(vout, params)
		if err != nil {
			return "", err
		}
		if len(addrs) > 0 {
			return addrs[0], nil
		}
	}
	return "", nil
}

func decodeAddresses(vout btcjson.Vout, params *chaincfg.Params) ([]string, error) {
	if len(vout.ScriptPubKey.Addresses) > 0 {
		return append([]string(nil), vout.ScriptPubKey.Addresses...), nil
	}
	if vout.ScriptPubKey.Address != "" {
		return []string{vout.ScriptPubKey.Address}, nil
	}
	if vout.ScriptPubKey.Hex == "" {
		return nil, nil
	}

	script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
	if err != nil {
		return nil, err
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, params)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		result = append(result, addr.EncodeAddress())
	}
	return result, nil
}

// ChainParams resolves btcd network parameters by name.
func ChainParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "":
		return nil, errors.New("network is required")
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}

package lotus

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

type cid struct {
	Root string `json:"/"`
}

type tipSet struct {
	Cids   []cid         `json:"Cids"`
	Blocks []blockHeader `json:"Blocks"`
	Height uint64        `json:"Height"`
}

// key is the canonical string form of the tipset key.
func (ts tipSet) key() string {
	return joinCids(ts.Cids)
}

func (ts tipSet) parentKey() string {
	if len(ts.Blocks) == 0 {
		return ""
	}
	return joinCids(ts.Blocks[0].Parents)
}

func (ts tipSet) minTimestamp() int64 {
	var minTs int64
	for i, b := range ts.Blocks {
		if i == 0 || b.Timestamp < minTs {
			minTs = b.Timestamp
		}
	}
	return minTs
}

func joinCids(cids []cid) string {
	parts := make([]string, 0, len(cids))
	for _, c := range cids {
		parts = append(parts, c.Root)
	}
	return strings.Join(parts, ",")
}

type blockHeader struct {
	Miner         string         `json:"Miner"`
	Parents       []cid          `json:"Parents"`
	Height        uint64         `json:"Height"`
	Timestamp     int64          `json:"Timestamp"`
	ElectionProof *electionProof `json:"ElectionProof"`
}

type electionProof struct {
	WinCount int64 `json:"WinCount"`
}

type message struct {
	GasLimit   int64           `json:"GasLimit"`
	GasPremium decimal.Decimal `json:"GasPremium"`
}

type signedMessage struct {
	Message message `json:"Message"`
}

type blockMessages struct {
	BlsMessages   []message       `json:"BlsMessages"`
	SecpkMessages []signedMessage `json:"SecpkMessages"`
	Cids          []cid           `json:"Cids"`
}

type powerClaim struct {
	RawBytePower    decimal.Decimal `json:"RawBytePower"`
	QualityAdjPower decimal.Decimal `json:"QualityAdjPower"`
}

type minerPower struct {
	MinerPower  powerClaim `json:"MinerPower"`
	TotalPower  powerClaim `json:"TotalPower"`
	HasMinPower bool       `json:"HasMinPower"`
}

package syncer

import (
	"fmt"

	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

// validateBatch checks that blocks extend cursor one height at a time and link to each other.
// prevHash is the hash of the block at cursor when known, empty otherwise.
func validateBatch(cursor model.SyncCursor, prevHash string, blocks []model.Block) error {
	expected := cursor.Next()
	for i, b := range blocks {
		if b.Height != expected {
			if i == 0 {
				return fmt.Errorf("%w: first block %d, expected %d", ErrNonContiguous, b.Height, expected)
			}
			return fmt.Errorf("%w: block %d follows %d", ErrNonContiguous, b.Height, blocks[i-1].Height)
		}
		if b.Hash == "" {
			return fmt.Errorf("%w: block %d has no hash", ErrMalformedBlock, b.Height)
		}
		if b.MinedAt.IsZero() {
			return fmt.Errorf("%w: block %d has no timestamp", ErrMalformedBlock, b.Height)
		}
		if b.Reward.IsNegative() || b.Fees.IsNegative() {
			return fmt.Errorf("%w: block %d has negative amounts", ErrMalformedBlock, b.Height)
		}
		if prevHash != "" && b.ParentHash != "" && b.ParentHash != prevHash {
			return fmt.Errorf("%w: block %d parent %s does not match %s", ErrNonContiguous, b.Height, b.ParentHash, prevHash)
		}
		prevHash = b.Hash
		expected++
	}
	return nil
}

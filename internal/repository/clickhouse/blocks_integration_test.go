package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/netstats7000-backend/internal/model"
)

func (s *RepositorySuite) TestAppendBlocksAdvancesMaxHeight() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.expectObserve("max_block_height", 2)
	s.expectObserve("append_blocks", 2)

	cursor, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(model.EmptyCursor(), cursor)

	s.Require().NoError(s.repo.AppendBlocks(s.testCtx, newChainBlocks(0, 9, start)))
	s.Require().NoError(s.repo.AppendBlocks(s.testCtx, newChainBlocks(10, 12, start)))

	cursor, err = s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(model.CursorAt(12), cursor)
}

func (s *RepositorySuite) TestAppendBlocksRejectsGap() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.expectObserve("append_blocks", 1)
	s.metrics.EXPECT().Observe("append_blocks", gomock.Not(gomock.Nil()), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.AppendBlocks(s.testCtx, newChainBlocks(0, 4, start)))

	err := s.repo.AppendBlocks(s.testCtx, newChainBlocks(6, 7, start))
	s.Require().ErrorIs(err, ErrNonContiguousAppend)
}

func (s *RepositorySuite) TestReadBlockRangeAndRewardTotals() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	blocks := newChainBlocks(0, 9, start)

	s.expectObserve("append_blocks", 1)
	s.expectObserve("read_block_range", 1)
	s.expectObserve("reward_totals", 1)

	s.Require().NoError(s.repo.AppendBlocks(s.testCtx, blocks))

	got, err := s.repo.ReadBlockRange(s.testCtx, blocks[3].MinedAt, blocks[6].MinedAt)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	for i, b := range got {
		want := blocks[4+i]
		s.Equal(want.Height, b.Height)
		s.Equal(want.Hash, b.Hash)
		s.Equal(want.ParentHash, b.ParentHash)
		s.True(want.MinedAt.Equal(b.MinedAt))
		s.Equal(want.Miner, b.Miner)
		s.True(want.Reward.Equal(b.Reward))
		s.True(want.Fees.Equal(b.Fees))
		s.Equal(want.MessageCount, b.MessageCount)
	}

	totals, err := s.repo.RewardTotals(s.testCtx, 4)
	s.Require().NoError(err)
	s.Equal(uint64(5), totals.Blocks)
	s.Equal("27.5", totals.Rewards.String())
	s.Equal("0.000000000000000615", totals.Fees.String())
	s.Equal(uint64(0+1+2+3+4), totals.Messages)
}

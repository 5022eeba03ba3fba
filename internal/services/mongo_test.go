//go:build integration

package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/clock"
	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/types"
	"github.com/babylonlabs-io/token-economics/testutil/mocks"
)

func TestMongoLifecycle(t *testing.T) {
	resetDatabase(t)
	ctx := t.Context()

	book := ledger.NewBook(stakeVault, rewardVault, treasuryVault)
	require.NoError(t, book.Mint(stakeAsset, "alice", 1_000))
	require.NoError(t, book.Mint(rewardAsset, rewardVault, 1_000_000))
	clk := clock.NewManual(start)
	store := db.NewDbWithMetrics(testDB)
	svc := NewService(testConfig(), store, book, auth.Identity{}, clk, nil)

	require.NoError(t, svc.InitializeEconomics(ctx, admin, 100, 500, 10, 1_000_000))
	require.NoError(t, svc.CreateStakingPool(ctx, admin, 1, 100, 0, 10_000))
	require.NoError(t, svc.Stake(ctx, "alice", 1, 1_000))

	clk.Advance(10)
	require.NoError(t, svc.ClaimRewards(ctx, "alice", 1))
	assert.Equal(t, uint64(950), book.Balance(rewardAsset, "alice"))
	assert.Equal(t, uint64(50), book.Balance(rewardAsset, treasuryVault))

	require.NoError(t, svc.Unstake(ctx, "alice", 1, 0))
	assert.Equal(t, uint64(1_000), book.Balance(stakeAsset, "alice"))

	econ, err := svc.GetEconomics(ctx)
	require.NoError(t, err)
	assert.Zero(t, econ.TotalStaked)
	assert.Zero(t, econ.ActiveStakers)
	assert.Equal(t, uint64(1_000), econ.TotalRewardsDistributed)

	stakes, err := svc.ListUserStakes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stakes, 1)
	assert.Equal(t, uint64(950), stakes[0].TotalRewardsClaimed)

	require.NoError(t, svc.calculateAndUpdateStats(ctx))
}

func TestMongoRollback(t *testing.T) {
	resetDatabase(t)
	ctx := t.Context()

	l := mocks.NewLedger(t)
	clk := clock.NewManual(start)
	svc := NewService(testConfig(), testDB, l, auth.Identity{}, clk, nil)

	require.NoError(t, svc.InitializeEconomics(ctx, admin, 100, 500, 10, 1_000_000))
	require.NoError(t, svc.CreateStakingPool(ctx, admin, 1, 100, 0, 10_000))

	l.On("TransferAsUser", mock.Anything, "alice", mock.Anything).Return(errors.New("account frozen")).Once()
	err := svc.Stake(ctx, "alice", 1, 1_000)
	require.ErrorIs(t, err, types.ErrTransferFailed)

	_, err = testDB.GetUserStake(ctx, "alice", 1)
	assert.True(t, db.IsNotFoundError(err))
	econ, err := testDB.GetEconomics(ctx)
	require.NoError(t, err)
	assert.Zero(t, econ.TotalStaked)
	assert.Zero(t, econ.ActiveStakers)
	pool, err := testDB.GetStakingPool(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, pool.TotalStaked)
}

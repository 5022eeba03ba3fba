package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/rewards"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

func TestStake(t *testing.T) {
	t.Run("first stake", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 1_500)

		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 1_000))

		stake := env.stake(t, "alice", 1)
		assert.Equal(t, uint64(1_000), stake.TotalStaked)
		assert.Zero(t, stake.PendingRewards)
		assert.Zero(t, stake.RewardDebt)
		assert.Equal(t, start, stake.FirstStakeTime)
		assert.Equal(t, start, stake.LastStakeTime)

		pool := env.pool(t, 1)
		assert.Equal(t, uint64(1_000), pool.TotalStaked)
		assert.Equal(t, uint32(1), pool.ActiveStakers)

		econ := env.econ(t)
		assert.Equal(t, uint64(1_000), econ.TotalStaked)
		assert.Equal(t, uint64(1), econ.ActiveStakers)

		assert.Equal(t, uint64(500), env.book.Balance(stakeAsset, "alice"))
		assert.Equal(t, uint64(1_000), env.book.Balance(stakeAsset, stakeVault))

		ev := env.publisher.last()
		require.NotNil(t, ev)
		assert.Equal(t, types.EventStake, ev.Type)
		assert.Equal(t, "alice", ev.User)
		assert.Equal(t, uint64(1_000), ev.Amount)
		assert.Equal(t, types.StakeDetails{TotalUserStake: 1_000, TotalPoolStake: 1_000}, ev.Details)
	})
	t.Run("earns 100 per second alone in the pool", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 1_000)
		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 1_000))

		env.clock.Advance(10)
		preview, err := env.svc.PreviewRewards(ctx, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000), preview.GrossReward)
		assert.Equal(t, uint64(50), preview.GovernanceFee)
		assert.Equal(t, uint64(950), preview.NetReward)

		// preview writes nothing
		assert.Zero(t, env.pool(t, 1).AccumulatedRewardPerShare)
		assert.Equal(t, start, env.econ(t).LastRewardUpdateTime)
	})
	t.Run("restaking settles into pending", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 2_000)
		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 1_000))

		env.clock.Advance(10)
		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 1_000))

		stake := env.stake(t, "alice", 1)
		pool := env.pool(t, 1)
		assert.Equal(t, rewards.Precision, pool.AccumulatedRewardPerShare)
		assert.Equal(t, uint64(1_000), stake.PendingRewards)
		assert.Equal(t, uint64(2_000), stake.RewardDebt)
		assert.Equal(t, start, stake.FirstStakeTime)
		assert.Equal(t, start+10, stake.LastStakeTime)
		assert.Equal(t, uint32(1), pool.ActiveStakers)
		assert.Equal(t, uint64(1), env.econ(t).ActiveStakers)
	})
	t.Run("rewards split by stake weighted time", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 500)
		env.fund(t, "bob", 1_500)

		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 500))
		env.clock.Advance(10)
		require.NoError(t, env.svc.Stake(ctx, "bob", 1, 1_500))
		env.clock.Advance(10)

		// 1000 to alice alone, then 1000 split 500:1500
		alice, err := env.svc.PreviewRewards(ctx, "alice", 1)
		require.NoError(t, err)
		bob, err := env.svc.PreviewRewards(ctx, "bob", 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_250), alice.GrossReward)
		assert.Equal(t, uint64(750), bob.GrossReward)
	})
	t.Run("bounds", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 10_000_000)
		require.NoError(t, env.svc.CreateStakingPool(ctx, admin, 2, 100, 0, 1_500))

		err := env.svc.Stake(ctx, "alice", 1, 9)
		require.ErrorIs(t, err, types.ErrBelowMinimumStake)
		assert.True(t, types.IsErrorCode(err, types.ValidationError))

		err = env.svc.Stake(ctx, "alice", 1, 1_000_001)
		require.ErrorIs(t, err, types.ErrExceedsMaximumStake)

		require.NoError(t, env.svc.Stake(ctx, "alice", 2, 1_000))
		err = env.svc.Stake(ctx, "alice", 2, 501)
		require.ErrorIs(t, err, types.ErrPoolCapacityExceeded)
		require.NoError(t, env.svc.Stake(ctx, "alice", 2, 500))
		assert.Equal(t, uint64(1_500), env.pool(t, 2).TotalStaked)

		err = env.svc.Stake(ctx, "alice", 3, 100)
		require.ErrorIs(t, err, types.ErrPoolNotFound)
		assert.True(t, types.IsErrorCode(err, types.NotFound))

		err = env.svc.Stake(ctx, "ali/ce", 1, 100)
		assert.True(t, types.IsErrorCode(err, types.ValidationError))
		err = env.svc.Stake(ctx, "", 1, 100)
		assert.True(t, types.IsErrorCode(err, types.Unauthorized))
	})
	t.Run("user maximum spans restakes", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 2_000_000)

		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 999_995))
		err := env.svc.Stake(ctx, "alice", 1, 10)
		require.ErrorIs(t, err, types.ErrExceedsMaximumStake)
		assert.Equal(t, uint64(999_995), env.stake(t, "alice", 1).TotalStaked)
	})
	t.Run("paused", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 1_000)
		require.NoError(t, env.svc.SetPauseState(ctx, admin, true))

		err := env.svc.Stake(ctx, "alice", 1, 100)
		require.ErrorIs(t, err, types.ErrSystemPaused)
		assert.True(t, types.IsErrorCode(err, types.StateError))
	})
	t.Run("inactive pool", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 1_000)

		pool := env.pool(t, 1)
		pool.IsActive = false
		require.NoError(t, env.store.Commit(ctx, &db.Changeset{Pool: pool}))

		err := env.svc.Stake(ctx, "alice", 1, 100)
		require.ErrorIs(t, err, types.ErrPoolNotActive)
	})
	t.Run("failed transfer drops the new stake", func(t *testing.T) {
		env := initialized(t, nil)
		ctx := t.Context()
		env.fund(t, "alice", 99)
		env.clock.Advance(5)

		err := env.svc.Stake(ctx, "alice", 1, 100)
		require.ErrorIs(t, err, types.ErrTransferFailed)
		assert.True(t, types.IsErrorCode(err, types.TransferFailed))

		_, err = env.store.GetUserStake(ctx, "alice", 1)
		assert.True(t, db.IsNotFoundError(err))

		econ := env.econ(t)
		assert.Zero(t, econ.TotalStaked)
		assert.Zero(t, econ.ActiveStakers)
		assert.Equal(t, start, econ.LastRewardUpdateTime)
		pool := env.pool(t, 1)
		assert.Zero(t, pool.TotalStaked)
		assert.Zero(t, pool.ActiveStakers)
		assert.Equal(t, uint64(99), env.book.Balance(stakeAsset, "alice"))

		// the records are usable afterwards
		env.fund(t, "alice", 1)
		require.NoError(t, env.svc.Stake(ctx, "alice", 1, 100))
		assert.Equal(t, uint64(100), env.stake(t, "alice", 1).TotalStaked)
	})
}

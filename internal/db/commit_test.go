//go:build integration

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	setup := func(t *testing.T) (*model.Economics, *model.StakingPool) {
		resetDatabase(t)

		econ := createEconomics(t)
		require.NoError(t, testDB.SaveEconomics(ctx, econ))
		pool := &model.StakingPool{PoolID: 1, RewardMultiplier: 100, MaxCapacity: 1000, IsActive: true}
		require.NoError(t, testDB.SaveNewStakingPool(ctx, pool))
		return econ, pool
	}

	t.Run("insert stake with economics and pool", func(t *testing.T) {
		econ, pool := setup(t)

		stake := model.NewUserStake("alice", pool.PoolID)
		stake.TotalStaked = 100
		stake.FirstStakeTime = 10
		stake.LastStakeTime = 10
		pool.TotalStaked += 100
		econ.TotalStaked += 100

		err := testDB.Commit(ctx, &db.Changeset{Economics: econ, Pool: pool, Stake: stake})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), econ.Version)
		assert.Equal(t, uint64(2), pool.Version)
		assert.Equal(t, uint64(1), stake.Version)

		foundEcon, err := testDB.GetEconomics(ctx)
		require.NoError(t, err)
		assert.Equal(t, econ, foundEcon)

		foundPool, err := testDB.GetStakingPool(ctx, pool.PoolID)
		require.NoError(t, err)
		assert.Equal(t, pool, foundPool)

		foundStake, err := testDB.GetUserStake(ctx, "alice", pool.PoolID)
		require.NoError(t, err)
		assert.Equal(t, stake, foundStake)
	})

	t.Run("stale version aborts every write", func(t *testing.T) {
		econ, pool := setup(t)

		stalePool := pool.Clone()
		pool.TotalStaked = 1
		require.NoError(t, testDB.Commit(ctx, &db.Changeset{Pool: pool}))

		econ.TotalStaked = 999
		stake := model.NewUserStake("bob", pool.PoolID)
		err := testDB.Commit(ctx, &db.Changeset{Economics: econ, Pool: stalePool, Stake: stake})
		require.Error(t, err)
		assert.True(t, db.IsConcurrentUpdateError(err))
		assert.Equal(t, uint64(1), econ.Version)
		assert.Zero(t, stake.Version)

		foundEcon, err := testDB.GetEconomics(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, uint64(999), foundEcon.TotalStaked)

		_, err = testDB.GetUserStake(ctx, "bob", pool.PoolID)
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("concurrent insert of the same stake", func(t *testing.T) {
		_, pool := setup(t)

		require.NoError(t, testDB.Commit(ctx, &db.Changeset{Stake: model.NewUserStake("carol", pool.PoolID)}))

		err := testDB.Commit(ctx, &db.Changeset{Stake: model.NewUserStake("carol", pool.PoolID)})
		assert.True(t, db.IsConcurrentUpdateError(err))
	})

	t.Run("update stake", func(t *testing.T) {
		_, pool := setup(t)

		stake := model.NewUserStake("dave", pool.PoolID)
		require.NoError(t, testDB.Commit(ctx, &db.Changeset{Stake: stake}))

		stake.PendingRewards = 42
		require.NoError(t, testDB.Commit(ctx, &db.Changeset{Stake: stake}))
		assert.Equal(t, uint64(2), stake.Version)

		stakes, err := testDB.ListUserStakes(ctx, "dave")
		require.NoError(t, err)
		require.Len(t, stakes, 1)
		assert.Equal(t, uint64(42), stakes[0].PendingRewards)
	})

	t.Run("before commit hook", func(t *testing.T) {
		t.Run("runs once and commits", func(t *testing.T) {
			_, pool := setup(t)

			calls := 0
			stake := model.NewUserStake("erin", pool.PoolID)
			err := testDB.Commit(ctx, &db.Changeset{
				Stake: stake,
				BeforeCommit: func(ctx context.Context) error {
					calls++
					return nil
				},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
			assert.Equal(t, uint64(1), stake.Version)
		})

		t.Run("error aborts the transaction", func(t *testing.T) {
			econ, pool := setup(t)

			hookErr := errors.New("transfer rejected")
			savedTotal := econ.TotalStaked
			econ.TotalStaked += 100
			pool.TotalStaked = 100
			stake := model.NewUserStake("frank", pool.PoolID)
			stake.TotalStaked = 100

			err := testDB.Commit(ctx, &db.Changeset{
				Economics: econ,
				Pool:      pool,
				Stake:     stake,
				BeforeCommit: func(ctx context.Context) error {
					return hookErr
				},
			})
			require.ErrorIs(t, err, hookErr)
			assert.Zero(t, stake.Version)

			loadedEcon, err := testDB.GetEconomics(ctx)
			require.NoError(t, err)
			assert.Equal(t, savedTotal, loadedEcon.TotalStaked)
			loadedPool, err := testDB.GetStakingPool(ctx, pool.PoolID)
			require.NoError(t, err)
			assert.Zero(t, loadedPool.TotalStaked)
			_, err = testDB.GetUserStake(ctx, "frank", pool.PoolID)
			assert.True(t, db.IsNotFoundError(err))
		})
	})
}

package rewards

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

func newEconomics(rate uint64, last int64) *model.Economics {
	return &model.Economics{
		ID:                   model.EconomicsID,
		RewardRatePerSecond:  rate,
		GovernanceFeeBps:     500,
		MinStakeAmount:       1,
		MaxStakeAmount:       math.MaxUint64,
		LastRewardUpdateTime: last,
	}
}

func newPool(multiplier uint16, staked uint64) *model.StakingPool {
	return &model.StakingPool{
		PoolID:           1,
		RewardMultiplier: multiplier,
		MaxCapacity:      math.MaxUint64,
		TotalStaked:      staked,
		IsActive:         true,
	}
}

func TestAccrue(t *testing.T) {
	t.Run("single staker earns rate times elapsed", func(t *testing.T) {
		econ := newEconomics(100, 0)
		pool := newPool(100, 1000)
		stake := &model.UserStake{TotalStaked: 1000}

		require.NoError(t, Accrue(econ, pool, 10))
		assert.Equal(t, int64(10), econ.LastRewardUpdateTime)
		// 100*10*100/100 = 1000 rewards over 1000 staked
		assert.Equal(t, Precision, pool.AccumulatedRewardPerShare)

		pending, err := PendingRewards(stake, pool)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), pending)
	})

	t.Run("multiplier scales emission", func(t *testing.T) {
		econ := newEconomics(100, 0)
		pool := newPool(250, 1000)

		require.NoError(t, Accrue(econ, pool, 10))
		assert.Equal(t, 5*Precision/2, pool.AccumulatedRewardPerShare)
	})

	t.Run("empty pool advances timestamp only", func(t *testing.T) {
		econ := newEconomics(100, 5)
		pool := newPool(100, 0)

		require.NoError(t, Accrue(econ, pool, 50))
		assert.Equal(t, int64(50), econ.LastRewardUpdateTime)
		assert.Zero(t, pool.AccumulatedRewardPerShare)
	})

	t.Run("clock behind last update is a no-op", func(t *testing.T) {
		econ := newEconomics(100, 100)
		pool := newPool(100, 10)
		pool.AccumulatedRewardPerShare = 42

		require.NoError(t, Accrue(econ, pool, 90))
		assert.Equal(t, int64(100), econ.LastRewardUpdateTime)
		assert.Equal(t, uint64(42), pool.AccumulatedRewardPerShare)
	})

	t.Run("accumulator never decreases", func(t *testing.T) {
		econ := newEconomics(7, 0)
		pool := newPool(333, 997)

		prev := pool.AccumulatedRewardPerShare
		for now := int64(1); now < 200; now += 3 {
			require.NoError(t, Accrue(econ, pool, now))
			assert.GreaterOrEqual(t, pool.AccumulatedRewardPerShare, prev)
			prev = pool.AccumulatedRewardPerShare
		}
	})

	t.Run("delta that does not fit is an overflow", func(t *testing.T) {
		econ := newEconomics(math.MaxUint64, 0)
		pool := newPool(1000, 1)

		err := Accrue(econ, pool, math.MaxInt32)
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ArithmeticOverflow))
		assert.True(t, errors.Is(err, types.ErrMathOverflow))
		// nothing was applied
		assert.Zero(t, econ.LastRewardUpdateTime)
		assert.Zero(t, pool.AccumulatedRewardPerShare)
	})

	t.Run("accumulator addition overflow", func(t *testing.T) {
		econ := newEconomics(1, 0)
		pool := newPool(100, 1)
		pool.AccumulatedRewardPerShare = math.MaxUint64 - 1

		err := Accrue(econ, pool, 1)
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ArithmeticOverflow))
	})
}

func TestPendingRewards(t *testing.T) {
	t.Run("debt above earned clamps at zero", func(t *testing.T) {
		pool := newPool(100, 10)
		pool.AccumulatedRewardPerShare = Precision
		stake := &model.UserStake{TotalStaked: 10, RewardDebt: 11}

		pending, err := PendingRewards(stake, pool)
		require.NoError(t, err)
		assert.Zero(t, pending)
	})

	t.Run("debt re-baseline leaves nothing pending", func(t *testing.T) {
		pool := newPool(100, 10)
		pool.AccumulatedRewardPerShare = 3*Precision + 17
		stake := &model.UserStake{TotalStaked: 12345}

		debt, err := RewardDebt(stake.TotalStaked, pool)
		require.NoError(t, err)
		stake.RewardDebt = debt

		pending, err := PendingRewards(stake, pool)
		require.NoError(t, err)
		assert.Zero(t, pending)
	})

	t.Run("earned that does not fit is an overflow", func(t *testing.T) {
		pool := newPool(100, 10)
		pool.AccumulatedRewardPerShare = math.MaxUint64
		stake := &model.UserStake{TotalStaked: math.MaxUint64}

		_, err := PendingRewards(stake, pool)
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ArithmeticOverflow))
	})
}

func TestSplitFee(t *testing.T) {
	testCases := []struct {
		name  string
		gross uint64
		bps   uint16
		fee   uint64
		net   uint64
	}{
		{name: "five percent", gross: 1000, bps: 500, fee: 50, net: 950},
		{name: "rounds fee down", gross: 999, bps: 500, fee: 49, net: 950},
		{name: "zero fee", gross: 1000, bps: 0, fee: 0, net: 1000},
		{name: "full fee", gross: 1000, bps: 10000, fee: 1000, net: 0},
		{name: "max gross", gross: math.MaxUint64, bps: 10000, fee: math.MaxUint64, net: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fee, net, err := SplitFee(tc.gross, tc.bps)
			require.NoError(t, err)
			assert.Equal(t, tc.fee, fee)
			assert.Equal(t, tc.net, net)
			assert.Equal(t, tc.gross, fee+net)
		})
	}

	t.Run("rate above 100 percent", func(t *testing.T) {
		_, _, err := SplitFee(1000, 10001)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrInvalidFeeRate)
	})
}

func TestCheckedArithmetic(t *testing.T) {
	sum, err := Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = Add(math.MaxUint64, 1)
	assert.True(t, types.IsErrorCode(err, types.ArithmeticOverflow))

	diff, err := Sub(5, 5)
	require.NoError(t, err)
	assert.Zero(t, diff)

	_, err = Sub(4, 5)
	assert.True(t, types.IsErrorCode(err, types.ArithmeticOverflow))
}

// Package rewards holds the accumulator arithmetic shared by every staking
// operation. Intermediates are computed on sdkmath.Int and narrowed back to
// uint64 only at the end; a value that does not fit is an overflow error.
package rewards

import (
	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

const (
	// Precision is the fixed-point scale of AccumulatedRewardPerShare.
	Precision uint64 = 1_000_000_000_000
	// MultiplierBase is the reward multiplier that means 1x.
	MultiplierBase uint64 = 100
	// BpsBase is 100% in basis points.
	BpsBase uint64 = 10_000
	// MaxRewardMultiplier is the largest multiplier a pool may carry (10x).
	MaxRewardMultiplier uint16 = 1000
)

var (
	precision      = sdkmath.NewIntFromUint64(Precision)
	multiplierBase = sdkmath.NewIntFromUint64(MultiplierBase)
	bpsBase        = sdkmath.NewIntFromUint64(BpsBase)
)

// Accrue advances the pool accumulator to now using the global emission rate
// scaled by the pool multiplier. Rewards are only distributed over intervals
// where the pool has stake. The shared update timestamp always moves to now,
// but never backwards.
func Accrue(econ *model.Economics, pool *model.StakingPool, now int64) error {
	dt := now - econ.LastRewardUpdateTime
	if dt <= 0 {
		return nil
	}

	if pool.TotalStaked > 0 {
		poolRewards := sdkmath.NewIntFromUint64(econ.RewardRatePerSecond).
			Mul(sdkmath.NewInt(dt)).
			Mul(sdkmath.NewIntFromUint64(uint64(pool.RewardMultiplier))).
			Quo(multiplierBase)

		delta := poolRewards.Mul(precision).Quo(sdkmath.NewIntFromUint64(pool.TotalStaked))
		if !delta.IsUint64() {
			return types.Overflowf("reward per share delta %s for pool %d", delta, pool.PoolID)
		}

		acc, err := Add(pool.AccumulatedRewardPerShare, delta.Uint64())
		if err != nil {
			return err
		}
		pool.AccumulatedRewardPerShare = acc
	}

	econ.LastRewardUpdateTime = now
	return nil
}

// Earned is the reward a position of amount has earned since the pool
// accumulator was zero.
func Earned(amount uint64, pool *model.StakingPool) (uint64, error) {
	earned := sdkmath.NewIntFromUint64(amount).
		Mul(sdkmath.NewIntFromUint64(pool.AccumulatedRewardPerShare)).
		Quo(precision)
	if !earned.IsUint64() {
		return 0, types.Overflowf("earned rewards %s for pool %d", earned, pool.PoolID)
	}
	return earned.Uint64(), nil
}

// RewardDebt is the baseline recorded against a position of amount so that
// only rewards accrued afterwards become pending.
func RewardDebt(amount uint64, pool *model.StakingPool) (uint64, error) {
	return Earned(amount, pool)
}

// PendingRewards settles the stake against the pool accumulator. It never
// goes below zero.
func PendingRewards(stake *model.UserStake, pool *model.StakingPool) (uint64, error) {
	earned, err := Earned(stake.TotalStaked, pool)
	if err != nil {
		return 0, err
	}
	if earned <= stake.RewardDebt {
		return 0, nil
	}
	return earned - stake.RewardDebt, nil
}

// SplitFee splits gross into the governance fee, rounded down, and the
// remainder paid to the user.
func SplitFee(gross uint64, feeBps uint16) (fee uint64, net uint64, err error) {
	if uint64(feeBps) > BpsBase {
		return 0, 0, types.NewValidationFailedError(types.ErrInvalidFeeRate)
	}

	f := sdkmath.NewIntFromUint64(gross).
		Mul(sdkmath.NewIntFromUint64(uint64(feeBps))).
		Quo(bpsBase)
	if !f.IsUint64() {
		return 0, 0, types.Overflowf("governance fee %s", f)
	}

	fee = f.Uint64()
	return fee, gross - fee, nil
}

// Add returns a+b or an overflow error.
func Add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, types.Overflowf("%d + %d", a, b)
	}
	return sum, nil
}

// Sub returns a-b or an overflow error when b > a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, types.Overflowf("%d - %d", a, b)
	}
	return a - b, nil
}

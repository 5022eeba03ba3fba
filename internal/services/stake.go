package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/rewards"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

// Stake locks amount of the stake asset of caller into poolID. Rewards
// earned so far by the position are moved to pending.
func (s *Service) Stake(ctx context.Context, caller string, poolID uint8, amount uint64) error {
	if err := s.authorizeUser(ctx, caller); err != nil {
		return err
	}

	return s.execute(ctx, opStake, func(ctx context.Context, now int64) (*plan, error) {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return nil, err
		}
		if econ.IsPaused {
			return nil, types.NewStateError(types.ErrSystemPaused)
		}
		if amount < econ.MinStakeAmount {
			return nil, types.NewValidationFailedError(
				fmt.Errorf("%w: %d < %d", types.ErrBelowMinimumStake, amount, econ.MinStakeAmount),
			)
		}

		pool, err := s.loadPool(ctx, poolID)
		if err != nil {
			return nil, err
		}
		if !pool.IsActive {
			return nil, types.NewStateError(fmt.Errorf("%w: %d", types.ErrPoolNotActive, poolID))
		}

		stake, err := s.loadStake(ctx, caller, poolID)
		if err != nil {
			return nil, err
		}
		created := stake == nil
		if created {
			stake = model.NewUserStake(caller, poolID)
		}

		p := newPlan(econ, pool, stake)
		econ, pool, stake = p.changeset.Economics, p.changeset.Pool, p.changeset.Stake

		poolTotal, err := rewards.Add(pool.TotalStaked, amount)
		if err != nil {
			return nil, err
		}
		if poolTotal > pool.MaxCapacity {
			return nil, types.NewValidationFailedError(
				fmt.Errorf("%w: pool %d holds %d of %d", types.ErrPoolCapacityExceeded, poolID, pool.TotalStaked, pool.MaxCapacity),
			)
		}
		userTotal, err := rewards.Add(stake.TotalStaked, amount)
		if err != nil {
			return nil, err
		}
		if userTotal > econ.MaxStakeAmount {
			return nil, types.NewValidationFailedError(
				fmt.Errorf("%w: %d > %d", types.ErrExceedsMaximumStake, userTotal, econ.MaxStakeAmount),
			)
		}

		if err := rewards.Accrue(econ, pool, now); err != nil {
			return nil, err
		}
		if err := settleIntoPending(stake, pool); err != nil {
			return nil, err
		}

		if stake.TotalStaked == 0 {
			stake.FirstStakeTime = now
			if err := incStakers(econ, pool); err != nil {
				return nil, err
			}
		}

		stake.TotalStaked = userTotal
		stake.LastStakeTime = now
		pool.TotalStaked = poolTotal
		if econ.TotalStaked, err = rewards.Add(econ.TotalStaked, amount); err != nil {
			return nil, err
		}
		if stake.RewardDebt, err = rewards.RewardDebt(stake.TotalStaked, pool); err != nil {
			return nil, err
		}

		p.instructions = []instruction{{
			signer: caller,
			transfer: ledger.Transfer{
				Asset:  econ.StakeAssetID,
				From:   caller,
				To:     econ.StakeVault,
				Amount: amount,
			},
		}}

		p.event = newPoolEvent(types.EventStake, now, poolID)
		p.event.User = caller
		p.event.Amount = amount
		p.event.Details = types.StakeDetails{
			TotalUserStake: stake.TotalStaked,
			TotalPoolStake: pool.TotalStaked,
		}

		log.Ctx(ctx).Debug().
			Str("user", caller).
			Uint8("pool_id", poolID).
			Uint64("amount", amount).
			Uint64("total_user_stake", stake.TotalStaked).
			Msg("stake planned")
		return p, nil
	})
}

// settleIntoPending moves the rewards earned by stake since its last
// re-baseline into its pending rewards.
func settleIntoPending(stake *model.UserStake, pool *model.StakingPool) error {
	earned, err := rewards.PendingRewards(stake, pool)
	if err != nil {
		return err
	}
	stake.PendingRewards, err = rewards.Add(stake.PendingRewards, earned)
	return err
}

func incStakers(econ *model.Economics, pool *model.StakingPool) error {
	if pool.ActiveStakers == math.MaxUint32 {
		return types.Overflowf("active stakers of pool %d", pool.PoolID)
	}
	active, err := rewards.Add(econ.ActiveStakers, 1)
	if err != nil {
		return err
	}
	pool.ActiveStakers++
	econ.ActiveStakers = active
	return nil
}

func decStakers(econ *model.Economics, pool *model.StakingPool) error {
	if pool.ActiveStakers == 0 {
		return types.Overflowf("active stakers of pool %d below zero", pool.PoolID)
	}
	active, err := rewards.Sub(econ.ActiveStakers, 1)
	if err != nil {
		return err
	}
	pool.ActiveStakers--
	econ.ActiveStakers = active
	return nil
}

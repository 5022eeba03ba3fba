package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/rewards"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

// Unstake returns amount of the principal of caller in poolID, 0 returns
// all of it. Rewards earned so far stay pending until claimed.
func (s *Service) Unstake(ctx context.Context, caller string, poolID uint8, amount uint64) error {
	if err := s.authorizeUser(ctx, caller); err != nil {
		return err
	}

	return s.execute(ctx, opUnstake, func(ctx context.Context, now int64) (*plan, error) {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return nil, err
		}
		if econ.EmergencyMode {
			return nil, types.NewStateError(types.ErrEmergencyMode)
		}

		pool, err := s.loadPool(ctx, poolID)
		if err != nil {
			return nil, err
		}
		stake, err := s.loadStake(ctx, caller, poolID)
		if err != nil {
			return nil, err
		}
		if stake == nil || stake.TotalStaked == 0 {
			return nil, types.NewStateError(types.ErrNoStakeToUnstake)
		}
		if held := now - stake.LastStakeTime; held < pool.MinStakePeriod {
			return nil, types.NewStateError(
				fmt.Errorf("%w: held %ds of %ds", types.ErrMinimumStakePeriodNotMet, held, pool.MinStakePeriod),
			)
		}

		withdraw := amount
		if withdraw == 0 {
			withdraw = stake.TotalStaked
		}
		if withdraw > stake.TotalStaked {
			return nil, types.NewValidationFailedError(
				fmt.Errorf("%w: %d > %d", types.ErrInsufficientStake, withdraw, stake.TotalStaked),
			)
		}

		p := newPlan(econ, pool, stake)
		econ, pool, stake = p.changeset.Economics, p.changeset.Pool, p.changeset.Stake

		if err := rewards.Accrue(econ, pool, now); err != nil {
			return nil, err
		}
		if err := settleIntoPending(stake, pool); err != nil {
			return nil, err
		}

		if stake.TotalStaked, err = rewards.Sub(stake.TotalStaked, withdraw); err != nil {
			return nil, err
		}
		if stake.TotalStaked == 0 {
			if err := decStakers(econ, pool); err != nil {
				return nil, err
			}
		}
		if stake.RewardDebt, err = rewards.RewardDebt(stake.TotalStaked, pool); err != nil {
			return nil, err
		}
		if pool.TotalStaked, err = rewards.Sub(pool.TotalStaked, withdraw); err != nil {
			return nil, err
		}
		if econ.TotalStaked, err = rewards.Sub(econ.TotalStaked, withdraw); err != nil {
			return nil, err
		}

		p.instructions = []instruction{{transfer: ledger.Transfer{
			Asset:  econ.StakeAssetID,
			From:   econ.StakeVault,
			To:     caller,
			Amount: withdraw,
		}}}

		p.event = newPoolEvent(types.EventUnstake, now, poolID)
		p.event.User = caller
		p.event.Amount = withdraw
		p.event.Details = types.UnstakeDetails{RemainingStake: stake.TotalStaked}

		log.Ctx(ctx).Debug().
			Str("user", caller).
			Uint8("pool_id", poolID).
			Uint64("amount", withdraw).
			Uint64("remaining_stake", stake.TotalStaked).
			Msg("unstake planned")
		return p, nil
	})
}

// EmergencyUnstake returns the whole principal of caller in poolID while
// emergency mode is on. Pending and unsettled rewards are forfeited and the
// pool accumulator is not consulted.
func (s *Service) EmergencyUnstake(ctx context.Context, caller string, poolID uint8) error {
	if err := s.authorizeUser(ctx, caller); err != nil {
		return err
	}

	return s.execute(ctx, opEmergencyUnstake, func(ctx context.Context, now int64) (*plan, error) {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return nil, err
		}
		if !econ.EmergencyMode {
			return nil, types.NewStateError(types.ErrNotInEmergencyMode)
		}

		pool, err := s.loadPool(ctx, poolID)
		if err != nil {
			return nil, err
		}
		stake, err := s.loadStake(ctx, caller, poolID)
		if err != nil {
			return nil, err
		}
		if stake == nil || stake.TotalStaked == 0 {
			return nil, types.NewStateError(types.ErrNoStakeToUnstake)
		}

		p := newPlan(econ, pool, stake)
		econ, pool, stake = p.changeset.Economics, p.changeset.Pool, p.changeset.Stake

		principal := stake.TotalStaked
		stake.TotalStaked = 0
		stake.PendingRewards = 0
		stake.RewardDebt = 0

		if pool.TotalStaked, err = rewards.Sub(pool.TotalStaked, principal); err != nil {
			return nil, err
		}
		if econ.TotalStaked, err = rewards.Sub(econ.TotalStaked, principal); err != nil {
			return nil, err
		}
		if err := decStakers(econ, pool); err != nil {
			return nil, err
		}

		p.instructions = []instruction{{transfer: ledger.Transfer{
			Asset:  econ.StakeAssetID,
			From:   econ.StakeVault,
			To:     caller,
			Amount: principal,
		}}}

		p.event = newPoolEvent(types.EventEmergencyUnstake, now, poolID)
		p.event.User = caller
		p.event.Amount = principal

		log.Ctx(ctx).Warn().
			Str("user", caller).
			Uint8("pool_id", poolID).
			Uint64("amount", principal).
			Msg("emergency unstake planned")
		return p, nil
	})
}

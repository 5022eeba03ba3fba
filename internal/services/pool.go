package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/rewards"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

func (s *Service) CreateStakingPool(
	ctx context.Context,
	caller string,
	poolID uint8,
	rewardMultiplier uint16,
	minStakePeriod int64,
	maxCapacity uint64,
) error {
	return s.run(ctx, opCreateStakingPool, func(ctx context.Context) error {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return err
		}
		if err := s.authorizeAdmin(ctx, caller, econ); err != nil {
			return err
		}
		if econ.IsPaused {
			return types.NewStateError(types.ErrSystemPaused)
		}
		if rewardMultiplier == 0 || rewardMultiplier > rewards.MaxRewardMultiplier {
			return types.NewValidationFailedError(
				fmt.Errorf("%w: %d is outside (0, %d]", types.ErrInvalidMultiplier, rewardMultiplier, rewards.MaxRewardMultiplier),
			)
		}
		if minStakePeriod < 0 {
			return types.NewValidationFailedError(
				fmt.Errorf("%w: %d", types.ErrInvalidStakePeriod, minStakePeriod),
			)
		}

		now := s.clock.Now()
		pool := &model.StakingPool{
			PoolID:           poolID,
			RewardMultiplier: rewardMultiplier,
			MinStakePeriod:   minStakePeriod,
			MaxCapacity:      maxCapacity,
			IsActive:         true,
			CreatedAt:        now,
		}
		if err := s.db.SaveNewStakingPool(ctx, pool); err != nil {
			if db.IsDuplicateKeyError(err) {
				return types.NewStateError(fmt.Errorf("%w: %d", types.ErrPoolExists, poolID))
			}
			return types.NewInternalServiceError(fmt.Errorf("failed to save pool %d: %w", poolID, err))
		}

		ev := newPoolEvent(types.EventPoolCreated, now, poolID)
		ev.Details = types.PoolCreatedDetails{
			RewardMultiplier: rewardMultiplier,
			MinStakePeriod:   minStakePeriod,
			MaxCapacity:      maxCapacity,
		}
		s.publish(ctx, ev)

		log.Ctx(ctx).Info().
			Uint8("pool_id", poolID).
			Uint16("reward_multiplier", rewardMultiplier).
			Int64("min_stake_period", minStakePeriod).
			Uint64("max_capacity", maxCapacity).
			Msg("staking pool created")
		return nil
	})
}

func (s *Service) GetStakingPool(ctx context.Context, poolID uint8) (*model.StakingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadPool(ctx, poolID)
}

func (s *Service) ListStakingPools(ctx context.Context) ([]*model.StakingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools, err := s.db.ListStakingPools(ctx)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to list pools: %w", err))
	}
	return pools, nil
}

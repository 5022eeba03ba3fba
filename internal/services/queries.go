package services

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/rewards"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

// RewardsPreview is what a claim would pay if it ran at Timestamp.
type RewardsPreview struct {
	User          string `json:"user"`
	PoolID        uint8  `json:"pool_id"`
	Timestamp     int64  `json:"timestamp"`
	GrossReward   uint64 `json:"gross_reward"`
	GovernanceFee uint64 `json:"governance_fee"`
	NetReward     uint64 `json:"net_reward"`
}

func (s *Service) GetUserStake(ctx context.Context, user string, poolID uint8) (*model.UserStake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.existingStake(ctx, user, poolID)
}

func (s *Service) existingStake(ctx context.Context, user string, poolID uint8) (*model.UserStake, error) {
	stake, err := s.loadStake(ctx, user, poolID)
	if err != nil {
		return nil, err
	}
	if stake == nil {
		return nil, types.NewNotFoundError(
			fmt.Errorf("%w: %s in pool %d", types.ErrStakeNotFound, user, poolID),
		)
	}
	return stake, nil
}

func (s *Service) ListUserStakes(ctx context.Context, user string) ([]*model.UserStake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stakes, err := s.db.ListUserStakes(ctx, user)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to list stakes of %s: %w", user, err))
	}
	return stakes, nil
}

// PreviewRewards accrues and settles copies of the stored records, nothing
// is written.
func (s *Service) PreviewRewards(ctx context.Context, user string, poolID uint8) (*RewardsPreview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	econ, err := s.loadEconomics(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := s.loadPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	stake, err := s.existingStake(ctx, user, poolID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	econ, pool = econ.Clone(), pool.Clone()
	if err := rewards.Accrue(econ, pool, now); err != nil {
		return nil, err
	}
	settled, err := rewards.PendingRewards(stake, pool)
	if err != nil {
		return nil, err
	}
	gross, err := rewards.Add(stake.PendingRewards, settled)
	if err != nil {
		return nil, err
	}
	fee, net, err := rewards.SplitFee(gross, econ.GovernanceFeeBps)
	if err != nil {
		return nil, err
	}

	return &RewardsPreview{
		User:          user,
		PoolID:        poolID,
		Timestamp:     now,
		GrossReward:   gross,
		GovernanceFee: fee,
		NetReward:     net,
	}, nil
}

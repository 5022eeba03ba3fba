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

// InitializeEconomics creates the economics record. The caller becomes its
// authority.
func (s *Service) InitializeEconomics(
	ctx context.Context,
	caller string,
	rewardRatePerSecond uint64,
	governanceFeeBps uint16,
	minStakeAmount, maxStakeAmount uint64,
) error {
	return s.run(ctx, opInitializeEconomics, func(ctx context.Context) error {
		if err := s.authorizeUser(ctx, caller); err != nil {
			return err
		}
		if uint64(governanceFeeBps) > rewards.BpsBase {
			return types.NewValidationFailedError(types.ErrInvalidFeeRate)
		}
		if minStakeAmount == 0 {
			return types.NewValidationFailedError(
				fmt.Errorf("%w: minimum stake must be positive", types.ErrInvalidStakeAmount),
			)
		}
		if maxStakeAmount < minStakeAmount {
			return types.NewValidationFailedError(
				fmt.Errorf("%w: maximum stake %d is below minimum stake %d",
					types.ErrInvalidStakeAmount, maxStakeAmount, minStakeAmount),
			)
		}

		now := s.clock.Now()
		cfg := s.cfg.Economics
		econ := &model.Economics{
			ID:                   model.EconomicsID,
			Authority:            caller,
			StakeAssetID:         cfg.StakeAssetID,
			RewardAssetID:        cfg.RewardAssetID,
			StakeVault:           cfg.StakeVault,
			RewardVault:          cfg.RewardVault,
			TreasuryVault:        cfg.TreasuryVault,
			RewardRatePerSecond:  rewardRatePerSecond,
			GovernanceFeeBps:     governanceFeeBps,
			MinStakeAmount:       minStakeAmount,
			MaxStakeAmount:       maxStakeAmount,
			LastRewardUpdateTime: now,
			CreatedAt:            now,
		}
		if err := s.db.SaveEconomics(ctx, econ); err != nil {
			if db.IsDuplicateKeyError(err) {
				return types.NewStateError(types.ErrAlreadyInitialized)
			}
			return types.NewInternalServiceError(fmt.Errorf("failed to save economics: %w", err))
		}

		log.Ctx(ctx).Info().
			Str("authority", caller).
			Uint64("reward_rate_per_second", rewardRatePerSecond).
			Uint16("governance_fee_bps", governanceFeeBps).
			Msg("economics initialized")
		return nil
	})
}

func (s *Service) GetEconomics(ctx context.Context) (*model.Economics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadEconomics(ctx)
}

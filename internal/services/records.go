package services

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/types"
	"github.com/babylonlabs-io/token-economics/pkg"
)

func (s *Service) loadEconomics(ctx context.Context) (*model.Economics, error) {
	econ, err := s.db.GetEconomics(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewNotFoundError(types.ErrNotInitialized)
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to load economics: %w", err))
	}
	return econ, nil
}

func (s *Service) loadPool(ctx context.Context, poolID uint8) (*model.StakingPool, error) {
	pool, err := s.db.GetStakingPool(ctx, poolID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewNotFoundError(fmt.Errorf("%w: %d", types.ErrPoolNotFound, poolID))
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to load pool %d: %w", poolID, err))
	}
	return pool, nil
}

// loadStake returns nil without an error if user never staked into poolID.
func (s *Service) loadStake(ctx context.Context, user string, poolID uint8) (*model.UserStake, error) {
	stake, err := s.db.GetUserStake(ctx, user, poolID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, types.NewInternalServiceError(
			fmt.Errorf("failed to load stake of %s in pool %d: %w", user, poolID, err),
		)
	}
	return stake, nil
}

// authorizeUser checks that caller acts on its own behalf and can be used
// as a stake owner.
func (s *Service) authorizeUser(ctx context.Context, caller string) error {
	if err := s.auth.Authorize(ctx, caller, caller); err != nil {
		return err
	}
	if err := pkg.ValidatePrincipal(caller); err != nil {
		return types.NewValidationFailedError(fmt.Errorf("invalid caller: %w", err))
	}
	return nil
}

func (s *Service) authorizeAdmin(ctx context.Context, caller string, econ *model.Economics) error {
	return s.auth.Authorize(ctx, caller, econ.Authority)
}

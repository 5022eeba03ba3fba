package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

// adminUpdate runs an authority-only change of the economics record.
func (s *Service) adminUpdate(
	ctx context.Context,
	op string,
	caller string,
	update func(econ *model.Economics, now int64) *types.Event,
) error {
	err := s.execute(ctx, op, func(ctx context.Context, now int64) (*plan, error) {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeAdmin(ctx, caller, econ); err != nil {
			return nil, err
		}

		p := newPlan(econ, nil, nil)
		p.event = update(p.changeset.Economics, now)
		return p, nil
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("operation", op).Str("authority", caller).Msg("economics updated")
	return nil
}

func (s *Service) SetPauseState(ctx context.Context, caller string, paused bool) error {
	return s.adminUpdate(ctx, opSetPauseState, caller, func(econ *model.Economics, now int64) *types.Event {
		econ.IsPaused = paused

		ev := newEvent(types.EventPauseStateChanged, now)
		ev.Details = types.FlagDetails{Enabled: paused}
		return ev
	})
}

func (s *Service) SetEmergencyMode(ctx context.Context, caller string, enabled bool) error {
	return s.adminUpdate(ctx, opSetEmergencyMode, caller, func(econ *model.Economics, now int64) *types.Event {
		econ.EmergencyMode = enabled

		ev := newEvent(types.EventEmergencyModeChanged, now)
		ev.Details = types.FlagDetails{Enabled: enabled}
		return ev
	})
}

// UpdateRewardRate replaces the emission rate. No accrual tick happens
// first, so the interval since the last update is accrued at the new rate
// by whichever pool is touched next.
func (s *Service) UpdateRewardRate(ctx context.Context, caller string, rate uint64) error {
	return s.adminUpdate(ctx, opUpdateRewardRate, caller, func(econ *model.Economics, now int64) *types.Event {
		econ.RewardRatePerSecond = rate

		ev := newEvent(types.EventRewardRateUpdated, now)
		ev.Details = types.RewardRateDetails{NewRate: rate}
		return ev
	})
}

// FundRewards moves amount of the reward asset from the authority into the
// reward vault. No record changes.
func (s *Service) FundRewards(ctx context.Context, caller string, amount uint64) error {
	return s.execute(ctx, opFundRewards, func(ctx context.Context, now int64) (*plan, error) {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeAdmin(ctx, caller, econ); err != nil {
			return nil, err
		}
		if amount == 0 {
			return nil, types.NewValidationFailedError(types.ErrInvalidAmount)
		}

		ev := newEvent(types.EventRewardsFunded, now)
		ev.User = caller
		ev.Amount = amount
		return &plan{
			instructions: []instruction{{
				signer: caller,
				transfer: ledger.Transfer{
					Asset:  econ.RewardAssetID,
					From:   caller,
					To:     econ.RewardVault,
					Amount: amount,
				},
			}},
			event: ev,
		}, nil
	})
}

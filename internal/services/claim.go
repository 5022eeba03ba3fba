package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/rewards"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

// ClaimRewards pays out the rewards of caller in poolID minus the
// governance fee, which goes to the treasury.
func (s *Service) ClaimRewards(ctx context.Context, caller string, poolID uint8) error {
	if err := s.authorizeUser(ctx, caller); err != nil {
		return err
	}

	return s.execute(ctx, opClaimRewards, func(ctx context.Context, now int64) (*plan, error) {
		econ, err := s.loadEconomics(ctx)
		if err != nil {
			return nil, err
		}
		if econ.IsPaused {
			return nil, types.NewStateError(types.ErrSystemPaused)
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
		if stake == nil {
			return nil, types.NewStateError(types.ErrNoRewardsToClaim)
		}

		p := newPlan(econ, pool, stake)
		econ, pool, stake = p.changeset.Economics, p.changeset.Pool, p.changeset.Stake

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
		if gross == 0 {
			return nil, types.NewStateError(types.ErrNoRewardsToClaim)
		}
		fee, net, err := rewards.SplitFee(gross, econ.GovernanceFeeBps)
		if err != nil {
			return nil, err
		}

		stake.PendingRewards = 0
		if stake.RewardDebt, err = rewards.RewardDebt(stake.TotalStaked, pool); err != nil {
			return nil, err
		}
		if stake.TotalRewardsClaimed, err = rewards.Add(stake.TotalRewardsClaimed, net); err != nil {
			return nil, err
		}
		stake.LastClaimTime = now
		if econ.TotalRewardsDistributed, err = rewards.Add(econ.TotalRewardsDistributed, gross); err != nil {
			return nil, err
		}

		if fee > 0 {
			p.instructions = append(p.instructions, instruction{transfer: ledger.Transfer{
				Asset:  econ.RewardAssetID,
				From:   econ.RewardVault,
				To:     econ.TreasuryVault,
				Amount: fee,
			}})
		}
		if net > 0 {
			p.instructions = append(p.instructions, instruction{transfer: ledger.Transfer{
				Asset:  econ.RewardAssetID,
				From:   econ.RewardVault,
				To:     caller,
				Amount: net,
			}})
		}

		p.event = newPoolEvent(types.EventRewardClaim, now, poolID)
		p.event.User = caller
		p.event.Amount = net
		p.event.Details = types.RewardClaimDetails{
			GrossReward:   gross,
			GovernanceFee: fee,
			NetReward:     net,
		}

		log.Ctx(ctx).Debug().
			Str("user", caller).
			Uint8("pool_id", poolID).
			Uint64("gross", gross).
			Uint64("fee", fee).
			Uint64("net", net).
			Msg("claim planned")
		return p, nil
	})
}

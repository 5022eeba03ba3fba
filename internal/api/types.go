package api

import "github.com/babylonlabs-io/token-economics/internal/db/model"

type EconomicsResponse struct {
	Authority               string `json:"authority"`
	StakeAssetID            string `json:"stake_asset_id"`
	RewardAssetID           string `json:"reward_asset_id"`
	StakeVault              string `json:"stake_vault"`
	RewardVault             string `json:"reward_vault"`
	TreasuryVault           string `json:"treasury_vault"`
	RewardRatePerSecond     uint64 `json:"reward_rate_per_second"`
	GovernanceFeeBps        uint16 `json:"governance_fee_bps"`
	MinStakeAmount          uint64 `json:"min_stake_amount"`
	MaxStakeAmount          uint64 `json:"max_stake_amount"`
	TotalStaked             uint64 `json:"total_staked"`
	TotalRewardsDistributed uint64 `json:"total_rewards_distributed"`
	ActiveStakers           uint64 `json:"active_stakers"`
	LastRewardUpdateTime    int64  `json:"last_reward_update_time"`
	IsPaused                bool   `json:"is_paused"`
	EmergencyMode           bool   `json:"emergency_mode"`
	CreatedAt               int64  `json:"created_at"`
}

func newEconomicsResponse(e *model.Economics) *EconomicsResponse {
	return &EconomicsResponse{
		Authority:               e.Authority,
		StakeAssetID:            e.StakeAssetID,
		RewardAssetID:           e.RewardAssetID,
		StakeVault:              e.StakeVault,
		RewardVault:             e.RewardVault,
		TreasuryVault:           e.TreasuryVault,
		RewardRatePerSecond:     e.RewardRatePerSecond,
		GovernanceFeeBps:        e.GovernanceFeeBps,
		MinStakeAmount:          e.MinStakeAmount,
		MaxStakeAmount:          e.MaxStakeAmount,
		TotalStaked:             e.TotalStaked,
		TotalRewardsDistributed: e.TotalRewardsDistributed,
		ActiveStakers:           e.ActiveStakers,
		LastRewardUpdateTime:    e.LastRewardUpdateTime,
		IsPaused:                e.IsPaused,
		EmergencyMode:           e.EmergencyMode,
		CreatedAt:               e.CreatedAt,
	}
}

type PoolResponse struct {
	PoolID                    uint8  `json:"pool_id"`
	RewardMultiplier          uint16 `json:"reward_multiplier"`
	MinStakePeriod            int64  `json:"min_stake_period"`
	MaxCapacity               uint64 `json:"max_capacity"`
	TotalStaked               uint64 `json:"total_staked"`
	ActiveStakers             uint32 `json:"active_stakers"`
	AccumulatedRewardPerShare uint64 `json:"accumulated_reward_per_share"`
	IsActive                  bool   `json:"is_active"`
	CreatedAt                 int64  `json:"created_at"`
}

func newPoolResponse(p *model.StakingPool) *PoolResponse {
	return &PoolResponse{
		PoolID:                    p.PoolID,
		RewardMultiplier:          p.RewardMultiplier,
		MinStakePeriod:            p.MinStakePeriod,
		MaxCapacity:               p.MaxCapacity,
		TotalStaked:               p.TotalStaked,
		ActiveStakers:             p.ActiveStakers,
		AccumulatedRewardPerShare: p.AccumulatedRewardPerShare,
		IsActive:                  p.IsActive,
		CreatedAt:                 p.CreatedAt,
	}
}

type StakeResponse struct {
	User                string `json:"user"`
	PoolID              uint8  `json:"pool_id"`
	TotalStaked         uint64 `json:"total_staked"`
	PendingRewards      uint64 `json:"pending_rewards"`
	RewardDebt          uint64 `json:"reward_debt"`
	TotalRewardsClaimed uint64 `json:"total_rewards_claimed"`
	FirstStakeTime      int64  `json:"first_stake_time"`
	LastStakeTime       int64  `json:"last_stake_time"`
	LastClaimTime       int64  `json:"last_claim_time"`
}

func newStakeResponse(s *model.UserStake) *StakeResponse {
	return &StakeResponse{
		User:                s.User,
		PoolID:              s.PoolID,
		TotalStaked:         s.TotalStaked,
		PendingRewards:      s.PendingRewards,
		RewardDebt:          s.RewardDebt,
		TotalRewardsClaimed: s.TotalRewardsClaimed,
		FirstStakeTime:      s.FirstStakeTime,
		LastStakeTime:       s.LastStakeTime,
		LastClaimTime:       s.LastClaimTime,
	}
}

type InitializeEconomicsRequest struct {
	RewardRatePerSecond uint64 `json:"reward_rate_per_second"`
	GovernanceFeeBps    uint16 `json:"governance_fee_bps"`
	MinStakeAmount      uint64 `json:"min_stake_amount"`
	MaxStakeAmount      uint64 `json:"max_stake_amount"`
}

type CreatePoolRequest struct {
	PoolID           uint8  `json:"pool_id"`
	RewardMultiplier uint16 `json:"reward_multiplier"`
	MinStakePeriod   int64  `json:"min_stake_period"`
	MaxCapacity      uint64 `json:"max_capacity"`
}

// AmountRequest is the body of stake, unstake and fund requests.
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

type FlagRequest struct {
	Enabled bool `json:"enabled"`
}

type RewardRateRequest struct {
	Rate uint64 `json:"rate"`
}

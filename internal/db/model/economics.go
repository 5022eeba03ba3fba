package model

const EconomicsCollection = "economics"

// EconomicsID is the _id of the only document in EconomicsCollection.
const EconomicsID = "singleton"

// Economics is the process-wide ledger of emission parameters, aggregates
// and system flags.
type Economics struct {
	ID        string `bson:"_id"`
	Authority string `bson:"authority"`

	StakeAssetID  string `bson:"stake_asset_id"`
	RewardAssetID string `bson:"reward_asset_id"`
	StakeVault    string `bson:"stake_vault"`
	RewardVault   string `bson:"reward_vault"`
	TreasuryVault string `bson:"treasury_vault"`

	RewardRatePerSecond uint64 `bson:"reward_rate_per_second"`
	GovernanceFeeBps    uint16 `bson:"governance_fee_bps"`
	MinStakeAmount      uint64 `bson:"min_stake_amount"`
	MaxStakeAmount      uint64 `bson:"max_stake_amount"`

	TotalStaked             uint64 `bson:"total_staked"`
	TotalRewardsDistributed uint64 `bson:"total_rewards_distributed"`
	ActiveStakers           uint64 `bson:"active_stakers"`
	LastRewardUpdateTime    int64  `bson:"last_reward_update_time"`

	IsPaused      bool  `bson:"is_paused"`
	EmergencyMode bool  `bson:"emergency_mode"`
	CreatedAt     int64 `bson:"created_at"`

	// Version is bumped by the store on every commit.
	Version uint64 `bson:"version"`
}

func (e *Economics) Clone() *Economics {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

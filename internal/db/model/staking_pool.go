package model

const StakingPoolCollection = "staking_pool"

type StakingPool struct {
	PoolID           uint8  `bson:"_id"`
	RewardMultiplier uint16 `bson:"reward_multiplier"` // percent, 100 = 1x
	MinStakePeriod   int64  `bson:"min_stake_period"`  // seconds
	MaxCapacity      uint64 `bson:"max_capacity"`

	TotalStaked   uint64 `bson:"total_staked"`
	ActiveStakers uint32 `bson:"active_stakers"`
	// AccumulatedRewardPerShare is scaled by rewards.Precision.
	AccumulatedRewardPerShare uint64 `bson:"accumulated_reward_per_share"`

	IsActive  bool   `bson:"is_active"`
	CreatedAt int64  `bson:"created_at"`
	Version   uint64 `bson:"version"`
}

func (p *StakingPool) Clone() *StakingPool {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
